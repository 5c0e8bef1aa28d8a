// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import "testing"

func TestGetStorageStatus_ClassifiesTransitions(t *testing.T) {
	x, y, z := Word{1}, Word{2}, Word{3}
	zero := Word{}
	tests := []struct {
		original, current, new Word
		want                   StorageStatus
	}{
		{zero, zero, zero, StorageAssigned},
		{x, x, x, StorageAssigned},
		{zero, zero, x, StorageAdded},
		{x, x, zero, StorageDeleted},
		{x, x, y, StorageModified},
		{x, zero, y, StorageDeletedAdded},
		{x, y, zero, StorageModifiedDeleted},
		{x, zero, x, StorageDeletedRestored},
		{zero, y, zero, StorageAddedDeleted},
		{x, y, x, StorageModifiedRestored},
		{zero, x, y, StorageAssigned},
		{x, y, z, StorageAssigned},
	}

	for _, test := range tests {
		got := GetStorageStatus(test.original, test.current, test.new)
		if want := test.want; want != got {
			t.Errorf("unexpected status for %v -> %v -> %v, wanted %v, got %v",
				test.original, test.current, test.new, want, got)
		}
	}
}

func TestStorageStatus_String(t *testing.T) {
	tests := map[StorageStatus]string{
		StorageAssigned:         "StorageAssigned",
		StorageDeletedAdded:     "StorageDeletedAdded",
		StorageModifiedRestored: "StorageModifiedRestored",
		StorageStatus(-1):       "StorageStatus(-1)",
		StorageStatus(42):       "StorageStatus(42)",
	}
	for status, want := range tests {
		if got := status.String(); want != got {
			t.Errorf("unexpected print, wanted %v, got %v", want, got)
		}
	}
}
