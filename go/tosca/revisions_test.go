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

import (
	"fmt"
	"testing"
)

func TestRevisions_ParseIgnoresCase(t *testing.T) {
	tests := map[string]Revision{
		"frontier": R00_Frontier,
		"Frontier": R00_Frontier,
		"LONDON":   R10_London,
		"cancun":   R13_Cancun,
	}
	for input, want := range tests {
		got, err := ParseRevision(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		if want != got {
			t.Errorf("unexpected revision for %q, wanted %v, got %v", input, want, got)
		}
	}
	if _, err := ParseRevision("homestead"); err == nil {
		t.Errorf("expected unknown revision to be rejected")
	}
}

func TestRevisions_GoStringNamesConstant(t *testing.T) {
	tests := map[Revision]string{
		R00_Frontier: "tosca.R00_Frontier",
		R13_Cancun:   "tosca.R13_Cancun",
		Revision(42): "tosca.Revision(42)",
	}
	for revision, want := range tests {
		if got := fmt.Sprintf("%#v", revision); want != got {
			t.Errorf("unexpected Go representation, wanted %v, got %v", want, got)
		}
	}
}

func TestErrUnsupportedRevision_NamesRevision(t *testing.T) {
	var err error = &ErrUnsupportedRevision{Revision: R13_Cancun}
	if want, got := "unsupported revision Cancun", err.Error(); want != got {
		t.Errorf("unexpected message, wanted %q, got %q", want, got)
	}
}
