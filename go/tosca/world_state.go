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

import "fmt"

// WorldState grants access to the accounts an interpreter operates on. Every
// account has a balance and a nonce and may have code and storage.
type WorldState interface {
	AccountExists(Address) bool

	GetBalance(Address) Value
	SetBalance(Address, Value)

	GetNonce(Address) uint64
	SetNonce(Address, uint64)

	GetCode(Address) Code
	GetCodeHash(Address) Hash
	GetCodeSize(Address) int
	SetCode(Address, Code)

	GetStorage(Address, Key) Word
	SetStorage(Address, Key, Word) StorageStatus

	// SelfDestruct marks addr as destructed and moves its balance to the
	// beneficiary. It reports whether addr was not yet marked in the current
	// transaction.
	SelfDestruct(addr Address, beneficiary Address) bool
}

// StorageStatus classifies the effect of a storage update on a slot relative
// to the slot's value at the begin of the transaction and its current value.
// SSTORE gas costs depend on it.
type StorageStatus int

// In the transitions below, X, Y and Z are distinct non-zero words.
//
//	<original> -> <current> -> <new>
const (
	StorageAssigned         StorageStatus = iota
	StorageAdded                          // 0 -> 0 -> Z
	StorageDeleted                        // X -> X -> 0
	StorageModified                       // X -> X -> Z
	StorageDeletedAdded                   // X -> 0 -> Z
	StorageModifiedDeleted                // X -> Y -> 0
	StorageDeletedRestored                // X -> 0 -> X
	StorageAddedDeleted                   // 0 -> Y -> 0
	StorageModifiedRestored               // X -> Y -> X
)

var storageStatusNames = [...]string{
	StorageAssigned:         "StorageAssigned",
	StorageAdded:            "StorageAdded",
	StorageDeleted:          "StorageDeleted",
	StorageModified:         "StorageModified",
	StorageDeletedAdded:     "StorageDeletedAdded",
	StorageModifiedDeleted:  "StorageModifiedDeleted",
	StorageDeletedRestored:  "StorageDeletedRestored",
	StorageAddedDeleted:     "StorageAddedDeleted",
	StorageModifiedRestored: "StorageModifiedRestored",
}

func (s StorageStatus) String() string {
	if s >= 0 && int(s) < len(storageStatusNames) {
		return storageStatusNames[s]
	}
	return fmt.Sprintf("StorageStatus(%d)", int(s))
}

// GetStorageStatus classifies the update of a slot holding the current value
// to the new value, where original is the value committed before the ongoing
// transaction.
func GetStorageStatus(original, current, new Word) StorageStatus {
	if current == new {
		return StorageAssigned
	}
	var zero Word
	if original == current {
		switch {
		case original == zero:
			return StorageAdded
		case new == zero:
			return StorageDeleted
		default:
			return StorageModified
		}
	}

	// The slot is dirty from here on.
	if original == zero {
		if new == zero {
			return StorageAddedDeleted
		}
		return StorageAssigned
	}
	switch {
	case current == zero && new == original:
		return StorageDeletedRestored
	case current == zero:
		return StorageDeletedAdded
	case new == zero:
		return StorageModifiedDeleted
	case new == original:
		return StorageModifiedRestored
	}
	return StorageAssigned
}
