// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fixture loads Ethereum VM test fixtures. A fixture file holds a
// collection of named fixtures, each describing a block context, a
// pre-state, a single invocation and the expected outcome. Fixtures,
// accounts and storage entries are kept in the order of the file.
package fixture

import (
	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/holiman/uint256"
)

// Collection is the content of a single fixture file.
type Collection struct {
	Path     string
	Checksum [32]byte // < SHA-256 of the file content
	Fixtures []*Fixture
}

// Fixture is a single named VM test.
type Fixture struct {
	Name        string
	Env         Env
	Pre         []Account
	Exec        Exec
	Post        *Post // < nil if the invocation is expected to throw
	CallCreates int
}

// Env is the block context of a fixture.
type Env struct {
	Coinbase   uint256.Int
	Difficulty uint256.Int
	GasLimit   uint256.Int
	Number     uint256.Int
	Timestamp  uint256.Int
}

// Account is the state of a single account.
type Account struct {
	Address tosca.Address
	Code    []byte
	Nonce   uint256.Int
	Balance uint256.Int
	Storage []StorageEntry
}

type StorageEntry struct {
	Key   uint256.Int
	Value uint256.Int
}

// Exec is the invocation performed by a fixture.
type Exec struct {
	Address  tosca.Address
	Caller   tosca.Address
	Origin   tosca.Address
	Code     []byte
	Data     []byte
	Gas      uint256.Int
	GasPrice uint256.Int
	Value    uint256.Int
}

// Post is the expected outcome of a completed invocation. Missing parts are
// nil.
type Post struct {
	Accounts []Account
	Out      []byte
	Logs     *tosca.Hash
	Gas      *uint256.Int
}

// Callee returns the pre-state of the invoked account.
func (f *Fixture) Callee() (Account, bool) {
	for _, account := range f.Pre {
		if account.Address == f.Exec.Address {
			return account, true
		}
	}
	return Account{}, false
}
