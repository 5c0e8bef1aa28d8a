// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package harness

import (
	"bytes"
	"math/big"
	"slices"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var _ tosca.RunContext = runContext{}

// runContext implements the tosca.RunContext interface on top of a World,
// resolving symbolic values whenever the interpreter reads them.
type runContext struct {
	world *World
}

func (c runContext) AccountExists(addr tosca.Address) bool {
	_, found := c.world.accounts[addr]
	return found
}

func (c runContext) GetBalance(addr tosca.Address) tosca.Value {
	return tosca.ValueFromUint256(c.world.resolve(c.world.GetBalance(addr)))
}

func (c runContext) SetBalance(addr tosca.Address, value tosca.Value) {
	modified := c.account(addr)
	modified.balance = Const(value.ToUint256())
	c.world.setAccount(addr, modified)
}

func (c runContext) GetNonce(addr tosca.Address) uint64 {
	nonce := c.world.resolve(c.world.GetNonce(addr))
	if !nonce.IsUint64() {
		c.world.fail(errNonceOverflow{addr})
		return 0
	}
	return nonce.Uint64()
}

func (c runContext) SetNonce(addr tosca.Address, value uint64) {
	modified := c.account(addr)
	modified.nonce = Const(uint256.NewInt(value))
	c.world.setAccount(addr, modified)
}

func (c runContext) GetCode(addr tosca.Address) tosca.Code {
	return tosca.Code(bytes.Clone(c.world.accounts[addr].code))
}

func (c runContext) GetCodeHash(addr tosca.Address) tosca.Hash {
	if !c.AccountExists(addr) {
		return tosca.Hash{}
	}
	return hashCode(c.world.accounts[addr].code)
}

func (c runContext) GetCodeSize(addr tosca.Address) int {
	return len(c.world.accounts[addr].code)
}

func (c runContext) SetCode(addr tosca.Address, code tosca.Code) {
	modified := c.account(addr)
	modified.code = tosca.Code(bytes.Clone(code))
	c.world.setAccount(addr, modified)
}

func (c runContext) GetStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return tosca.Word(c.world.resolve(c.world.storageValue(addr, key)).Bytes32())
}

func (c runContext) SetStorage(addr tosca.Address, key tosca.Key, new tosca.Word) tosca.StorageStatus {
	original := c.GetCommittedStorage(addr, key)
	current := c.GetStorage(addr, key)
	c.world.setStorage(addr, key, Const(new256(new)))
	return tosca.GetStorageStatus(original, current, new)
}

func (c runContext) SelfDestruct(addr tosca.Address, beneficiary tosca.Address) bool {
	balance := c.GetBalance(addr)
	c.SetBalance(beneficiary, tosca.Add(c.GetBalance(beneficiary), balance))
	c.SetBalance(addr, tosca.Value{})
	if c.world.destructed[addr] {
		return false
	}
	c.world.destructed[addr] = true
	c.world.undo = append(c.world.undo, func() { delete(c.world.destructed, addr) })
	return true
}

func (c runContext) HasSelfDestructed(addr tosca.Address) bool {
	return c.world.destructed[addr]
}

func (c runContext) CreateSnapshot() tosca.Snapshot {
	return tosca.Snapshot(len(c.world.undo))
}

func (c runContext) RestoreSnapshot(snapshot tosca.Snapshot) {
	c.world.restore(snapshot)
}

func (c runContext) GetTransientStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.world.transient[slot{addr, key}]
}

func (c runContext) SetTransientStorage(addr tosca.Address, key tosca.Key, value tosca.Word) {
	s := slot{addr, key}
	original, existed := c.world.transient[s]
	c.world.transient[s] = value
	c.world.undo = append(c.world.undo, func() {
		if existed {
			c.world.transient[s] = original
		} else {
			delete(c.world.transient, s)
		}
	})
}

func (c runContext) AccessAccount(addr tosca.Address) tosca.AccessStatus {
	if _, found := c.world.accessed[addr]; found {
		return tosca.WarmAccess
	}
	c.world.accessed[addr] = map[tosca.Key]bool{}
	c.world.undo = append(c.world.undo, func() { delete(c.world.accessed, addr) })
	return tosca.ColdAccess
}

func (c runContext) AccessStorage(addr tosca.Address, key tosca.Key) tosca.AccessStatus {
	keys, found := c.world.accessed[addr]
	if found && keys[key] {
		return tosca.WarmAccess
	}
	if !found {
		c.AccessAccount(addr)
		keys = c.world.accessed[addr]
	}
	keys[key] = true
	c.world.undo = append(c.world.undo, func() { delete(keys, key) })
	return tosca.ColdAccess
}

func (c runContext) IsAddressInAccessList(addr tosca.Address) bool {
	_, found := c.world.accessed[addr]
	return found
}

func (c runContext) IsSlotInAccessList(addr tosca.Address, key tosca.Key) (addressPresent, slotPresent bool) {
	keys, found := c.world.accessed[addr]
	return found, keys[key]
}

func (c runContext) EmitLog(log tosca.Log) {
	size := len(c.world.logs)
	c.world.logs = append(c.world.logs, tosca.Log{
		Address: log.Address,
		Topics:  slices.Clone(log.Topics),
		Data:    bytes.Clone(log.Data),
	})
	c.world.undo = append(c.world.undo, func() { c.world.logs = c.world.logs[:size] })
}

func (c runContext) GetLogs() []tosca.Log {
	return c.world.Logs()
}

// GetBlockHash follows the convention of VM tests, defining the hash of a
// block as the Keccak-256 hash of its decimal number.
func (c runContext) GetBlockHash(number int64) tosca.Hash {
	return tosca.Hash(crypto.Keccak256([]byte(big.NewInt(number).String())))
}

func (c runContext) GetCommittedStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	value, found := c.world.committed[addr][key]
	if !found {
		return tosca.Word{}
	}
	return tosca.Word(c.world.resolve(value).Bytes32())
}

// Call records the attempt of a nested invocation and fails it.
func (c runContext) Call(kind tosca.CallKind, parameters tosca.CallParameters) (tosca.CallResult, error) {
	if c.world.nested == nil {
		c.world.nested = &NestedCallAttempted{Kind: kind, Recipient: parameters.Recipient}
	}
	return tosca.CallResult{GasLeft: parameters.Gas}, nil
}

func (c runContext) account(addr tosca.Address) account {
	if account, found := c.world.accounts[addr]; found {
		return account
	}
	return newEmptyAccount()
}

func new256(word tosca.Word) *uint256.Int {
	return new(uint256.Int).SetBytes32(word[:])
}

type errNonceOverflow struct {
	address tosca.Address
}

func (e errNonceOverflow) Error() string {
	return "nonce of " + e.address.String() + " exceeds 64 bits"
}
