// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package harness is the runtime support library of generated VM tests. It
// models the world state a single VM test operates on, drives the configured
// interpreter through the tested invocation, and resolves symbolic values
// through a ConstraintSet when assertions need concrete witnesses.
package harness

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// BlockContext lists the block properties visible to the tested code.
type BlockContext struct {
	Number     BitVec
	Timestamp  BitVec
	Difficulty BitVec
	Coinbase   BitVec
	GasLimit   BitVec
}

// World is the state a single VM test operates on. Values put into the world
// may be symbolic; they are resolved through the test's constraints whenever
// the interpreter reads them.
type World struct {
	t           testing.TB
	config      Config
	constraints *ConstraintSet
	block       BlockContext

	accounts   map[tosca.Address]account
	committed  map[tosca.Address]storage
	transient  map[slot]tosca.Word
	destructed map[tosca.Address]bool
	accessed   map[tosca.Address]map[tosca.Key]bool
	logs       []tosca.Log
	undo       []func()

	tx     *transaction
	signal Signal
	gas    tosca.Gas
	nested *NestedCallAttempted
	err    error // < first failure while serving the interpreter
}

type account struct {
	balance BitVec
	nonce   BitVec
	code    tosca.Code
	storage storage
}

type storage map[tosca.Key]BitVec

type slot struct {
	address tosca.Address
	key     tosca.Key
}

type transaction struct {
	kind    tosca.CallKind
	address tosca.Address
	caller  tosca.Address
	price   BitVec
	value   BitVec
	gas     BitVec
	data    ByteArray
}

// NewWorld creates an empty world for the given block. Values are resolved
// through the given constraints.
func NewWorld(t testing.TB, config Config, constraints *ConstraintSet, block BlockContext) *World {
	return &World{
		t:           t,
		config:      config,
		constraints: constraints,
		block:       block,
		accounts:    map[tosca.Address]account{},
		committed:   map[tosca.Address]storage{},
		transient:   map[slot]tosca.Word{},
		destructed:  map[tosca.Address]bool{},
		accessed:    map[tosca.Address]map[tosca.Key]bool{},
	}
}

// CreateAccount creates or overwrites the account at the given address. The
// storage of an overwritten account is cleared.
func (w *World) CreateAccount(address tosca.Address, balance BitVec, code []byte, nonce BitVec) {
	w.setAccount(address, account{
		balance: balance,
		nonce:   nonce,
		code:    tosca.Code(bytes.Clone(code)),
		storage: storage{},
	})
}

// SetStorage sets a storage slot of an existing account. The key must be
// resolvable to a single value.
func (w *World) SetStorage(address tosca.Address, key, value BitVec) {
	w.t.Helper()
	if _, found := w.accounts[address]; !found {
		w.t.Fatalf("cannot set storage of missing account %v", address)
	}
	w.setStorage(address, tosca.Key(w.mustResolve(key).Bytes32()), value)
}

// OpenTransaction prepares the invocation of the code at the given address.
// No value is transferred and no nonce is updated; the invocation is started
// by the first call to Step.
func (w *World) OpenTransaction(
	kind tosca.CallKind,
	address tosca.Address,
	price BitVec,
	data ByteArray,
	caller tosca.Address,
	value BitVec,
	gas BitVec,
) {
	w.t.Helper()
	if kind != tosca.Call {
		w.t.Fatalf("unsupported transaction kind: %v", kind)
	}
	if w.tx != nil {
		w.t.Fatalf("a transaction is already open")
	}
	w.tx = &transaction{
		kind:    kind,
		address: address,
		caller:  caller,
		price:   price,
		value:   value,
		gas:     gas,
		data:    data,
	}
}

// Step advances the open invocation until it produces a signal. Once the
// invocation has terminated, the terminal signal is returned on every call.
func (w *World) Step() Signal {
	w.t.Helper()
	if w.signal != nil {
		return w.signal
	}
	if w.tx == nil {
		w.t.Fatalf("no open transaction")
	}

	params := w.parameters()
	w.committed = make(map[tosca.Address]storage, len(w.accounts))
	for address, account := range w.accounts {
		w.committed[address] = maps.Clone(account.storage)
	}

	snapshot := tosca.Snapshot(len(w.undo))
	result, err := w.config.Interpreter.Run(params)
	if err != nil {
		var unsupported *tosca.ErrUnsupportedRevision
		if errors.As(err, &unsupported) {
			w.t.Skipf("interpreter %s does not support revision %v", w.config.Name, unsupported.Revision)
		}
		w.t.Fatalf("interpreter %s failed: %v", w.config.Name, err)
	}
	if w.err != nil {
		w.t.Fatalf("failed to serve interpreter: %v", w.err)
	}

	switch {
	case w.nested != nil:
		w.signal = *w.nested
	case result.Success:
		w.gas = result.GasLeft
		w.signal = Returned{Data: Data(result.Output)}
	case isRevert(result):
		w.restore(snapshot)
		w.gas = result.GasLeft
		w.signal = Reverted{Data: Data(result.Output)}
	default:
		w.restore(snapshot)
		w.gas = 0
		w.signal = Threw{}
	}
	return w.signal
}

func isRevert(result tosca.Result) bool {
	return !result.Success && (result.GasLeft > 0 || len(result.Output) > 0)
}

func (w *World) parameters() tosca.Parameters {
	w.t.Helper()
	tx := w.tx
	code := w.accounts[tx.address].code
	codeHash := hashCode(code)
	data, err := w.constraints.Bytes(tx.data)
	if err != nil {
		w.t.Fatalf("failed to resolve call data: %v", err)
	}
	return tosca.Parameters{
		BlockParameters: tosca.BlockParameters{
			BlockNumber: w.mustResolveInt64(w.block.Number),
			Timestamp:   w.mustResolveInt64(w.block.Timestamp),
			Coinbase:    w.mustResolveAddress(w.block.Coinbase),
			GasLimit:    tosca.Gas(w.mustResolveInt64(w.block.GasLimit)),
			PrevRandao:  tosca.Hash(w.mustResolve(w.block.Difficulty).Bytes32()),
			Revision:    w.config.Revision,
		},
		TransactionParameters: tosca.TransactionParameters{
			Origin:   tx.caller,
			GasPrice: tosca.ValueFromUint256(w.mustResolve(tx.price)),
		},
		Context:   runContext{w},
		Kind:      tx.kind,
		Gas:       tosca.Gas(w.mustResolveInt64(tx.gas)),
		Recipient: tx.address,
		Sender:    tx.caller,
		Input:     data,
		Value:     tosca.ValueFromUint256(w.mustResolve(tx.value)),
		CodeHash:  &codeHash,
		Code:      code,
	}
}

func (w *World) BlockNumber() BitVec { return w.block.Number }
func (w *World) Timestamp() BitVec   { return w.block.Timestamp }
func (w *World) Difficulty() BitVec  { return w.block.Difficulty }
func (w *World) Coinbase() BitVec    { return w.block.Coinbase }
func (w *World) GasLimit() BitVec    { return w.block.GasLimit }

// GetNonce returns the nonce of the given account, zero if it does not exist.
func (w *World) GetNonce(address tosca.Address) BitVec {
	if account, found := w.accounts[address]; found {
		return account.nonce
	}
	return Const(new(uint256.Int))
}

// GetBalance returns the balance of the given account, zero if it does not
// exist.
func (w *World) GetBalance(address tosca.Address) BitVec {
	if account, found := w.accounts[address]; found {
		return account.balance
	}
	return Const(new(uint256.Int))
}

func (w *World) GetCode(address tosca.Address) []byte {
	return bytes.Clone(w.accounts[address].code)
}

// GetStorage returns the value stored under the given key. The key must be
// resolvable to a single value.
func (w *World) GetStorage(address tosca.Address, key BitVec) BitVec {
	w.t.Helper()
	return w.storageValue(address, tosca.Key(w.mustResolve(key).Bytes32()))
}

// Logs returns the logs emitted by the terminated invocation.
func (w *World) Logs() []tosca.Log {
	return slices.Clone(w.logs)
}

// Gas returns the gas left by the terminated invocation.
func (w *World) Gas() BitVec {
	return Const(uint256.NewInt(uint64(w.gas)))
}

func (w *World) storageValue(address tosca.Address, key tosca.Key) BitVec {
	if value, found := w.accounts[address].storage[key]; found {
		return value
	}
	return Const(new(uint256.Int))
}

func (w *World) setAccount(address tosca.Address, modified account) {
	original, existed := w.accounts[address]
	w.accounts[address] = modified
	w.undo = append(w.undo, func() {
		if existed {
			w.accounts[address] = original
		} else {
			delete(w.accounts, address)
		}
	})
}

func (w *World) setStorage(address tosca.Address, key tosca.Key, value BitVec) {
	account, found := w.accounts[address]
	if !found {
		account = newEmptyAccount()
		w.setAccount(address, account)
	}
	original, existed := account.storage[key]
	account.storage[key] = value
	w.undo = append(w.undo, func() {
		if existed {
			account.storage[key] = original
		} else {
			delete(account.storage, key)
		}
	})
}

func (w *World) restore(snapshot tosca.Snapshot) {
	for len(w.undo) > int(snapshot) {
		w.undo[len(w.undo)-1]()
		w.undo = w.undo[:len(w.undo)-1]
	}
}

func newEmptyAccount() account {
	zero := Const(new(uint256.Int))
	return account{balance: zero, nonce: zero, storage: storage{}}
}

func (w *World) mustResolve(v BitVec) *uint256.Int {
	w.t.Helper()
	res, err := w.constraints.Value(v)
	if err != nil {
		w.t.Fatalf("failed to resolve %v: %v", v, err)
	}
	return res
}

func (w *World) mustResolveInt64(v BitVec) int64 {
	w.t.Helper()
	res := w.mustResolve(v)
	if !res.IsUint64() || res.Uint64() > math.MaxInt64 {
		w.t.Fatalf("value of %v out of range: %v", v, res)
	}
	return int64(res.Uint64())
}

func (w *World) mustResolveAddress(v BitVec) tosca.Address {
	w.t.Helper()
	res := w.mustResolve(v)
	if res.BitLen() > 160 {
		w.t.Fatalf("value of %v is not an address: %v", v, res)
	}
	return tosca.Address(res.Bytes20())
}

// resolve is used while serving the interpreter, where failing the test is
// deferred until the interpreter returned.
func (w *World) resolve(v BitVec) *uint256.Int {
	res, err := w.constraints.Value(v)
	if err != nil {
		w.fail(fmt.Errorf("failed to resolve %v: %w", v, err))
		return new(uint256.Int)
	}
	return res
}

func (w *World) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func hashCode(code tosca.Code) tosca.Hash {
	return tosca.Hash(crypto.Keccak256(code))
}
