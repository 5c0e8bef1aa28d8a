// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package minivm is a Frontier interpreter covering the instructions of the
// arithmetic fixtures shipped with this module. It is registered as "minivm"
// and lets generated tests run without an external interpreter.
package minivm

import (
	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/holiman/uint256"
)

// Name is the registry name of the interpreter.
const Name = "minivm"

func init() {
	tosca.MustRegisterInterpreterFactory(Name, func(any) (tosca.Interpreter, error) {
		return interpreter{}, nil
	})
}

const (
	errInvalidOpCode   = tosca.ConstError("invalid opcode")
	errOutOfGas        = tosca.ConstError("out of gas")
	errStackOverflow   = tosca.ConstError("stack overflow")
	errStackUnderflow  = tosca.ConstError("stack underflow")
	errWriteProtection = tosca.ConstError("write protection")
)

const (
	opStop   = 0x00
	opAdd    = 0x01
	opPop    = 0x50
	opSstore = 0x55
	opPush1  = 0x60
	opPush32 = 0x7f
)

const (
	gasVeryLow    tosca.Gas = 3
	gasBase       tosca.Gas = 2
	gasSstoreSet  tosca.Gas = 20000
	gasSstoreSet0 tosca.Gas = 5000
	refundSclear  tosca.Gas = 15000
)

const maxStackSize = 1024

type interpreter struct{}

func (interpreter) Run(params tosca.Parameters) (tosca.Result, error) {
	if params.Revision != tosca.R00_Frontier {
		return tosca.Result{}, &tosca.ErrUnsupportedRevision{Revision: params.Revision}
	}
	c := context{params: params, gas: params.Gas}
	if err := c.run(); err != nil {
		// All failures consume the full gas and drop any refund.
		return tosca.Result{}, nil
	}
	return tosca.Result{
		Success:   true,
		GasLeft:   c.gas,
		GasRefund: c.refund,
	}, nil
}

type context struct {
	params tosca.Parameters
	pc     int
	gas    tosca.Gas
	refund tosca.Gas
	stack  []uint256.Int
}

func (c *context) run() error {
	code := c.params.Code
	for c.pc < len(code) {
		op := code[c.pc]
		c.pc++
		var err error
		switch {
		case op == opStop:
			return nil
		case op == opAdd:
			err = c.add()
		case op == opPop:
			err = c.pop()
		case op == opSstore:
			err = c.sstore()
		case op >= opPush1 && op <= opPush32:
			err = c.push(int(op-opPush1) + 1)
		default:
			err = errInvalidOpCode
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *context) useGas(amount tosca.Gas) error {
	if c.gas < amount {
		c.gas = 0
		return errOutOfGas
	}
	c.gas -= amount
	return nil
}

func (c *context) require(pops, pushes int) error {
	if len(c.stack) < pops {
		return errStackUnderflow
	}
	if len(c.stack)-pops+pushes > maxStackSize {
		return errStackOverflow
	}
	return nil
}

func (c *context) popWord() uint256.Int {
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return top
}

func (c *context) push(n int) error {
	if err := c.require(0, 1); err != nil {
		return err
	}
	if err := c.useGas(gasVeryLow); err != nil {
		return err
	}
	// Code ending within the immediate reads as zero-padded.
	var data [32]byte
	end := min(c.pc+n, len(c.params.Code))
	copy(data[32-n:], c.params.Code[c.pc:end])
	c.pc += n
	var value uint256.Int
	value.SetBytes32(data[:])
	c.stack = append(c.stack, value)
	return nil
}

func (c *context) add() error {
	if err := c.require(2, 1); err != nil {
		return err
	}
	if err := c.useGas(gasVeryLow); err != nil {
		return err
	}
	a := c.popWord()
	b := c.popWord()
	c.stack = append(c.stack, *new(uint256.Int).Add(&a, &b))
	return nil
}

func (c *context) pop() error {
	if err := c.require(1, 0); err != nil {
		return err
	}
	if err := c.useGas(gasBase); err != nil {
		return err
	}
	c.popWord()
	return nil
}

func (c *context) sstore() error {
	if c.params.Static {
		return errWriteProtection
	}
	if err := c.require(2, 0); err != nil {
		return err
	}
	key := c.popWord()
	value := c.popWord()
	recipient := c.params.Recipient
	current := c.params.Context.GetStorage(recipient, tosca.Key(key.Bytes32()))

	cost := gasSstoreSet0
	if current == (tosca.Word{}) && !value.IsZero() {
		cost = gasSstoreSet
	}
	if err := c.useGas(cost); err != nil {
		return err
	}
	if current != (tosca.Word{}) && value.IsZero() {
		c.refund += refundSclear
	}
	c.params.Context.SetStorage(recipient, tosca.Key(key.Bytes32()), tosca.Word(value.Bytes32()))
	return nil
}
