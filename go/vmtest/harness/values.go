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
	"fmt"
	"strings"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// BitVec is a fixed-width unsigned integer that is either a constant or a
// named symbol whose value is determined by the constraints of a
// ConstraintSet.
type BitVec struct {
	bits  int
	name  string // < empty for constants
	value uint256.Int
}

// Word parses a 0x-prefixed hex literal into a constant 256-bit vector.
// It panics on malformed input; literals are produced by the generator.
func Word(hex string) BitVec {
	return BitVec{bits: 256, value: *mustParseHex(hex, 256)}
}

// Const wraps the given value into a constant 256-bit vector.
func Const(value *uint256.Int) BitVec {
	return BitVec{bits: 256, value: *value}
}

// Address parses a 0x-prefixed hex literal into an account address. Leading
// zero digits are accepted, as in the fixed-width form of Address.String.
func Address(hex string) tosca.Address {
	return tosca.Address(mustParseHex(hex, 160).Bytes20())
}

// mustParseHex decodes a 0x-prefixed hex number of at most the given bit
// width. Unlike uint256.FromHex it tolerates leading zeros and odd digit
// counts.
func mustParseHex(hex string, bits int) *uint256.Int {
	digits, found := strings.CutPrefix(hex, "0x")
	if !found {
		panic(fmt.Sprintf("missing 0x prefix: %q", hex))
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	data := hexutil.MustDecode("0x" + digits)
	data = bytes.TrimLeft(data, "\x00")
	if len(data) > 32 {
		panic(fmt.Sprintf("value out of range: %s", hex))
	}
	value := new(uint256.Int).SetBytes(data)
	if value.BitLen() > bits {
		panic(fmt.Sprintf("value out of range: %s", hex))
	}
	return value
}

func (v BitVec) Bits() int {
	return v.bits
}

// Symbolic reports whether the vector is a named symbol.
func (v BitVec) Symbolic() bool {
	return v.name != ""
}

func (v BitVec) Name() string {
	return v.name
}

func (v BitVec) String() string {
	if v.Symbolic() {
		return fmt.Sprintf("%s:%d", v.name, v.bits)
	}
	return v.value.Hex()
}

// Eq produces the constraint v == other.
func (v BitVec) Eq(other BitVec) Constraint {
	return newConstraint(v, opEq, other)
}

// Le produces the constraint v <= other.
func (v BitVec) Le(other BitVec) Constraint {
	return newConstraint(v, opLe, other)
}

// Ge produces the constraint v >= other.
func (v BitVec) Ge(other BitVec) Constraint {
	return newConstraint(v, opGe, other)
}

// ByteArray is a byte string of fixed length that is either constant or a
// named symbolic array.
type ByteArray struct {
	name string
	data []byte
	size int
}

// Bytes parses a 0x-prefixed hex literal into a constant byte array.
func Bytes(hex string) ByteArray {
	data := hexutil.MustDecode(hex)
	return ByteArray{data: data, size: len(data)}
}

// Data wraps the given bytes into a constant byte array.
func Data(data []byte) ByteArray {
	return ByteArray{data: bytes.Clone(data), size: len(data)}
}

func (a ByteArray) Len() int {
	return a.size
}

func (a ByteArray) Symbolic() bool {
	return a.name != ""
}

func (a ByteArray) Name() string {
	return a.name
}

func (a ByteArray) String() string {
	if a.Symbolic() {
		return fmt.Sprintf("%s[%d]", a.name, a.size)
	}
	return hexutil.Encode(a.data)
}

// Eq produces the constraint a == other, where other must be constant.
func (a ByteArray) Eq(other ByteArray) Constraint {
	switch {
	case !a.Symbolic() && !other.Symbolic():
		return Constraint{trivial: true, holds: bytes.Equal(a.data, other.data)}
	case a.Symbolic() && !other.Symbolic():
		return Constraint{array: a.name, op: opEq, data: bytes.Clone(other.data)}
	case !a.Symbolic() && other.Symbolic():
		return other.Eq(a)
	}
	return Constraint{err: fmt.Errorf("%w: %v == %v", ErrUnsupportedConstraint, a, other)}
}

type relation int

const (
	opEq relation = iota
	opLe
	opGe
)

func (r relation) String() string {
	switch r {
	case opEq:
		return "=="
	case opLe:
		return "<="
	case opGe:
		return ">="
	}
	return fmt.Sprintf("relation(%d)", int(r))
}

// Constraint is a relation between a single symbol and a constant. Relations
// between two constants are evaluated eagerly.
type Constraint struct {
	symbol  string
	array   string
	op      relation
	bound   uint256.Int
	data    []byte
	trivial bool
	holds   bool
	err     error
}

func newConstraint(left BitVec, op relation, right BitVec) Constraint {
	switch {
	case !left.Symbolic() && !right.Symbolic():
		return Constraint{trivial: true, holds: evaluate(&left.value, op, &right.value)}
	case left.Symbolic() && !right.Symbolic():
		return Constraint{symbol: left.name, op: op, bound: right.value}
	case !left.Symbolic() && right.Symbolic():
		return newConstraint(right, op.flip(), left)
	}
	return Constraint{err: fmt.Errorf("%w: %v %v %v", ErrUnsupportedConstraint, left, op, right)}
}

func (r relation) flip() relation {
	switch r {
	case opLe:
		return opGe
	case opGe:
		return opLe
	}
	return r
}

func evaluate(a *uint256.Int, op relation, b *uint256.Int) bool {
	switch op {
	case opLe:
		return !a.Gt(b)
	case opGe:
		return !a.Lt(b)
	}
	return a.Eq(b)
}

func (c Constraint) String() string {
	switch {
	case c.err != nil:
		return fmt.Sprintf("invalid(%v)", c.err)
	case c.trivial:
		return fmt.Sprintf("%t", c.holds)
	case c.array != "":
		return fmt.Sprintf("%s == %s", c.array, hexutil.Encode(c.data))
	}
	return fmt.Sprintf("%s %v %s", c.symbol, c.op, c.bound.Hex())
}
