// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gen

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Mode selects how fixture inputs are represented in generated tests.
type Mode int

const (
	// Concrete tests bind inputs to literal values.
	Concrete Mode = iota
	// Symbolic tests bind inputs to named symbols pinned to the literal
	// values by equality constraints.
	Symbolic
)

func (m Mode) String() string {
	switch m {
	case Concrete:
		return "concrete"
	case Symbolic:
		return "symbolic"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// formatter renders the binding of a fixture value to a local variable. It is
// the only part of the generator depending on the mode.
type formatter interface {
	// solver is the expression producing the solve function of a test.
	solver() string
	// word binds name to an unsigned integer of the given bit width.
	word(w *writer, name string, value *uint256.Int, bits int, symbol string)
	// data binds name to a byte string.
	data(w *writer, name string, value []byte, symbol string)
}

func newFormatter(mode Mode) (formatter, error) {
	switch mode {
	case Concrete:
		return concreteFormatter{}, nil
	case Symbolic:
		return symbolicFormatter{}, nil
	}
	return nil, fmt.Errorf("unsupported mode: %v", mode)
}

type concreteFormatter struct{}

func (concreteFormatter) solver() string {
	return "harness.Identity(t)"
}

func (concreteFormatter) word(w *writer, name string, value *uint256.Int, _ int, _ string) {
	w.line("%s := harness.Word(%q)", name, value.Hex())
}

func (concreteFormatter) data(w *writer, name string, value []byte, _ string) {
	w.line("%s := harness.Bytes(%q)", name, hexutil.Encode(value))
}

type symbolicFormatter struct{}

func (symbolicFormatter) solver() string {
	return "harness.Solve(t, constraints)"
}

func (symbolicFormatter) word(w *writer, name string, value *uint256.Int, bits int, symbol string) {
	w.line("%s := constraints.NewBitVec(%d, %q)", name, bits, symbol)
	w.line("constraints.Add(%s.Eq(harness.Word(%q)))", name, value.Hex())
}

func (symbolicFormatter) data(w *writer, name string, value []byte, symbol string) {
	w.line("%s := constraints.NewArray(%d, %q)", name, len(value), symbol)
	if len(value) > 0 {
		w.line("constraints.Add(%s.Eq(harness.Bytes(%q)))", name, hexutil.Encode(value))
	}
}
