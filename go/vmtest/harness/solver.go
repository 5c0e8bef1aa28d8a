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
	"testing"

	"github.com/holiman/uint256"
)

// Solver reduces possibly symbolic values to their concrete witness for
// assertions. Resolution failures fail the test.
type Solver interface {
	Word(BitVec) *uint256.Int
	Bytes(ByteArray) []byte
}

// Identity returns the solver of concrete tests, which only accepts
// constants.
func Identity(t testing.TB) Solver {
	return identity{t}
}

// Solve returns a solver resolving values through the given constraints. A
// value the constraints do not pin to a single witness fails the test.
func Solve(t testing.TB, constraints *ConstraintSet) Solver {
	return &solver{t: t, constraints: constraints}
}

type identity struct {
	t testing.TB
}

func (s identity) Word(v BitVec) *uint256.Int {
	if v.Symbolic() {
		s.t.Helper()
		s.t.Fatalf("unexpected symbolic value %v in concrete test", v)
	}
	return v.value.Clone()
}

func (s identity) Bytes(a ByteArray) []byte {
	if a.Symbolic() {
		s.t.Helper()
		s.t.Fatalf("unexpected symbolic array %v in concrete test", a)
	}
	return append([]byte{}, a.data...)
}

type solver struct {
	t           testing.TB
	constraints *ConstraintSet
}

func (s *solver) Word(v BitVec) *uint256.Int {
	res, err := s.constraints.Value(v)
	if err != nil {
		s.t.Helper()
		s.t.Fatalf("failed to resolve %v: %v", v, err)
	}
	return res
}

func (s *solver) Bytes(a ByteArray) []byte {
	res, err := s.constraints.Bytes(a)
	if err != nil {
		s.t.Helper()
		s.t.Fatalf("failed to resolve %v: %v", a, err)
	}
	return res
}
