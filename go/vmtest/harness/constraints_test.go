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
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestConstraintSet_EqualityPinsSymbolToSingleValue(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(256, "x")
	constraints.Add(x.Eq(Word("0x2a")))

	got, err := constraints.Value(x)
	if err != nil {
		t.Fatalf("failed to resolve value: %v", err)
	}
	if want := uint256.NewInt(42); !want.Eq(got) {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
}

func TestConstraintSet_UnconstrainedSymbolIsNotUnique(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(256, "x")
	if _, err := constraints.Value(x); !errors.Is(err, ErrNotUnique) {
		t.Errorf("unexpected error, want %v, got %v", ErrNotUnique, err)
	}
}

func TestConstraintSet_BoundariesNarrowTheDomain(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(8, "x")
	constraints.Add(x.Ge(Word("0xfd")))

	values, err := constraints.Values(x, 10)
	if err != nil {
		t.Fatalf("failed to list values: %v", err)
	}
	if want, got := 3, len(values); want != got {
		t.Fatalf("unexpected number of values, want %d, got %d", want, got)
	}
	for i, value := range values {
		if want := uint256.NewInt(uint64(0xfd + i)); !want.Eq(value) {
			t.Errorf("unexpected value at %d, want %v, got %v", i, want, value)
		}
	}

	constraints.Add(Word("0xfe").Ge(x))
	values, err = constraints.Values(x, 10)
	if err != nil {
		t.Fatalf("failed to list values: %v", err)
	}
	if want, got := 2, len(values); want != got {
		t.Errorf("unexpected number of values, want %d, got %d", want, got)
	}
}

func TestConstraintSet_ValuesAreLimited(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(256, "x")
	values, err := constraints.Values(x, 5)
	if err != nil {
		t.Fatalf("failed to list values: %v", err)
	}
	if want, got := 5, len(values); want != got {
		t.Errorf("unexpected number of values, want %d, got %d", want, got)
	}
}

func TestConstraintSet_ContradictionsAreSticky(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(256, "x")
	y := constraints.NewBitVec(256, "y")
	constraints.Add(x.Eq(Word("0x1")))
	constraints.Add(x.Eq(Word("0x2")))
	constraints.Add(y.Eq(Word("0x3")))

	if err := constraints.Err(); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnsatisfiable, err)
	}
	if _, err := constraints.Value(y); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnsatisfiable, err)
	}
}

func TestConstraintSet_ConstantRelationsAreEvaluated(t *testing.T) {
	tests := map[string]struct {
		constraint Constraint
		holds      bool
	}{
		"equal":       {Word("0x1").Eq(Word("0x1")), true},
		"not equal":   {Word("0x1").Eq(Word("0x2")), false},
		"less":        {Word("0x1").Le(Word("0x2")), true},
		"not greater": {Word("0x1").Ge(Word("0x2")), false},
		"bytes":       {Bytes("0x0102").Eq(Bytes("0x0102")), true},
		"other bytes": {Bytes("0x0102").Eq(Bytes("0x01")), false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			constraints := NewConstraintSet()
			constraints.Add(test.constraint)
			if want, got := test.holds, constraints.Err() == nil; want != got {
				t.Errorf("unexpected evaluation of %v, want %t, got %t", test.constraint, want, got)
			}
		})
	}
}

func TestConstraintSet_RelationsBetweenSymbolsAreUnsupported(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(256, "x")
	y := constraints.NewBitVec(256, "y")
	constraints.Add(x.Eq(y))
	if err := constraints.Err(); !errors.Is(err, ErrUnsupportedConstraint) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnsupportedConstraint, err)
	}
}

func TestConstraintSet_SymbolsOfOtherSetsAreUnknown(t *testing.T) {
	x := NewConstraintSet().NewBitVec(256, "x")
	constraints := NewConstraintSet()
	constraints.Add(x.Eq(Word("0x1")))
	if err := constraints.Err(); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnknownSymbol, err)
	}
}

func TestConstraintSet_DuplicateNamesAreMadeUnique(t *testing.T) {
	constraints := NewConstraintSet()
	names := []string{
		constraints.NewBitVec(256, "value").Name(),
		constraints.NewBitVec(256, "value").Name(),
		constraints.NewArray(4, "value").Name(),
	}
	want := []string{"value", "value_1", "value_2"}
	for i := range want {
		if want[i] != names[i] {
			t.Errorf("unexpected name, want %v, got %v", want[i], names[i])
		}
	}
}

func TestConstraintSet_ArraysResolveToPinnedContent(t *testing.T) {
	constraints := NewConstraintSet()
	data := constraints.NewArray(2, "data")
	if _, err := constraints.Bytes(data); !errors.Is(err, ErrNotUnique) {
		t.Errorf("unexpected error, want %v, got %v", ErrNotUnique, err)
	}

	constraints.Add(data.Eq(Bytes("0xabcd")))
	got, err := constraints.Bytes(data)
	if err != nil {
		t.Fatalf("failed to resolve array: %v", err)
	}
	if want := "0xabcd"; want != Data(got).String() {
		t.Errorf("unexpected content, want %v, got %x", want, got)
	}
}

func TestConstraintSet_EmptyArraysNeedNoConstraint(t *testing.T) {
	constraints := NewConstraintSet()
	data := constraints.NewArray(0, "data")
	got, err := constraints.Bytes(data)
	if err != nil {
		t.Fatalf("failed to resolve array: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected content: %x", got)
	}
}

func TestConstraintSet_ArrayLengthMismatchIsUnsatisfiable(t *testing.T) {
	constraints := NewConstraintSet()
	data := constraints.NewArray(2, "data")
	constraints.Add(data.Eq(Bytes("0x01")))
	if err := constraints.Err(); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnsatisfiable, err)
	}
}

func TestConstraintSet_NarrowWidthLimitsDomain(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(160, "coinbase")
	constraints.Add(x.Ge(Word("0x10000000000000000000000000000000000000000")))
	if err := constraints.Err(); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnsatisfiable, err)
	}
}

func TestConstraintSet_StringListsDomains(t *testing.T) {
	constraints := NewConstraintSet()
	x := constraints.NewBitVec(8, "x")
	constraints.Add(x.Eq(Word("0x5")))
	constraints.NewBitVec(8, "y")
	constraints.NewArray(3, "data")

	if want, got := "{x=0x5, 0x0≤y≤0xff, data[3]}", constraints.String(); want != got {
		t.Errorf("unexpected print, want %v, got %v", want, got)
	}
}
