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
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"pgregory.net/rand"
)

func TestRangeDomain_InitialRangeCoversBitWidth(t *testing.T) {
	tests := map[int]string{
		8:   "0x0≤X≤0xff",
		160: "0x0≤X≤0xffffffffffffffffffffffffffffffffffffffff",
		256: "0x0≤X≤0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}
	for bits, want := range tests {
		t.Run(fmt.Sprint(bits), func(t *testing.T) {
			if got := newRangeDomain(bits).print("X"); want != got {
				t.Errorf("unexpected range, wanted %s, got %s", want, got)
			}
		})
	}
}

func TestRangeDomain_RangesCanBeIncrementallyConstrained(t *testing.T) {
	domain := newRangeDomain(8)

	domain.add(opGe, uint256.NewInt(5))
	if want, got := "0x5≤X≤0xff", domain.print("X"); want != got {
		t.Errorf("unexpected range restriction, wanted %s, got %s", want, got)
	}
	domain.add(opLe, uint256.NewInt(64))
	if want, got := "0x5≤X≤0x40", domain.print("X"); want != got {
		t.Errorf("unexpected range restriction, wanted %s, got %s", want, got)
	}

	// weaker boundaries are ignored
	domain.add(opGe, uint256.NewInt(2))
	domain.add(opLe, uint256.NewInt(100))
	if want, got := "0x5≤X≤0x40", domain.print("X"); want != got {
		t.Errorf("unexpected range restriction, wanted %s, got %s", want, got)
	}

	// equality collapses the range
	domain.add(opEq, uint256.NewInt(12))
	if want, got := "X=0xc", domain.print("X"); want != got {
		t.Errorf("unexpected range restriction, wanted %s, got %s", want, got)
	}

	domain.add(opEq, uint256.NewInt(13))
	if domain.isSatisfiable() {
		t.Errorf("conflicting equalities should be unsatisfiable, got %s", domain.print("X"))
	}
	if want, got := "unsatisfiable(X)", domain.print("X"); want != got {
		t.Errorf("unexpected print, wanted %s, got %s", want, got)
	}
	if values := domain.values(10); len(values) != 0 {
		t.Errorf("unsatisfiable domain should have no values, got %v", values)
	}
}

func TestRangeDomain_ValuesAreEnumeratedInRange(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		min := rnd.Uint64n(1000)
		max := min + rnd.Uint64n(20)
		limit := 1 + rnd.Intn(30)

		domain := newRangeDomain(64)
		domain.add(opGe, uint256.NewInt(min))
		domain.add(opLe, uint256.NewInt(max))

		values := domain.values(limit)
		want := int(max-min) + 1
		if want > limit {
			want = limit
		}
		if got := len(values); want != got {
			t.Fatalf("unexpected number of values in [%d,%d] with limit %d, wanted %d, got %d", min, max, limit, want, got)
		}
		for j, value := range values {
			if want, got := min+uint64(j), value.Uint64(); want != got {
				t.Errorf("unexpected value at position %d, wanted %d, got %d", j, want, got)
			}
		}
	}
}

func TestRangeDomain_EnumerationStopsAtMaximum(t *testing.T) {
	domain := newRangeDomain(256)
	max := new(uint256.Int).SetAllOne()
	domain.add(opGe, new(uint256.Int).Sub(max, uint256.NewInt(1)))

	values := domain.values(5)
	if want, got := 2, len(values); want != got {
		t.Fatalf("unexpected number of values, wanted %d, got %d", want, got)
	}
	if !values[1].Eq(max) {
		t.Errorf("unexpected last value, wanted %v, got %v", max, values[1])
	}
}

func TestArrayDomain_ResolvesFixedContent(t *testing.T) {
	tests := map[string]struct {
		size  int
		fixes [][]byte
		want  []byte
		err   error
	}{
		"empty":          {size: 0, want: []byte{}},
		"unconstrained":  {size: 2, err: ErrNotUnique},
		"fixed":          {size: 2, fixes: [][]byte{{1, 2}}, want: []byte{1, 2}},
		"fixed twice":    {size: 2, fixes: [][]byte{{1, 2}, {1, 2}}, want: []byte{1, 2}},
		"conflicting":    {size: 2, fixes: [][]byte{{1, 2}, {2, 1}}, err: ErrUnsatisfiable},
		"wrong length":   {size: 2, fixes: [][]byte{{1}}, err: ErrUnsatisfiable},
		"empty mismatch": {size: 0, fixes: [][]byte{{1}}, err: ErrUnsatisfiable},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			domain := &arrayDomain{size: test.size}
			for _, data := range test.fixes {
				domain.addEqualityConstraint(data)
			}
			got, err := domain.value()
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error, wanted %v, got %v", test.err, err)
			}
			if string(test.want) != string(got) {
				t.Errorf("unexpected content, wanted %x, got %x", test.want, got)
			}
		})
	}
}
