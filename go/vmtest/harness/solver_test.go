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
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func TestIdentity_ReturnsConstants(t *testing.T) {
	solve := Identity(t)
	if want, got := uint256.NewInt(0x100), solve.Word(Word("0x100")); !want.Eq(got) {
		t.Errorf("unexpected word, want %v, got %v", want, got)
	}
	if want, got := []byte{1, 2, 3}, solve.Bytes(Bytes("0x010203")); !bytes.Equal(want, got) {
		t.Errorf("unexpected bytes, want %x, got %x", want, got)
	}
}

func TestSolve_ResolvesPinnedSymbols(t *testing.T) {
	constraints := NewConstraintSet()
	gas := constraints.NewBitVec(256, "gas")
	constraints.Add(gas.Eq(Word("0x186a0")))
	data := constraints.NewArray(1, "data")
	constraints.Add(data.Eq(Bytes("0xff")))

	solve := Solve(t, constraints)
	if want, got := uint256.NewInt(100000), solve.Word(gas); !want.Eq(got) {
		t.Errorf("unexpected word, want %v, got %v", want, got)
	}
	if want, got := []byte{0xff}, solve.Bytes(data); !bytes.Equal(want, got) {
		t.Errorf("unexpected bytes, want %x, got %x", want, got)
	}
	if want, got := uint256.NewInt(7), solve.Word(Word("0x7")); !want.Eq(got) {
		t.Errorf("unexpected constant, want %v, got %v", want, got)
	}
}

func TestValues_LiteralsAreCanonical(t *testing.T) {
	if want, got := "0x0", Word("0x0").String(); want != got {
		t.Errorf("unexpected print, want %v, got %v", want, got)
	}
	if want, got := "0x", Bytes("0x").String(); want != got {
		t.Errorf("unexpected print, want %v, got %v", want, got)
	}
	address := Address("0xcafe")
	if want, got := "0x000000000000000000000000000000000000cafe", address.String(); want != got {
		t.Errorf("unexpected address, want %v, got %v", want, got)
	}
}

func TestValues_OversizedAddressesAreRejected(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	Address("0x10000000000000000000000000000000000000000")
}

func TestValues_FixedWidthAddressesWithLeadingZerosAreParsed(t *testing.T) {
	tests := []string{
		"0x0f572e5295c57f15886f9b263e2f6d2d6c7b5ec6",
		"0x0000000000000000000000000000000000000001",
		"0x00000000000000000000000000000000000000000000000000000000000000ff",
	}
	for _, hex := range tests {
		t.Run(hex, func(t *testing.T) {
			address := Address(hex)
			want := common.HexToAddress(hex)
			if !bytes.Equal(want[:], address[:]) {
				t.Errorf("unexpected address, want %v, got %v", want, address)
			}
			if want, got := address, Address(address.String()); want != got {
				t.Errorf("address does not survive printing, want %v, got %v", want, got)
			}
		})
	}
}

func TestValues_WordsWithLeadingZerosAreParsed(t *testing.T) {
	if want, got := uint256.NewInt(3), Identity(t).Word(Word("0x03")); !want.Eq(got) {
		t.Errorf("unexpected word, want %v, got %v", want, got)
	}
	if want, got := "0x1", Word("0x0000000000000000000000000000000000000000000000000000000000000001").String(); want != got {
		t.Errorf("unexpected print, want %v, got %v", want, got)
	}
}

func TestValues_MalformedLiteralsAreRejected(t *testing.T) {
	tests := []string{
		"cafe",
		"0xzz",
		"0x1" + strings.Repeat("0", 64),
	}
	for _, hex := range tests {
		t.Run(hex, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected a panic")
				}
			}()
			Word(hex)
		})
	}
}
