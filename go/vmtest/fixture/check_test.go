// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fixture

import (
	"errors"
	"testing"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/holiman/uint256"
)

func newSupportedFixture() *Fixture {
	caller := testAddress(0xcafe)
	logs := tosca.Hash{}
	return &Fixture{
		Name: "supported",
		Pre: []Account{
			{Address: testAddress(0x100), Code: []byte{0x60, 0x01}},
		},
		Exec: Exec{
			Address: testAddress(0x100),
			Caller:  caller,
			Origin:  caller,
			Code:    []byte{0x60, 0x01},
		},
		Post: &Post{
			Out:  []byte{},
			Logs: &logs,
			Gas:  uint256.NewInt(0),
		},
	}
}

func TestFixture_CheckAcceptsSupportedFixtures(t *testing.T) {
	if err := newSupportedFixture().Check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	throwing := newSupportedFixture()
	throwing.Post = nil
	if err := throwing.Check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFixture_CheckRejectsUnsupportedFixtures(t *testing.T) {
	tests := map[string]struct {
		modify func(*Fixture)
		want   error
	}{
		"nested calls": {
			modify: func(f *Fixture) { f.CallCreates = 1 },
			want:   ErrNestedCalls,
		},
		"origin differs from caller": {
			modify: func(f *Fixture) { f.Exec.Origin = testAddress(0xbeef) },
			want:   ErrOriginMismatch,
		},
		"callee missing in pre-state": {
			modify: func(f *Fixture) { f.Exec.Address = testAddress(0x200) },
			want:   ErrMissingCallee,
		},
		"code differs from pre-state": {
			modify: func(f *Fixture) { f.Exec.Code = []byte{0x00} },
			want:   ErrCodeMismatch,
		},
		"post without out": {
			modify: func(f *Fixture) { f.Post.Out = nil },
			want:   ErrIncompletePost,
		},
		"post without logs": {
			modify: func(f *Fixture) { f.Post.Logs = nil },
			want:   ErrIncompletePost,
		},
		"post without gas": {
			modify: func(f *Fixture) { f.Post.Gas = nil },
			want:   ErrIncompletePost,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fixture := newSupportedFixture()
			test.modify(fixture)
			if err := fixture.Check(); !errors.Is(err, test.want) {
				t.Errorf("unexpected error, want %v, got %v", test.want, err)
			}
		})
	}
}
