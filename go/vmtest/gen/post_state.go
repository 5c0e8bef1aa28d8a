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
	"strconv"

	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/fixture"
)

// emitPostState writes the assertions on the outcome of an invocation that
// is expected to complete.
func emitPostState(w *writer, post *fixture.Post) {
	for i := range post.Accounts {
		account := &post.Accounts[i]
		w.blank()
		w.line("// Post-state of account %v.", account.Address)
		w.open("{")
		bindAddress(w, "addr", account.Address)
		assertWord(w, "nonce", "world.GetNonce(addr)", &account.Nonce)
		assertWord(w, "balance", "world.GetBalance(addr)", &account.Balance)
		assertBytes(w, "code", "world.GetCode(addr)", account.Code)
		w.close("}")
	}

	// Storage is only checked for the last account of the post-state.
	if n := len(post.Accounts); n > 0 && len(post.Accounts[n-1].Storage) > 0 {
		account := &post.Accounts[n-1]
		w.blank()
		w.line("// Storage of account %v.", account.Address)
		w.open("{")
		bindAddress(w, "addr", account.Address)
		for i := range account.Storage {
			entry := &account.Storage[i]
			key := entry.Key.Hex()
			assertWord(w,
				fmt.Sprintf("storage at %s", key),
				fmt.Sprintf("world.GetStorage(addr, harness.Word(%s))", strconv.Quote(key)),
				&entry.Value,
			)
		}
		w.close("}")
	}

	w.blank()
	assertBytes(w, "return data", "returndata", post.Out)
	w.open("if want, got := %q, harness.LogsDigest(world.Logs()); want != got {", post.Logs.String())
	w.line("t.Errorf(\"unexpected logs digest, want %%v, got %%v\", want, got)")
	w.close("}")
	assertWord(w, "gas", "world.Gas()", post.Gas)
}

// emitThrowAssertion writes the only assertion on an invocation that is
// expected to throw.
func emitThrowAssertion(w *writer) {
	w.blank()
	w.open("if want, got := harness.ResultThrow, result; want != got {")
	w.line("t.Errorf(\"unexpected result, want %%v, got %%v\", want, got)")
	w.close("}")
}
