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
	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/fixture"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// emitPreState writes the statements creating the constraint set, the solve
// function and the world of the given fixture, including its accounts.
func emitPreState(w *writer, f formatter, fix *fixture.Fixture) {
	w.line("constraints := harness.NewConstraintSet()")
	w.line("solve := %s", f.solver())
	w.blank()

	env := &fix.Env
	f.word(w, "blocknumber", &env.Number, 256, "blocknumber")
	f.word(w, "timestamp", &env.Timestamp, 256, "timestamp")
	f.word(w, "difficulty", &env.Difficulty, 256, "difficulty")
	f.word(w, "coinbase", &env.Coinbase, 160, "coinbase")
	f.word(w, "gaslimit", &env.GasLimit, 256, "gaslimit")
	w.blank()

	w.open("world := harness.NewWorld(t, config, constraints, harness.BlockContext{")
	w.line("Number: blocknumber,")
	w.line("Timestamp: timestamp,")
	w.line("Difficulty: difficulty,")
	w.line("Coinbase: coinbase,")
	w.line("GasLimit: gaslimit,")
	w.close("})")

	for i := range fix.Pre {
		account := &fix.Pre[i]
		suffix := addressSuffix(account.Address)
		w.use(hexutilPackage)
		w.blank()
		w.open("{")
		bindAddress(w, "accAddr", account.Address)
		w.line("accCode := hexutil.MustDecode(%q)", hexutil.Encode(account.Code))
		f.word(w, "accBalance", &account.Balance, 256, "balance_"+suffix)
		f.word(w, "accNonce", &account.Nonce, 256, "nonce_"+suffix)
		w.line("world.CreateAccount(accAddr, accBalance, accCode, accNonce)")
		for j := range account.Storage {
			entry := &account.Storage[j]
			w.open("{")
			f.word(w, "key", &entry.Key, 256, "storage_key_"+suffix)
			f.word(w, "value", &entry.Value, 256, "storage_value_"+suffix)
			w.line("world.SetStorage(accAddr, key, value)")
			w.close("}")
		}
		w.close("}")
	}
}
