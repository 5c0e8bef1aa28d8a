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
)

// emitExecution writes the statements invoking the callee and driving the
// interpreter until the invocation terminated, followed by checks of the
// block context.
func emitExecution(w *writer, f formatter, fix *fixture.Fixture) {
	exec := &fix.Exec
	w.blank()
	bindAddress(w, "address", exec.Address)
	bindAddress(w, "caller", exec.Caller)
	f.word(w, "price", &exec.GasPrice, 256, "price")
	f.word(w, "value", &exec.Value, 256, "value")
	f.word(w, "gas", &exec.Gas, 256, "gas")
	f.data(w, "data", exec.Data, "data")
	w.blank()

	w.line("// No funds are transferred by opening the transaction.")
	w.line("world.OpenTransaction(tosca.Call, address, price, data, caller, value, gas)")
	w.blank()
	w.line("var result harness.Result")
	w.line("var returndata []byte")
	w.line("run:")
	w.open("for {")
	w.open("switch signal := world.Step().(type) {")
	for _, signal := range []string{"harness.Returned", "harness.Reverted"} {
		w.line("case %s:", signal)
		w.indent++
		w.line("result, returndata = signal.Result(), solve.Bytes(signal.Data)")
		w.line("break run")
		w.indent--
	}
	w.line("case harness.NestedCallAttempted:")
	w.indent++
	w.line("t.Fatalf(\"unsupported %%v, tests must not start nested invocations\", signal)")
	w.indent--
	w.line("default:")
	w.indent++
	w.line("result = signal.Result()")
	w.line("break run")
	w.indent--
	w.close("}")
	w.close("}")
	w.line("t.Logf(\"invocation ended with %%v returning %%d bytes\", result, len(returndata))")
	w.blank()

	env := &fix.Env
	w.line("// The block context is not modified by the execution.")
	assertWord(w, "block number", "world.BlockNumber()", &env.Number)
	assertWord(w, "gas limit", "world.GasLimit()", &env.GasLimit)
	assertWord(w, "timestamp", "world.Timestamp()", &env.Timestamp)
	assertWord(w, "difficulty", "world.Difficulty()", &env.Difficulty)
	assertWord(w, "coinbase", "world.Coinbase()", &env.Coinbase)
}
