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
	"strings"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Packages referenced by generated code.
const (
	bytesPackage   = "bytes"
	testingPackage = "testing"
	toscaPackage   = "github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	harnessPackage = "github.com/Fantom-foundation/tosca-vmtests/go/vmtest/harness"
	hexutilPackage = "github.com/ethereum/go-ethereum/common/hexutil"
	uint256Package = "github.com/holiman/uint256"
)

// writer accumulates generated source lines and records the packages they
// refer to.
type writer struct {
	b       strings.Builder
	indent  int
	imports map[string]bool
}

func newWriter() *writer {
	return &writer{imports: map[string]bool{}}
}

func (w *writer) line(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.b.WriteByte('\t')
	}
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) blank() {
	w.b.WriteByte('\n')
}

// open writes a line and indents the following ones.
func (w *writer) open(format string, args ...any) {
	w.line(format, args...)
	w.indent++
}

// close ends an indented block with the given line.
func (w *writer) close(format string, args ...any) {
	w.indent--
	w.line(format, args...)
}

func (w *writer) use(path string) {
	w.imports[path] = true
}

func (w *writer) String() string {
	return w.b.String()
}

// bindAddress binds name to an address. Addresses are structural and thus
// never symbolic.
func bindAddress(w *writer, name string, address tosca.Address) {
	w.line("%s := harness.Address(%q)", name, address.String())
}

// assertWord checks that the resolved value of expr equals want.
func assertWord(w *writer, what string, expr string, want *uint256.Int) {
	w.use(uint256Package)
	w.open("if want, got := uint256.MustFromHex(%q), solve.Word(%s); !want.Eq(got) {", want.Hex(), expr)
	w.line("t.Errorf(%s, want, got)", strconv.Quote("unexpected "+what+", want %v, got %v"))
	w.close("}")
}

// assertBytes checks that the byte string produced by expr equals want.
func assertBytes(w *writer, what string, expr string, want []byte) {
	w.use(bytesPackage)
	w.use(hexutilPackage)
	w.open("if want, got := hexutil.MustDecode(%q), %s; !bytes.Equal(want, got) {", hexutil.Encode(want), expr)
	w.line("t.Errorf(%s, want, got)", strconv.Quote("unexpected "+what+", want %x, got %x"))
	w.close("}")
}

// addressSuffix renders an address as a compact hex number for use in
// symbol names.
func addressSuffix(address tosca.Address) string {
	return new(uint256.Int).SetBytes(address[:]).Hex()
}
