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
	"path/filepath"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/core/asm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const disassemblyCacheSize = 1024

// disassembler renders byte-code as a listing of instructions. Listings are
// cached by code hash since fixture files commonly share code.
type disassembler struct {
	cache *lru.Cache[tosca.Hash, []string]
}

func newDisassembler() (*disassembler, error) {
	cache, err := lru.New[tosca.Hash, []string](disassemblyCacheSize)
	if err != nil {
		return nil, err
	}
	return &disassembler{cache: cache}, nil
}

// listing returns the instructions of the given code. Code that can not be
// disassembled produces an empty listing.
func (d *disassembler) listing(code []byte) []string {
	key := tosca.Hash(crypto.Keccak256(code))
	if lines, found := d.cache.Get(key); found {
		return lines
	}
	lines, err := disassemble(code)
	if err != nil {
		log.Debug("Omitting disassembly", "code", key, "err", err)
		lines = nil
	}
	d.cache.Add(key, lines)
	return lines
}

func disassemble(code []byte) ([]string, error) {
	var res []string
	it := asm.NewInstructionIterator(code)
	for it.Next() {
		if arg := it.Arg(); len(arg) > 0 {
			res = append(res, fmt.Sprintf("%05x: %v 0x%x", it.PC(), it.Op(), arg))
		} else {
			res = append(res, fmt.Sprintf("%05x: %v", it.PC(), it.Op()))
		}
	}
	return res, it.Error()
}

// emitProvenance writes the doc comment of a fixture's test function.
func emitProvenance(w *writer, function, name, collectionPath string, checksum [32]byte, listing []string) {
	w.line("// %s runs fixture %s taken from https://github.com/ethereum/tests.", function, name)
	w.line("//")
	w.line("//\tFile: %s", shortPath(collectionPath))
	w.line("//\tsha256sum: %x", checksum)
	w.line("//\tCode:")
	for _, line := range listing {
		w.line("//\t  %s", line)
	}
}

// shortPath reduces a path to its last two elements.
func shortPath(path string) string {
	return filepath.ToSlash(filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
