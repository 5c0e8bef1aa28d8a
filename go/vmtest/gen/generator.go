// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package gen translates VM test fixtures into Go tests. Every fixture
// becomes a sub-test which builds the fixture's world, runs the invocation on
// the configured interpreter and asserts the expected outcome. Generated
// tests depend on the harness package for their runtime support.
package gen

import (
	"fmt"
	"go/format"
	"go/token"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/fixture"
	"github.com/ethereum/go-ethereum/log"
)

// SkipMarker is the name fragment of fixture files whose tests are skipped
// since they only check gas or performance properties.
const SkipMarker = "Performance"

// Options configure the generated tests.
type Options struct {
	Mode        Mode
	Revision    tosca.Revision
	Interpreter string   // < name of the interpreter in the registry
	Imports     []string // < packages registering interpreters
	Package     string   // < name of the generated package
	Source      string   // < input named in the file header
}

// Generator accumulates the tests of one or more fixture collections into a
// single Go source file.
type Generator struct {
	options     Options
	format      formatter
	body        *writer
	names       identifiers
	disassembly *disassembler
	count       int
}

func New(options Options) (*Generator, error) {
	values, err := newFormatter(options.Mode)
	if err != nil {
		return nil, err
	}
	if !token.IsIdentifier(options.Package) {
		return nil, fmt.Errorf("invalid package name: %q", options.Package)
	}
	if options.Interpreter == "" {
		return nil, fmt.Errorf("no interpreter selected")
	}
	disassembly, err := newDisassembler()
	if err != nil {
		return nil, err
	}
	return &Generator{
		options:     options,
		format:      values,
		body:        newWriter(),
		names:       identifiers{},
		disassembly: disassembly,
	}, nil
}

// Count returns the number of fixtures translated so far.
func (g *Generator) Count() int {
	return g.count
}

// Add translates all fixtures of the given collection into a test group.
// Unsupported fixtures fail the whole collection; nothing is added then.
func (g *Generator) Add(collection *fixture.Collection) error {
	for _, fix := range collection.Fixtures {
		if err := fix.Check(); err != nil {
			return fmt.Errorf("unsupported fixture %s in %s: %w", fix.Name, collection.Path, err)
		}
	}

	w := g.body
	w.use(testingPackage)
	w.use(toscaPackage)
	w.use(harnessPackage)

	base := strings.TrimSuffix(filepath.Base(collection.Path), filepath.Ext(collection.Path))
	group := g.names.unique("Test" + camelCase(base))
	skip := strings.Contains(collection.Path, SkipMarker)

	functions := make([]string, len(collection.Fixtures))
	for i, fix := range collection.Fixtures {
		functions[i] = g.names.unique("test" + camelCase(fix.Name))
	}

	w.blank()
	w.open("func %s(t *testing.T) {", group)
	w.line("config := harness.NewConfig(t, %#v, %q)", g.options.Revision, g.options.Interpreter)
	for i, fix := range collection.Fixtures {
		w.blank()
		w.open("t.Run(%q, func(t *testing.T) {", fix.Name)
		if skip {
			w.line("t.Skip(\"gas or performance related\")")
		}
		w.line("t.Parallel()")
		w.line("%s(t, config)", functions[i])
		w.close("})")
	}
	w.close("}")

	for i, fix := range collection.Fixtures {
		g.addFixture(functions[i], collection, fix)
	}
	log.Debug("Translated fixture file", "file", collection.Path, "fixtures", len(collection.Fixtures), "skipped", skip)
	return nil
}

func (g *Generator) addFixture(function string, collection *fixture.Collection, fix *fixture.Fixture) {
	w := g.body
	w.blank()
	emitProvenance(w, function, fix.Name, collection.Path, collection.Checksum, g.disassembly.listing(fix.Exec.Code))
	w.open("func %s(t *testing.T, config harness.Config) {", function)
	emitPreState(w, g.format, fix)
	emitExecution(w, g.format, fix)
	if fix.Post == nil {
		emitThrowAssertion(w)
	} else {
		emitPostState(w, fix.Post)
	}
	w.close("}")
	g.count++
}

// Bytes assembles and formats the generated source file.
func (g *Generator) Bytes() ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by vmtestgen from %s. DO NOT EDIT.\n\n", g.options.Source)
	fmt.Fprintf(&b, "package %s\n", g.options.Package)

	var std, other []string
	for path := range g.body.imports {
		if strings.Contains(path, ".") {
			other = append(other, path)
		} else {
			std = append(std, path)
		}
	}
	slices.Sort(std)
	slices.Sort(other)
	blank := slices.Clone(g.options.Imports)
	slices.Sort(blank)
	blank = slices.Compact(blank)

	if len(std)+len(other)+len(blank) > 0 {
		b.WriteString("\nimport (\n")
		for i, group := range [][]string{std, other} {
			if i > 0 && len(std) > 0 && len(other) > 0 {
				b.WriteString("\n")
			}
			for _, path := range group {
				fmt.Fprintf(&b, "\t%q\n", path)
			}
		}
		if len(blank) > 0 {
			b.WriteString("\n")
			for _, path := range blank {
				fmt.Fprintf(&b, "\t_ %q\n", path)
			}
		}
		b.WriteString(")\n")
	}
	b.WriteString(g.body.String())

	res, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return res, nil
}
