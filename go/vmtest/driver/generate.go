// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/fixture"
	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/gen"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func doGenerate(context *cli.Context) error {
	if context.Args().Len() < 1 {
		return cli.ShowAppHelp(context)
	}
	setupLogging(context.App.ErrWriter, VerbosityFlag.Fetch(context))

	revision, err := RevisionFlag.Fetch(context)
	if err != nil {
		return err
	}
	options := gen.Options{
		Mode:        SymbolicFlag.Fetch(context),
		Revision:    revision,
		Interpreter: InterpreterFlag.Fetch(context),
		Imports:     ImportFlag.Fetch(context),
	}
	options.Package = packageName(options.Mode)
	if len(options.Imports) == 0 {
		log.Warn("No interpreter package imported, generated tests fail unless their package registers the interpreter", "interpreter", options.Interpreter)
	}

	input := context.Args().First()
	info, err := os.Stat(input)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return generateFile(input, options, context.App.Writer)
	}
	return generateDir(input, OutFlag.Fetch(context), options)
}

func setupLogging(out io.Writer, level slog.Level) {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(out, level, false)))
}

// packageName is the name of the package and the directory of generated
// tests of the given mode.
func packageName(mode gen.Mode) string {
	return "vmtests_" + mode.String()
}

// generateFile translates a single fixture file and writes the resulting
// tests to out.
func generateFile(path string, options gen.Options, out io.Writer) error {
	options.Source = filepath.ToSlash(path)
	generator, err := gen.New(options)
	if err != nil {
		return err
	}
	collection, err := fixture.LoadFile(path)
	if err != nil {
		return err
	}
	if err := generator.Add(collection); err != nil {
		return err
	}
	code, err := generator.Bytes()
	if err != nil {
		return err
	}
	if _, err := out.Write(code); err != nil {
		return err
	}
	log.Info("Generated tests", "fixtures", generator.Count(), "size", formatSize(len(code)))
	return nil
}

// generateDir translates all fixture files of a directory into a single
// test file of a mode specific package below the out directory.
func generateDir(dir string, out string, options gen.Options) error {
	files, err := fixture.ListDir(dir)
	if err != nil {
		return err
	}
	options.Source = filepath.ToSlash(filepath.Clean(dir))
	generator, err := gen.New(options)
	if err != nil {
		return err
	}
	for i, file := range files {
		collection, err := fixture.LoadFile(file)
		if err != nil {
			return err
		}
		if err := generator.Add(collection); err != nil {
			return err
		}
		log.Info("Translated fixture file", "file", file, "progress", fmt.Sprintf("%d/%d", i+1, len(files)), "fixtures", generator.Count())
	}
	code, err := generator.Bytes()
	if err != nil {
		return err
	}

	target := filepath.Join(out, options.Package)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(target, filepath.Base(filepath.Clean(dir))+"_test.go")
	if err := os.WriteFile(filename, code, 0o644); err != nil {
		return fmt.Errorf("failed to write tests: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, "doc.go"), packageDoc(options.Package), 0o644); err != nil {
		return fmt.Errorf("failed to write package documentation: %w", err)
	}
	log.Info("Generated tests", "file", filename, "fixtures", generator.Count(), "size", formatSize(len(code)))
	return nil
}

// packageDoc is the content of the file turning the output directory into a
// package that can be tested.
func packageDoc(name string) []byte {
	return []byte(fmt.Sprintf(`// Code generated by vmtestgen. DO NOT EDIT.

// Package %[1]s contains tests translated from VM test fixtures.
package %[1]s
`, name))
}

func formatSize(bytes int) string {
	return unitconv.FormatPrefix(float64(bytes), unitconv.SI, 1) + "B"
}
