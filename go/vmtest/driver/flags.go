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
	"log/slog"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/Fantom-foundation/tosca-vmtests/go/vmtest/gen"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type symbolicFlagType struct {
	cli.BoolFlag
}

var SymbolicFlag = &symbolicFlagType{
	cli.BoolFlag{
		Name:    "symbolic",
		Usage:   "bind fixture inputs to constrained symbols instead of literals",
		EnvVars: []string{"VMTESTGEN_SYMBOLIC"},
	},
}

func (f *symbolicFlagType) Fetch(context *cli.Context) gen.Mode {
	if context.Bool(f.Name) {
		return gen.Symbolic
	}
	return gen.Concrete
}

type outFlagType struct {
	cli.StringFlag
}

var OutFlag = &outFlagType{
	cli.StringFlag{
		Name:      "out",
		Aliases:   []string{"o"},
		Usage:     "base directory of tests generated from a fixture directory",
		Value:     ".",
		TakesFile: true,
		EnvVars:   []string{"VMTESTGEN_OUT"},
	},
}

func (f *outFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type revisionFlagType struct {
	cli.StringFlag
}

var RevisionFlag = &revisionFlagType{
	cli.StringFlag{
		Name:    "revision",
		Usage:   "protocol revision the generated tests run with",
		Value:   tosca.R00_Frontier.String(),
		EnvVars: []string{"VMTESTGEN_REVISION"},
	},
}

func (f *revisionFlagType) Fetch(context *cli.Context) (tosca.Revision, error) {
	return tosca.ParseRevision(context.String(f.Name))
}

type interpreterFlagType struct {
	cli.StringFlag
}

var InterpreterFlag = &interpreterFlagType{
	cli.StringFlag{
		Name:    "interpreter",
		Usage:   "registry name of the interpreter the generated tests run on, registered by a package given with --import",
		Value:   "lfvm",
		EnvVars: []string{"VMTESTGEN_INTERPRETER"},
	},
}

func (f *interpreterFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type importFlagType struct {
	cli.StringSliceFlag
}

var ImportFlag = &importFlagType{
	cli.StringSliceFlag{
		Name:    "import",
		Usage:   "package imported by generated tests to register interpreters; nothing is registered by default",
		EnvVars: []string{"VMTESTGEN_IMPORT"},
	},
}

func (f *importFlagType) Fetch(context *cli.Context) []string {
	return context.StringSlice(f.Name)
}

type verbosityFlagType struct {
	cli.IntFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.IntFlag{
		Name:    "verbosity",
		Usage:   "log level, 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:   3,
		EnvVars: []string{"VMTESTGEN_VERBOSITY"},
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) slog.Level {
	return log.FromLegacyLevel(context.Int(f.Name))
}
