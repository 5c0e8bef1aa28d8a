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
	"os"
	"testing"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
)

// InterpreterEnvVar names the environment variable overriding the interpreter
// selected by generated tests.
const InterpreterEnvVar = "VMTEST_INTERPRETER"

// Config pins the protocol revision and the interpreter used by all tests of
// a generated test group.
type Config struct {
	Revision    tosca.Revision
	Interpreter tosca.Interpreter
	Name        string
}

// NewConfig looks up the named interpreter in the registry. The environment
// variable VMTEST_INTERPRETER takes precedence over the given name.
func NewConfig(t testing.TB, revision tosca.Revision, name string) Config {
	t.Helper()
	if override := os.Getenv(InterpreterEnvVar); override != "" {
		name = override
	}
	interpreter, err := tosca.NewInterpreter(name)
	if err != nil {
		t.Fatalf("failed to create interpreter %q: %v", name, err)
	}
	return Config{
		Revision:    revision,
		Interpreter: interpreter,
		Name:        name,
	}
}
