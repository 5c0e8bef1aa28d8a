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
	"testing"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"go.uber.org/mock/gomock"
)

func TestNewConfig_LooksUpInterpreterInRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	interpreter := tosca.NewMockInterpreter(ctrl)
	tosca.MustRegisterInterpreterFactory("harness-config-test", func(any) (tosca.Interpreter, error) {
		return interpreter, nil
	})

	config := NewConfig(t, tosca.R00_Frontier, "harness-config-test")
	if config.Interpreter != interpreter {
		t.Errorf("unexpected interpreter: %v", config.Interpreter)
	}
	if want, got := tosca.R00_Frontier, config.Revision; want != got {
		t.Errorf("unexpected revision, want %v, got %v", want, got)
	}
}

func TestNewConfig_EnvironmentOverridesInterpreterName(t *testing.T) {
	ctrl := gomock.NewController(t)
	interpreter := tosca.NewMockInterpreter(ctrl)
	tosca.MustRegisterInterpreterFactory("harness-override-test", func(any) (tosca.Interpreter, error) {
		return interpreter, nil
	})
	t.Setenv(InterpreterEnvVar, "harness-override-test")

	config := NewConfig(t, tosca.R00_Frontier, "not-registered")
	if want, got := "harness-override-test", config.Name; want != got {
		t.Errorf("unexpected interpreter name, want %v, got %v", want, got)
	}
	if config.Interpreter != interpreter {
		t.Errorf("unexpected interpreter: %v", config.Interpreter)
	}
}
