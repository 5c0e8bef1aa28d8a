// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import (
	"fmt"
	"strings"
)

// Revision is an enumeration of EVM protocol revisions (aka. Hard-Forks).
type Revision int

// The list of revisions known to the VM tests. The classic VMTests fixtures
// describe Frontier behaviour.
const (
	R00_Frontier Revision = iota
	R07_Istanbul
	R09_Berlin
	R10_London
	R11_Paris
	R12_Shanghai
	R13_Cancun
	R99_UnknownNextRevision
)

// ErrUnsupportedRevision is returned by interpreters for runs with a revision
// they do not implement.
type ErrUnsupportedRevision struct {
	Revision Revision
}

func (e *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported revision %v", e.Revision)
}

var revisionNames = map[Revision]string{
	R00_Frontier:            "Frontier",
	R07_Istanbul:            "Istanbul",
	R09_Berlin:              "Berlin",
	R10_London:              "London",
	R11_Paris:               "Paris",
	R12_Shanghai:            "Shanghai",
	R13_Cancun:              "Cancun",
	R99_UnknownNextRevision: "UnknownNextRevision",
}

func (r Revision) String() string {
	if name, found := revisionNames[r]; found {
		return name
	}
	return fmt.Sprintf("Revision(%d)", r)
}

// GoString renders the revision as the Go identifier of its constant. It is
// used when revisions are embedded into generated source code.
func (r Revision) GoString() string {
	switch r {
	case R00_Frontier:
		return "tosca.R00_Frontier"
	case R07_Istanbul:
		return "tosca.R07_Istanbul"
	case R09_Berlin:
		return "tosca.R09_Berlin"
	case R10_London:
		return "tosca.R10_London"
	case R11_Paris:
		return "tosca.R11_Paris"
	case R12_Shanghai:
		return "tosca.R12_Shanghai"
	case R13_Cancun:
		return "tosca.R13_Cancun"
	case R99_UnknownNextRevision:
		return "tosca.R99_UnknownNextRevision"
	default:
		return fmt.Sprintf("tosca.Revision(%d)", r)
	}
}

// ParseRevision resolves a revision by its name, ignoring case.
func ParseRevision(name string) (Revision, error) {
	for revision, candidate := range revisionNames {
		if strings.EqualFold(candidate, name) {
			return revision, nil
		}
	}
	return 0, fmt.Errorf("unknown revision: %q", name)
}
