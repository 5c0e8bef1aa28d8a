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
	"fmt"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
)

// Result is the tag of a terminated invocation.
type Result string

const (
	ResultReturn Result = "RETURN"
	ResultRevert Result = "REVERT"
	ResultThrow  Result = "THROW"
)

// Signal is produced by World.Step once the open invocation terminated.
type Signal interface {
	Result() Result
}

// Returned signals a successful end of the invocation.
type Returned struct {
	Data ByteArray
}

// Reverted signals an invocation that was reverted by its code. State
// changes are rolled back while the remaining gas is kept.
type Reverted struct {
	Data ByteArray
}

// Threw signals an invocation aborted by an exceptional halt. State changes
// are rolled back and all gas is consumed.
type Threw struct{}

// NestedCallAttempted signals that the code tried to start a nested
// invocation, which is not supported by VM tests.
type NestedCallAttempted struct {
	Kind      tosca.CallKind
	Recipient tosca.Address
}

func (Returned) Result() Result            { return ResultReturn }
func (Reverted) Result() Result            { return ResultRevert }
func (Threw) Result() Result               { return ResultThrow }
func (NestedCallAttempted) Result() Result { return ResultThrow }

func (s NestedCallAttempted) String() string {
	return fmt.Sprintf("nested %v to %v", s.Kind, s.Recipient)
}
