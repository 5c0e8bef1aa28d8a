// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fixture

import (
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
)

const (
	ErrNestedCalls    = tosca.ConstError("nested calls are not supported")
	ErrOriginMismatch = tosca.ConstError("origin differs from caller")
	ErrMissingCallee  = tosca.ConstError("callee is not part of the pre-state")
	ErrCodeMismatch   = tosca.ConstError("code of callee differs from executed code")
	ErrIncompletePost = tosca.ConstError("post-state lacks out, logs or gas")
)

// Check verifies that the fixture is within the subset of VM tests that can
// be translated into a test. It returns nil for supported fixtures.
func (f *Fixture) Check() error {
	if f.CallCreates > 0 {
		return fmt.Errorf("%w: %d call creates", ErrNestedCalls, f.CallCreates)
	}
	if f.Exec.Origin != f.Exec.Caller {
		return fmt.Errorf("%w: %v != %v", ErrOriginMismatch, f.Exec.Origin, f.Exec.Caller)
	}
	callee, found := f.Callee()
	if !found {
		return fmt.Errorf("%w: %v", ErrMissingCallee, f.Exec.Address)
	}
	if !bytes.Equal(callee.Code, f.Exec.Code) {
		return fmt.Errorf("%w: %v", ErrCodeMismatch, f.Exec.Address)
	}
	if post := f.Post; post != nil && (post.Out == nil || post.Logs == nil || post.Gas == nil) {
		return ErrIncompletePost
	}
	return nil
}
