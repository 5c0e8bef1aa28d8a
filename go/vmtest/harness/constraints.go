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
	"github.com/holiman/uint256"
)

const (
	ErrUnsatisfiable         = tosca.ConstError("constraints are unsatisfiable")
	ErrNotUnique             = tosca.ConstError("value is not unique")
	ErrUnknownSymbol         = tosca.ConstError("unknown symbol")
	ErrUnsupportedConstraint = tosca.ConstError("unsupported constraint")
)

// ConstraintSet collects symbols and the constraints restricting them. A
// ConstraintSet is owned by a single test and not safe for concurrent use.
type ConstraintSet struct {
	symbols map[string]*rangeDomain
	arrays  map[string]*arrayDomain
	order   []string
	err     error
}

func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{
		symbols: map[string]*rangeDomain{},
		arrays:  map[string]*arrayDomain{},
	}
}

// NewBitVec introduces a new unconstrained symbol of the given width. Names
// already in use are made unique by appending a numeric suffix.
func (s *ConstraintSet) NewBitVec(bits int, name string) BitVec {
	if bits <= 0 || bits > 256 {
		panic(fmt.Sprintf("unsupported bit width: %d", bits))
	}
	name = s.uniqueName(name)
	s.symbols[name] = newRangeDomain(bits)
	s.order = append(s.order, name)
	return BitVec{bits: bits, name: name}
}

// NewArray introduces a new unconstrained byte array of the given length.
func (s *ConstraintSet) NewArray(length int, name string) ByteArray {
	if length < 0 {
		panic(fmt.Sprintf("negative array length: %d", length))
	}
	name = s.uniqueName(name)
	s.arrays[name] = &arrayDomain{size: length}
	s.order = append(s.order, name)
	return ByteArray{name: name, size: length}
}

func (s *ConstraintSet) uniqueName(name string) string {
	if !s.declared(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !s.declared(candidate) {
			return candidate
		}
	}
}

func (s *ConstraintSet) declared(name string) bool {
	_, isSymbol := s.symbols[name]
	_, isArray := s.arrays[name]
	return isSymbol || isArray
}

// Add restricts the set by the given constraint. Failures are sticky and
// reported by Err and all subsequent queries.
func (s *ConstraintSet) Add(c Constraint) {
	if s.err != nil {
		return
	}
	switch {
	case c.err != nil:
		s.err = c.err
	case c.trivial:
		if !c.holds {
			s.err = ErrUnsatisfiable
		}
	case c.array != "":
		domain, found := s.arrays[c.array]
		if !found {
			s.err = fmt.Errorf("%w: %s", ErrUnknownSymbol, c.array)
			return
		}
		domain.addEqualityConstraint(c.data)
		if domain.unsatisfiable {
			s.err = fmt.Errorf("%w: %v", ErrUnsatisfiable, c)
		}
	default:
		domain, found := s.symbols[c.symbol]
		if !found {
			s.err = fmt.Errorf("%w: %s", ErrUnknownSymbol, c.symbol)
			return
		}
		domain.add(c.op, &c.bound)
		if !domain.isSatisfiable() {
			s.err = fmt.Errorf("%w: %v", ErrUnsatisfiable, c)
		}
	}
}

// Err returns the first failure encountered while adding constraints.
func (s *ConstraintSet) Err() error {
	return s.err
}

// Values lists up to limit values the given vector may take, in ascending
// order.
func (s *ConstraintSet) Values(v BitVec, limit int) ([]*uint256.Int, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !v.Symbolic() {
		return []*uint256.Int{v.value.Clone()}, nil
	}
	domain, found := s.symbols[v.name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, v.name)
	}
	if !domain.isSatisfiable() {
		return nil, ErrUnsatisfiable
	}
	return domain.values(limit), nil
}

// Value resolves the given vector to the single value it may take. An error
// is returned if there is no such value or more than one.
func (s *ConstraintSet) Value(v BitVec) (*uint256.Int, error) {
	values, err := s.Values(v, 2)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: %v", ErrNotUnique, v)
	}
	return values[0], nil
}

// Bytes resolves the given array to its single content.
func (s *ConstraintSet) Bytes(a ByteArray) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !a.Symbolic() {
		return append([]byte{}, a.data...), nil
	}
	domain, found := s.arrays[a.name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, a.name)
	}
	res, err := domain.value()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, a)
	}
	return res, nil
}

func (s *ConstraintSet) String() string {
	res := "{"
	for i, name := range s.order {
		if i > 0 {
			res += ", "
		}
		if domain, found := s.symbols[name]; found {
			res += domain.print(name)
		} else {
			res += fmt.Sprintf("%s[%d]", name, s.arrays[name].size)
		}
	}
	return res + "}"
}
