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

	"github.com/holiman/uint256"
)

// rangeDomain tracks the values a symbol may take under constraints of the
// form
//
//	constraint ::= true | constraint ∧ clause
//	clause     ::= X op C
//	op         ::= ≤ | = | ≥
//
// where X is the symbol and C are constants.
type rangeDomain struct {
	min, max uint256.Int // < inclusive boundaries
}

func newRangeDomain(bits int) *rangeDomain {
	res := &rangeDomain{}
	res.max.SetAllOne()
	if bits < 256 {
		res.max.Rsh(&res.max, uint(256-bits))
	}
	return res
}

func (d *rangeDomain) addLowerBoundary(min *uint256.Int) {
	if min.Gt(&d.min) {
		d.min = *min
	}
}

func (d *rangeDomain) addUpperBoundary(max *uint256.Int) {
	if max.Lt(&d.max) {
		d.max = *max
	}
}

func (d *rangeDomain) addEqualityConstraint(value *uint256.Int) {
	d.addLowerBoundary(value)
	d.addUpperBoundary(value)
}

func (d *rangeDomain) add(op relation, bound *uint256.Int) {
	switch op {
	case opLe:
		d.addUpperBoundary(bound)
	case opGe:
		d.addLowerBoundary(bound)
	default:
		d.addEqualityConstraint(bound)
	}
}

func (d *rangeDomain) isSatisfiable() bool {
	return !d.min.Gt(&d.max)
}

// values enumerates up to limit members of the domain in ascending order.
func (d *rangeDomain) values(limit int) []*uint256.Int {
	var res []*uint256.Int
	if !d.isSatisfiable() {
		return res
	}
	one := uint256.NewInt(1)
	for cur := d.min.Clone(); len(res) < limit; {
		res = append(res, cur.Clone())
		if cur.Eq(&d.max) {
			break
		}
		cur.Add(cur, one)
	}
	return res
}

func (d *rangeDomain) print(symbol string) string {
	if d.min.Eq(&d.max) {
		return fmt.Sprintf("%s=%v", symbol, d.min.Hex())
	}
	if !d.isSatisfiable() {
		return fmt.Sprintf("unsatisfiable(%s)", symbol)
	}
	return fmt.Sprintf("%v≤%s≤%v", d.min.Hex(), symbol, d.max.Hex())
}

// arrayDomain tracks the content of a symbolic byte array of fixed length.
type arrayDomain struct {
	size          int
	fixed         []byte // < nil while unconstrained
	unsatisfiable bool
}

func (d *arrayDomain) addEqualityConstraint(data []byte) {
	if len(data) != d.size {
		d.unsatisfiable = true
		return
	}
	if d.fixed != nil && string(d.fixed) != string(data) {
		d.unsatisfiable = true
		return
	}
	d.fixed = data
}

// value returns the single content of the array, if there is one.
func (d *arrayDomain) value() ([]byte, error) {
	switch {
	case d.unsatisfiable:
		return nil, ErrUnsatisfiable
	case d.size == 0:
		return []byte{}, nil
	case d.fixed == nil:
		return nil, ErrNotUnique
	}
	return append([]byte{}, d.fixed...), nil
}
