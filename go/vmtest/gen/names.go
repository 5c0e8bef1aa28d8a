// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gen

import (
	"strconv"
	"strings"
	"unicode"
)

// camelCase turns an arbitrary name into an exported Go identifier suffix by
// dropping all characters that are not letters or digits and upper-casing
// the first letter of each remaining word.
func camelCase(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r)) || r > unicode.MaxASCII {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// identifiers hands out unique Go identifiers.
type identifiers map[string]bool

func (ids identifiers) unique(name string) string {
	res := name
	for i := 2; ids[res]; i++ {
		res = name + strconv.Itoa(i)
	}
	ids[res] = true
	return res
}
