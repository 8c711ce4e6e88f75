// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"math/bits"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
)

// maxDontCareWidth is the §9 hard cap: a field wider than this with any
// don't-care bit or isDefault entry cannot be practically expanded.
const maxDontCareWidth = 16

// processEnumerations runs the §4.7 post-processor over every field in the
// tree. maxWidth overrides maxDontCareWidth when non-zero (Config's escape
// hatch for callers that need a wider practical cap).
func processEnumerations(device *ast.Device, bag *diag.Bag, maxWidth uint) {
	if maxWidth == 0 {
		maxWidth = maxDontCareWidth
	}

	for _, p := range device.Peripherals {
		for _, r := range ast.Registers(p.Children) {
			for _, f := range r.Fields {
				processField(f, bag, maxWidth)
			}
		}
	}
}

func processField(f *ast.Field, bag *diag.Bag, maxWidth uint) {
	var (
		hasReadWrite, hasRead, hasWrite bool
		result                          []*ast.EnumeratedValueContainer
	)

	for _, c := range f.Containers {
		eu := c.EffectiveUsage()

		var conflict bool

		switch eu {
		case ast.UsageReadWrite:
			conflict = hasReadWrite || hasRead || hasWrite
			hasReadWrite = true
		case ast.UsageRead:
			conflict = hasReadWrite || hasRead
			hasRead = true
		case ast.UsageWrite:
			conflict = hasReadWrite || hasWrite
			hasWrite = true
		}

		if conflict {
			bag.Add(diag.New(diag.ConflictingEnumUsage, c.Path(), "container usage %q conflicts with an earlier container on this field", eu))

			continue
		}

		processContainer(c, f.Width(), maxWidth, bag)
		result = append(result, c)
	}

	f.Containers = result
}

func processContainer(c *ast.EnumeratedValueContainer, width, maxWidth uint, bag *diag.Bag) {
	concrete := map[uint64]*ast.EnumeratedValue{}

	var order []*ast.EnumeratedValue

	var defaultEntry *ast.EnumeratedValue

	var dontcare []*ast.EnumeratedValue

	for _, v := range c.Values {
		switch {
		case v.IsDefault:
			if defaultEntry == nil {
				defaultEntry = v
			}
		case v.DontCare != 0:
			dontcare = append(dontcare, v)
		default:
			val := *v.Value
			if existing, dup := concrete[val]; dup && existing.Name != v.Name {
				bag.Add(diag.Warningf(diag.DuplicateEnumValue, c.Path(), "value %d already defined by %q", val, existing.Name))

				continue
			}

			if _, dup := concrete[val]; !dup {
				concrete[val] = v
				order = append(order, v)
			}
		}
	}

	needsExpansion := len(dontcare) > 0 || defaultEntry != nil
	if needsExpansion && width > maxWidth {
		bag.Add(diag.New(diag.DefaultExpansionOverflow, c.Path(), "field width %d exceeds the %d-bit don't-care expansion cap", width, maxWidth))

		c.Values = order
		c.Complete = false

		return
	}

	for _, v := range dontcare {
		order = expandDontCare(v, v.Value, v.DontCare, concrete, order)
	}

	fullMask := uint64(1)<<width - 1

	complete := uint64(len(concrete)) == fullMask+1

	if defaultEntry != nil {
		zero := uint64(0)
		order = expandDontCare(defaultEntry, &zero, fullMask, concrete, order)
		complete = true
	}

	c.Values = order
	c.Complete = complete
}

// expandDontCare enumerates the cartesian product of a don't-care literal's
// free bit positions, appending one synthetic entry per concrete value not
// already present in seen (an existing explicit entry always wins - §4.7
// rule 4).
func expandDontCare(template *ast.EnumeratedValue, base *uint64, mask uint64, seen map[uint64]*ast.EnumeratedValue, order []*ast.EnumeratedValue) []*ast.EnumeratedValue {
	fixed := uint64(0)
	if base != nil {
		fixed = *base
	}

	count := 1 << bits.OnesCount64(mask)

	for i := 0; i < count; i++ {
		candidate := fixed | pdep(uint64(i), mask)
		if _, dup := seen[candidate]; dup {
			continue
		}

		v := candidate
		synthetic := &ast.EnumeratedValue{Name: template.Name, Description: template.Description, Value: &v}
		seen[candidate] = synthetic
		order = append(order, synthetic)
	}

	return order
}

// pdep scatters the low bits of src into the positions marked by mask (a
// software equivalent of the x86 PDEP instruction), used to enumerate every
// concrete value a don't-care mask admits.
func pdep(src, mask uint64) uint64 {
	var result uint64

	for bit := uint64(1); mask != 0; bit <<= 1 {
		lowest := mask & -mask
		if src&bit != 0 {
			result |= lowest
		}

		mask &^= lowest
	}

	return result
}
