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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

var (
	numericRangeRE = regexp.MustCompile(`^([0-9]+)-([0-9]+)$`)
	alphaRangeRE   = regexp.MustCompile(`^([A-Za-z])-([A-Za-z])$`)
)

// dimIndices parses the §4.5 dimIndex grammar (a numeric range, a one-letter
// alpha range, or a comma-separated token list) into exactly dim tokens; an
// empty raw string means "consecutive integers starting at 0".
func dimIndices(raw string, dim uint, p path.Path) ([]string, *diag.Diagnostic) {
	if raw == "" {
		out := make([]string, dim)
		for i := range out {
			out[i] = strconv.Itoa(i)
		}

		return out, nil
	}

	if m := numericRangeRE.FindStringSubmatch(raw); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])

		if hi < lo {
			return nil, diag.New(diag.DimIndexMismatch, p, "dimIndex range %q is decreasing", raw)
		}

		out := make([]string, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			out = append(out, strconv.Itoa(i))
		}

		return checkLength(out, dim, raw, p)
	}

	if m := alphaRangeRE.FindStringSubmatch(raw); m != nil {
		lo, hi := m[1][0], m[2][0]

		out := make([]string, 0, int(hi-lo)+1)
		for c := lo; c <= hi; c++ {
			out = append(out, string(c))
		}

		return checkLength(out, dim, raw, p)
	}

	tokens := strings.Split(raw, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	return checkLength(tokens, dim, raw, p)
}

// checkDimBounds enforces §4.9's "dim ≥ 1; dimIncrement > 0".
func checkDimBounds(dim *ast.DimGroup, p path.Path) *diag.Diagnostic {
	if dim.Dim < 1 {
		return diag.New(diag.DimIndexMismatch, p, "dim must be >= 1, got %d", dim.Dim)
	}

	if dim.DimIncrement == 0 {
		return diag.New(diag.DimIndexMismatch, p, "dimIncrement must be > 0")
	}

	return nil
}

func checkLength(tokens []string, dim uint, raw string, p path.Path) ([]string, *diag.Diagnostic) {
	if uint(len(tokens)) != dim {
		return nil, diag.New(diag.DimIndexMismatch, p, "dimIndex %q yields %d indices, want %d", raw, len(tokens), dim)
	}

	return tokens, nil
}

// nameForm reports whether name is the array form ("X[%s]"), the
// substitution form ("X%s"), or neither.
func nameForm(name string) (base string, array bool, ok bool) {
	if strings.HasSuffix(name, "[%s]") {
		return name[:len(name)-4], true, true
	}

	if strings.HasSuffix(name, "%s") {
		return name[:len(name)-2], false, true
	}

	return name, false, false
}

func instanceName(base string, array bool, index string) string {
	if array {
		return fmt.Sprintf("%s[%s]", base, index)
	}

	return base + index
}

// expandComponents expands every dim-bearing Register/Cluster in children
// and recurses into clusters so nested dim groups expand too. Non-dim nodes
// pass through unchanged, in source order (§5's ordering guarantee).
func expandComponents(children []ast.Component, bag *diag.Bag) []ast.Component {
	out := make([]ast.Component, 0, len(children))

	for _, c := range children {
		instances := expandOneComponent(c, bag)

		for _, inst := range instances {
			if r, ok := inst.(*ast.Register); ok {
				r.Fields = expandFields(r.Fields, bag)
			}
		}

		out = append(out, instances...)
	}

	return out
}

func expandOneComponent(c ast.Component, bag *diag.Bag) []ast.Component {
	dim := c.DimGroup()
	if dim == nil {
		if cl, ok := c.(*ast.Cluster); ok {
			cl.Children = expandComponents(cl.Children, bag)
		}

		return []ast.Component{c}
	}

	if derr := checkDimBounds(dim, c.Path()); derr != nil {
		bag.Add(derr)

		return nil
	}

	base, array, ok := nameForm(c.ComponentName())
	if !ok {
		bag.Add(diag.New(diag.DimIndexMismatch, c.Path(), "dim group present but name %q is not a dim-template form", c.ComponentName()))

		return []ast.Component{c}
	}

	indices, derr := dimIndices(dim.DimIndex, dim.Dim, c.Path())
	if derr != nil {
		bag.Add(derr)

		return nil
	}

	originalOffset := c.Offset()
	out := make([]ast.Component, 0, len(indices))

	for k, idx := range indices {
		inst := c.Clone()
		inst.SetComponentName(instanceName(base, array, idx))
		inst.SetOffset(originalOffset + uint64(k)*dim.DimIncrement)
		inst.SetDimGroup(nil)

		if cl, ok := inst.(*ast.Cluster); ok {
			cl.Children = expandComponents(cl.Children, bag)
		}

		out = append(out, inst)
	}

	return out
}

// expandPeripherals applies the same expansion to the device's top-level
// peripheral list, where the dim-bearing scalar is baseAddress rather than
// addressOffset.
func expandPeripherals(device *ast.Device, bag *diag.Bag) {
	out := make([]*ast.Peripheral, 0, len(device.Peripherals))

	for _, p := range device.Peripherals {
		if p.Dim_ == nil {
			out = append(out, p)

			continue
		}

		if derr := checkDimBounds(p.Dim_, p.Path()); derr != nil {
			bag.Add(derr)

			continue
		}

		base, array, ok := nameForm(p.Name)
		if !ok {
			bag.Add(diag.New(diag.DimIndexMismatch, p.Path(), "dim group present but name %q is not a dim-template form", p.Name))
			out = append(out, p)

			continue
		}

		indices, derr := dimIndices(p.Dim_.DimIndex, p.Dim_.Dim, p.Path())
		if derr != nil {
			bag.Add(derr)

			continue
		}

		originalBase := p.BaseAddress

		for k, idx := range indices {
			inst := p.Clone()
			inst.Name = instanceName(base, array, idx)
			inst.BaseAddress = originalBase + uint64(k)*p.Dim_.DimIncrement
			inst.Dim_ = nil
			out = append(out, inst)
		}
	}

	device.Peripherals = out

	for _, p := range device.Peripherals {
		p.Children = expandComponents(p.Children, bag)
		applyNameAffixes(p)
	}
}

// applyNameAffixes implements the Open Question (a) resolution: a derived
// peripheral's prependToName/appendToName describe how *that peripheral's*
// register names are formed, so they apply uniformly to every register it
// owns once derivation has made those registers its own — inherited or
// declared directly, dim-expanded or not.
func applyNameAffixes(p *ast.Peripheral) {
	if p.PrependToName == "" && p.AppendToName == "" {
		return
	}

	ast.WalkComponents(p.Children, func(c ast.Component) {
		if r, ok := c.(*ast.Register); ok {
			r.Name = p.PrependToName + r.Name + p.AppendToName
		}
	})
}

// expandFields applies the same expansion to a register's field list.
func expandFields(fields []*ast.Field, bag *diag.Bag) []*ast.Field {
	out := make([]*ast.Field, 0, len(fields))

	for _, f := range fields {
		if f.Dim == nil {
			out = append(out, f)

			continue
		}

		if derr := checkDimBounds(f.Dim, f.Path()); derr != nil {
			bag.Add(derr)

			continue
		}

		base, array, ok := nameForm(f.Name)
		if !ok {
			bag.Add(diag.New(diag.DimIndexMismatch, f.Path(), "dim group present but name %q is not a dim-template form", f.Name))
			out = append(out, f)

			continue
		}

		indices, derr := dimIndices(f.Dim.DimIndex, f.Dim.Dim, f.Path())
		if derr != nil {
			bag.Add(derr)

			continue
		}

		originalLSB := f.LSB
		width := f.MSB - f.LSB

		for k, idx := range indices {
			inst := f.Clone()
			inst.Name = instanceName(base, array, idx)
			inst.LSB = originalLSB + uint(k)*uint(f.Dim.DimIncrement)
			inst.MSB = inst.LSB + width
			inst.Dim = nil
			out = append(out, inst)
		}
	}

	return out
}
