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
	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

// defaultRegisterSize is the fallback register width used by every
// structural check below when Properties_.Size is still nil after
// propagation (which itself indicates a device missing a size anywhere in
// its ancestor chain, a malformed-input case propagation cannot repair).
// All three checks share this single fallback so such a device is
// validated consistently rather than against a different assumed width
// depending on which check happens to run.
const defaultRegisterSize = 32

func registerSize(r *ast.Register) uint64 {
	if r.Properties_.Size != nil {
		return uint64(*r.Properties_.Size)
	}

	return defaultRegisterSize
}

// validate runs every §4.9 structural check over the fully propagated,
// address-resolved tree.
func validate(device *ast.Device, bag *diag.Bag) {
	validateNames(device.Peripherals, func(p *ast.Peripheral) string { return p.Name }, func(p *ast.Peripheral) path.Path { return p.Path() }, bag)
	validateOverlapsPath(peripheralRanges(device.Peripherals), bag)

	for _, p := range device.Peripherals {
		validateComponents(p.Children, bag)
		validateAddressBlocks(p, bag)
	}

	if device.CPU != nil {
		validateCPU(device.CPU, bag)
	}
}

func peripheralRanges(peripherals []*ast.Peripheral) []overlapCandidate {
	out := make([]overlapCandidate, len(peripherals))
	for i, p := range peripherals {
		out[i] = overlapCandidate{name: p.Name, alternate: p.AlternatePeripheral, lo: p.BaseAddress, hi: p.BaseAddress, path: p.Path()}
	}

	return out
}

type overlapCandidate struct {
	name, alternate string
	lo, hi          uint64
	path            path.Path
}

func validateNames[T any](items []T, name func(T) string, nodePath func(T) path.Path, bag *diag.Bag) {
	seen := map[string]bool{}

	for _, it := range items {
		n := name(it)
		if seen[n] {
			bag.Add(diag.New(diag.DuplicateName, nodePath(it), "duplicate name %q", n))

			continue
		}

		seen[n] = true
	}
}

func validateComponents(children []ast.Component, bag *diag.Bag) {
	names := map[string]bool{}

	registerRanges := make([]overlapCandidate, 0, len(children))
	clusterRanges := make([]overlapCandidate, 0, len(children))

	for _, c := range children {
		n := c.ComponentName()
		if names[n] {
			bag.Add(diag.New(diag.DuplicateName, c.Path(), "duplicate name %q", n))
		}

		names[n] = true

		switch v := c.(type) {
		case *ast.Register:
			size := registerSize(v)

			registerRanges = append(registerRanges, overlapCandidate{
				name: v.Name, alternate: v.AlternateRegister,
				lo: v.AddressOffset, hi: v.AddressOffset + size/8 - 1, path: v.Path(),
			})

			validateFields(v, bag)
		case *ast.Cluster:
			clusterRanges = append(clusterRanges, overlapCandidate{
				name: v.Name, alternate: v.AlternateCluster,
				lo: v.AddressOffset, hi: v.AddressOffset, path: v.Path(),
			})

			validateComponents(v.Children, bag)
		}
	}

	validateOverlapsPath(registerRanges, bag)
	validateOverlapsPath(clusterRanges, bag)
}

// validateOverlapsPath reports AddressOverlap for any pair of siblings whose
// ranges overlap without one naming the other as its alternate (§3's "two
// sibling X overlap only if one names the other").
func validateOverlapsPath(items []overlapCandidate, bag *diag.Bag) {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.hi < b.lo || b.hi < a.lo {
				continue
			}

			if a.alternate == b.name || b.alternate == a.name {
				continue
			}

			bag.Add(diag.New(diag.AddressOverlap, a.path, "overlaps %q (%s)", b.name, b.path.String()))
		}
	}
}

func validateFields(r *ast.Register, bag *diag.Bag) {
	size := uint(registerSize(r))

	type bitRange struct {
		lo, hi uint
		name   string
	}

	var ranges []bitRange

	for _, f := range r.Fields {
		if f.MSB >= size {
			bag.Add(diag.New(diag.FieldOutOfRange, f.Path(), "field %q bit range [%d:%d] exceeds register width %d", f.Name, f.MSB, f.LSB, size))

			continue
		}

		for _, rg := range ranges {
			if f.LSB <= rg.hi && rg.lo <= f.MSB {
				bag.Add(diag.New(diag.InvalidBitRange, f.Path(), "field %q overlaps field %q", f.Name, rg.name))
			}
		}

		ranges = append(ranges, bitRange{lo: f.LSB, hi: f.MSB, name: f.Name})
	}
}

func validateAddressBlocks(p *ast.Peripheral, bag *diag.Bag) {
	hasRegistersBlock := false

	for _, ab := range p.AddressBlocks {
		if ab.Usage == ast.AddressBlockRegisters {
			hasRegistersBlock = true
		}
	}

	for _, r := range ast.Registers(p.Children) {
		size := registerSize(r)

		within := false

		for _, ab := range p.AddressBlocks {
			if ab.Usage != ast.AddressBlockRegisters {
				continue
			}

			if r.AddressOffset >= ab.Offset && r.AddressOffset+size/8 <= ab.Offset+ab.Size {
				within = true

				break
			}
		}

		if hasRegistersBlock && !within {
			bag.Add(diag.New(diag.AddressBlockViolation, r.Path(), "register %q does not lie within any registers address block", r.Name))
		}
	}

	for _, ab := range p.AddressBlocks {
		if ab.Usage != ast.AddressBlockReserved {
			continue
		}

		for _, r := range ast.Registers(p.Children) {
			if r.AddressOffset >= ab.Offset && r.AddressOffset < ab.Offset+ab.Size {
				bag.Add(diag.Warningf(diag.AddressBlockViolation, r.Path(), "register %q lies within a reserved address block", r.Name))
			}
		}
	}
}

func validateCPU(cpu *ast.CPU, bag *diag.Bag) {
	cpuPath := cpuNodePath()

	if cpu.NVICPrioBits < 2 || cpu.NVICPrioBits > 8 {
		bag.Add(diag.New(diag.CPUFieldOutOfRange, cpuPath, "nvicPrioBits must be in [2,8], got %d", cpu.NVICPrioBits))
	}

	if cpu.SAURegionsConfig == nil {
		return
	}

	for _, r := range cpu.SAURegionsConfig.Regions {
		if r.Base > r.Limit {
			bag.Add(diag.New(diag.SAURegionInvalid, sauRegionNodePath(cpuPath, r.Name), "SAU region %q has base %#x > limit %#x", r.Name, r.Base, r.Limit))
		}
	}
}

// cpuNodePath returns the synthetic path diagnostics attach to for the
// device's single CPU descriptor, which (unlike Register/Cluster/Peripheral)
// has no Path() of its own.
func cpuNodePath() path.Path {
	seg, _ := path.ParseSegment("cpu")

	return path.Path{}.Append(seg)
}

func sauRegionNodePath(cpuPath path.Path, name string) path.Path {
	if name == "" {
		name = "$sauRegion"
	}

	seg, err := path.ParseSegment(name)
	if err != nil {
		seg, _ = path.ParseSegment("$sauRegion")
	}

	return cpuPath.Append(seg)
}
