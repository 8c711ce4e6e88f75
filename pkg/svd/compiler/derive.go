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

import "github.com/ARMify-Project/SVDSuite/pkg/svd/ast"

// resolveDerivations applies the §4.4 overlay in the topological order
// produced by graph.topologicalOrder: the derived node inherits every
// attribute and child of its base, then its own explicit attributes and
// children overlay that inherited content. The base pointer is looked up
// through g.edges/g.nodes rather than passed in, since a base may itself
// have just been derived in an earlier iteration of this same loop.
func resolveDerivations(g *graph, order []derivable) {
	for _, d := range order {
		id := g.index[d.Path().String()]

		baseID, ok := g.edges[id]
		if !ok {
			continue
		}

		base := g.nodes[baseID]

		switch target := d.(type) {
		case *ast.Peripheral:
			overlayPeripheral(target, base.(*ast.Peripheral))
		case *ast.Cluster:
			overlayCluster(target, base.(*ast.Cluster))
		case *ast.Register:
			overlayRegister(target, base.(*ast.Register))
		case *ast.Field:
			overlayField(target, base.(*ast.Field))
		case *ast.EnumeratedValueContainer:
			overlayContainer(target, base.(*ast.EnumeratedValueContainer))
		}

		d.ClearDerivedFrom()
	}
}

func overlayPeripheral(target, base *ast.Peripheral) {
	target.Version = firstNonEmpty(target.Version, base.Version)
	target.Description = firstNonEmpty(target.Description, base.Description)
	target.AlternatePeripheral = firstNonEmpty(target.AlternatePeripheral, base.AlternatePeripheral)
	target.GroupName = firstNonEmpty(target.GroupName, base.GroupName)
	target.PrependToName = firstNonEmpty(target.PrependToName, base.PrependToName)
	target.AppendToName = firstNonEmpty(target.AppendToName, base.AppendToName)
	target.HeaderStructName = firstNonEmpty(target.HeaderStructName, base.HeaderStructName)
	target.DisableCondition = firstNonEmpty(target.DisableCondition, base.DisableCondition)
	target.Properties_ = target.Properties_.Overlay(base.Properties_)

	if target.Dim_ == nil {
		target.Dim_ = base.Dim_.Clone()
	}

	if len(target.AddressBlocks) == 0 {
		target.AddressBlocks = append([]ast.AddressBlock(nil), base.AddressBlocks...)
	}

	target.Interrupts = mergeInterrupts(base.Interrupts, target.Interrupts)
	target.Children = mergeComponents(base.Children, target.Children)
}

func overlayCluster(target, base *ast.Cluster) {
	target.Description = firstNonEmpty(target.Description, base.Description)
	target.AlternateCluster = firstNonEmpty(target.AlternateCluster, base.AlternateCluster)
	target.HeaderStructName = firstNonEmpty(target.HeaderStructName, base.HeaderStructName)
	target.Properties_ = target.Properties_.Overlay(base.Properties_)

	if target.Dim_ == nil {
		target.Dim_ = base.Dim_.Clone()
	}

	target.Children = mergeComponents(base.Children, target.Children)
}

func overlayRegister(target, base *ast.Register) {
	target.DisplayName = firstNonEmpty(target.DisplayName, base.DisplayName)
	target.Description = firstNonEmpty(target.Description, base.Description)
	target.AlternateGroup = firstNonEmpty(target.AlternateGroup, base.AlternateGroup)
	target.AlternateRegister = firstNonEmpty(target.AlternateRegister, base.AlternateRegister)
	target.DataType = firstNonEmpty(target.DataType, base.DataType)
	target.ModifiedWriteValues = firstNonEmpty(target.ModifiedWriteValues, base.ModifiedWriteValues)
	target.WriteConstraint = firstNonEmpty(target.WriteConstraint, base.WriteConstraint)
	target.ReadAction = firstNonEmpty(target.ReadAction, base.ReadAction)
	target.Properties_ = target.Properties_.Overlay(base.Properties_)

	if target.Dim_ == nil {
		target.Dim_ = base.Dim_.Clone()
	}

	target.Fields = mergeFields(base.Fields, target.Fields)
}

func overlayField(target, base *ast.Field) {
	target.Description = firstNonEmpty(target.Description, base.Description)
	target.ModifiedWriteValues = firstNonEmpty(target.ModifiedWriteValues, base.ModifiedWriteValues)
	target.WriteConstraint = firstNonEmpty(target.WriteConstraint, base.WriteConstraint)
	target.ReadAction = firstNonEmpty(target.ReadAction, base.ReadAction)

	if target.Access == nil {
		target.Access = base.Access
	}

	if !target.HasPosition {
		target.LSB, target.MSB, target.BitWidthOmitted, target.HasPosition = base.LSB, base.MSB, base.BitWidthOmitted, base.HasPosition
	}

	if target.Dim == nil {
		target.Dim = base.Dim.Clone()
	}

	target.Containers = mergeContainers(base.Containers, target.Containers)
}

func overlayContainer(target, base *ast.EnumeratedValueContainer) {
	target.Name = firstNonEmpty(target.Name, base.Name)
	target.HeaderEnumName = firstNonEmpty(target.HeaderEnumName, base.HeaderEnumName)

	if target.Usage == "" {
		target.Usage = base.Usage
	}

	target.Values = mergeValues(base.Values, target.Values)
}

func firstNonEmpty(own, inherited string) string {
	if own != "" {
		return own
	}

	return inherited
}

// mergeComponents implements §4.4's child-list overlay: a deep copy of
// base's children, with each own child replacing its same-named inherited
// counterpart in place, and new names appended in source order.
func mergeComponents(base, own []ast.Component) []ast.Component {
	merged := make([]ast.Component, len(base))
	index := map[string]int{}

	for i, c := range base {
		merged[i] = c.Clone()
		index[c.ComponentName()] = i
	}

	for _, c := range own {
		if i, ok := index[c.ComponentName()]; ok {
			merged[i] = c

			continue
		}

		merged = append(merged, c)
		index[c.ComponentName()] = len(merged) - 1
	}

	return merged
}

func mergeFields(base, own []*ast.Field) []*ast.Field {
	merged := make([]*ast.Field, len(base))
	index := map[string]int{}

	for i, f := range base {
		merged[i] = f.Clone()
		index[f.Name] = i
	}

	for _, f := range own {
		if i, ok := index[f.Name]; ok {
			merged[i] = f

			continue
		}

		merged = append(merged, f)
		index[f.Name] = len(merged) - 1
	}

	return merged
}

func mergeContainers(base, own []*ast.EnumeratedValueContainer) []*ast.EnumeratedValueContainer {
	merged := make([]*ast.EnumeratedValueContainer, len(base))
	index := map[string]int{}

	for i, c := range base {
		merged[i] = c.Clone()
		index[string(c.EffectiveUsage())] = i
	}

	for _, c := range own {
		key := string(c.EffectiveUsage())
		if i, ok := index[key]; ok {
			merged[i] = c

			continue
		}

		merged = append(merged, c)
		index[key] = len(merged) - 1
	}

	return merged
}

func mergeValues(base, own []*ast.EnumeratedValue) []*ast.EnumeratedValue {
	merged := make([]*ast.EnumeratedValue, len(base))
	index := map[string]int{}

	for i, v := range base {
		merged[i] = v.Clone()
		index[v.Name] = i
	}

	for _, v := range own {
		if i, ok := index[v.Name]; ok {
			merged[i] = v

			continue
		}

		merged = append(merged, v)
		index[v.Name] = len(merged) - 1
	}

	return merged
}

func mergeInterrupts(base, own []ast.Interrupt) []ast.Interrupt {
	merged := append([]ast.Interrupt(nil), base...)
	index := map[string]int{}

	for i, ir := range base {
		index[ir.Name] = i
	}

	for _, ir := range own {
		if i, ok := index[ir.Name]; ok {
			merged[i] = ir

			continue
		}

		merged = append(merged, ir)
		index[ir.Name] = len(merged) - 1
	}

	return merged
}
