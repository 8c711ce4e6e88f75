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

// propagateDevice pushes the §4.6 inheritable property group down the fully
// expanded tree: device -> peripheral -> cluster(s) -> register -> field.
// The record carried at each recursive step is immutable from the parent's
// perspective (§9) - mergeProperties always returns a new value, never
// mutates its arguments.
func propagateDevice(device *ast.Device) {
	for _, p := range device.Peripherals {
		p.Properties_ = mergeProperties(device.Properties_, p.Properties_)
		propagateComponents(p.Properties_, p.Children)
	}
}

func propagateComponents(parent ast.RegisterProperties, children []ast.Component) {
	for _, c := range children {
		switch v := c.(type) {
		case *ast.Cluster:
			v.Properties_ = mergeProperties(parent, v.Properties_)
			propagateComponents(v.Properties_, v.Children)
		case *ast.Register:
			v.Properties_ = mergeProperties(parent, v.Properties_)
			propagateFields(v.Properties_, v)
		}
	}
}

func propagateFields(registerProps ast.RegisterProperties, r *ast.Register) {
	size := registerProps.Size

	for _, f := range r.Fields {
		fieldProps := ast.RegisterProperties{Access: f.Access}
		merged := mergeProperties(registerProps, fieldProps)
		f.Access = merged.Access

		if f.BitWidthOmitted && size != nil {
			f.MSB = *size - 1
			f.BitWidthOmitted = false
		}
	}
}

// mergeProperties merges a child's own (possibly partial) property set onto
// its parent's already-fully-merged set.
func mergeProperties(parent, own ast.RegisterProperties) ast.RegisterProperties {
	out := own.Clone()

	if out.Size == nil {
		out.Size = parent.Clone().Size
	}

	if out.ResetValue == nil {
		out.ResetValue = parent.Clone().ResetValue
	}

	if out.ResetMask == nil {
		out.ResetMask = parent.Clone().ResetMask
	}

	out.Protection = mergeProtection(parent.Protection, out.Protection)
	out.Access = mergeAccess(parent.Access, out.Access)

	return out
}

// mergeProtection applies §4.6's strictest-wins rule.
func mergeProtection(parent, own *ast.Protection) *ast.Protection {
	switch {
	case own == nil:
		return clonePtr(parent)
	case parent == nil:
		return clonePtr(own)
	case own.Stricter(*parent):
		return clonePtr(own)
	default:
		return clonePtr(parent)
	}
}

// mergeAccess resolves Open Question (b): a child may narrow an ancestor's
// read-write to read-only/write-only, but may never widen a narrower
// ancestor access back to read-write.
func mergeAccess(parent, own *ast.Access) *ast.Access {
	if parent == nil {
		return clonePtr(own)
	}

	if own == nil {
		return clonePtr(parent)
	}

	if *parent == ast.AccessReadWrite {
		return clonePtr(own)
	}

	if *own == ast.AccessReadWrite {
		// own would widen a narrower ancestor; the ancestor wins.
		return clonePtr(parent)
	}

	return clonePtr(own)
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}

	out := *v

	return &out
}
