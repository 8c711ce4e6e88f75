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
	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

// restampPaths recomputes every node's Path after dimension expansion has
// replaced dim-template names with concrete sibling names; every diagnostic
// from propagation onward refers to these post-expansion paths rather than
// the pre-expansion ones used by scope resolution (§4.2's "canonical
// pre-expansion path" is only meaningful up through §4.4).
func restampPaths(device *ast.Device) {
	root := path.Path{}

	for _, p := range device.Peripherals {
		restampPeripheral(root, p)
	}
}

func restampPeripheral(parent path.Path, p *ast.Peripheral) {
	seg, _ := path.ParseSegment(p.Name)
	own := parent.Append(seg)
	p.SetPath(own)
	restampComponents(own, p.Children)
}

func restampComponents(parent path.Path, children []ast.Component) {
	for _, c := range children {
		switch v := c.(type) {
		case *ast.Register:
			seg, _ := path.ParseSegment(v.Name)
			own := parent.Append(seg)
			v.SetPath(own)

			for _, f := range v.Fields {
				restampField(own, f)
			}
		case *ast.Cluster:
			seg, _ := path.ParseSegment(v.Name)
			own := parent.Append(seg)
			v.SetPath(own)
			restampComponents(own, v.Children)
		}
	}
}

func restampField(parent path.Path, f *ast.Field) {
	seg, _ := path.ParseSegment(f.Name)
	own := parent.Append(seg)
	f.SetPath(own)

	for _, c := range f.Containers {
		name := c.Name
		if name == "" {
			name = "$" + string(c.EffectiveUsage())
		}

		cseg, _ := path.ParseSegment(name)
		c.SetPath(own.Append(cseg))
	}
}
