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
package ast

// WalkComponents visits every Component in a child list depth-first,
// descending into Cluster children. visit is called on the way down.
func WalkComponents(children []Component, visit func(Component)) {
	for _, c := range children {
		visit(c)

		if cl, ok := c.(*Cluster); ok {
			WalkComponents(cl.Children, visit)
		}
	}
}

// WalkPeripherals visits every peripheral in a device.
func WalkPeripherals(d *Device, visit func(*Peripheral)) {
	for _, p := range d.Peripherals {
		visit(p)
	}
}

// Registers returns every *Register reachable under a child list, including
// those nested inside clusters.
func Registers(children []Component) []*Register {
	var out []*Register

	WalkComponents(children, func(c Component) {
		if r, ok := c.(*Register); ok {
			out = append(out, r)
		}
	})

	return out
}
