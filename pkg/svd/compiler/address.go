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

// resolveAddresses computes §4.8's absolute address for every register:
// peripheral.baseAddress plus every enclosing cluster's addressOffset,
// nested additively, plus the register's own addressOffset.
func resolveAddresses(device *ast.Device) {
	for _, p := range device.Peripherals {
		resolveComponentAddresses(p.BaseAddress, p.Children)
	}
}

func resolveComponentAddresses(base uint64, children []ast.Component) {
	for _, c := range children {
		switch v := c.(type) {
		case *ast.Register:
			v.AbsoluteAddress = base + v.AddressOffset
		case *ast.Cluster:
			resolveComponentAddresses(base+v.AddressOffset, v.Children)
		}
	}
}
