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
package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/compiler"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
)

func u(v uint) *uint       { return &v }
func u64(v uint64) *uint64 { return &v }

func regOffset(name string, offset uint64, size uint, fields ...*ast.Field) *ast.Register {
	return &ast.Register{Name: name, AddressOffset: offset, Properties_: ast.RegisterProperties{Size: u(size)}, Fields: fields}
}

func device(peripherals ...*ast.Peripheral) *ast.Device {
	return &ast.Device{Name: "Test", Properties_: ast.RegisterProperties{Size: u(32), Access: accessPtr(ast.AccessReadWrite)}, Peripherals: peripherals}
}

func accessPtr(a ast.Access) *ast.Access { return &a }

func TestSimpleRegisterDerivation(t *testing.T) {
	base := regOffset("CTRL", 0x0, 32)
	derived := &ast.Register{Name: "STATUS", AddressOffset: 0x4, DerivedFrom: "CTRL"}

	p := &ast.Peripheral{Name: "UART0", BaseAddress: 0x40000000, Children: []ast.Component{base, derived}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))
	require.NotNil(t, out)

	status := out.Peripherals[0].Children[1].(*ast.Register)
	assert.Equal(t, uint(32), *status.Properties_.Size)
	assert.Equal(t, "STATUS", status.Name)
	assert.Equal(t, uint64(0x4), status.AddressOffset)
}

func TestMultiStepBackwardReference(t *testing.T) {
	a := regOffset("A", 0x0, 16)
	b := &ast.Register{Name: "B", AddressOffset: 0x4, DerivedFrom: "A"}
	c := &ast.Register{Name: "C", AddressOffset: 0x8, DerivedFrom: "B"}

	p := &ast.Peripheral{Name: "P", BaseAddress: 0x1000, Children: []ast.Component{a, b, c}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	cc := out.Peripherals[0].Children[2].(*ast.Register)
	assert.Equal(t, uint(16), *cc.Properties_.Size)
}

func TestForwardReferenceSameScope(t *testing.T) {
	derived := &ast.Register{Name: "EARLY", AddressOffset: 0x0, DerivedFrom: "LATE"}
	base := regOffset("LATE", 0x4, 8)

	p := &ast.Peripheral{Name: "P", BaseAddress: 0x2000, Children: []ast.Component{derived, base}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	early := out.Peripherals[0].Children[0].(*ast.Register)
	assert.Equal(t, uint(8), *early.Properties_.Size)
}

func TestCircularPeripheralsRejected(t *testing.T) {
	p1 := &ast.Peripheral{Name: "P1", BaseAddress: 0x0, DerivedFrom: "P2"}
	p2 := &ast.Peripheral{Name: "P2", BaseAddress: 0x1000, DerivedFrom: "P1"}

	out, diags := compiler.Process(device(p1, p2), compiler.DefaultConfig())
	assert.Nil(t, out)
	require.NotEmpty(t, diags)
	assert.Equal(t, "CircularInheritance", string(diags[0].Kind))
}

func TestDimArrayExpansionWithDeepDerivation(t *testing.T) {
	base := regOffset("BASE", 0x0, 32)
	tmpl := &ast.Register{
		Name: "CH%s", AddressOffset: 0x10,
		Dim_:        &ast.DimGroup{Dim: 3, DimIncrement: 0x4},
		DerivedFrom: "BASE",
	}

	p := &ast.Peripheral{Name: "DMA", BaseAddress: 0x40010000, Children: []ast.Component{base, tmpl}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var names []string

	for _, c := range out.Peripherals[0].Children {
		names = append(names, c.ComponentName())
	}

	assert.Contains(t, names, "CH0")
	assert.Contains(t, names, "CH1")
	assert.Contains(t, names, "CH2")

	for _, c := range out.Peripherals[0].Children {
		if c.ComponentName() == "CH1" {
			r := c.(*ast.Register)
			assert.Equal(t, uint64(0x14), r.AddressOffset)
			assert.Equal(t, uint(32), *r.Properties_.Size)
			assert.Equal(t, uint64(0x40010014), r.AbsoluteAddress)
		}
	}
}

func TestEnumeratedDefaultExpansion(t *testing.T) {
	two := u64(2)
	field := &ast.Field{
		Name: "MODE", LSB: 0, MSB: 1, HasPosition: true,
		Containers: []*ast.EnumeratedValueContainer{{
			Values: []*ast.EnumeratedValue{
				{Name: "Name_2", Value: two},
				{Name: "default", IsDefault: true},
			},
		}},
	}

	reg := &ast.Register{Name: "CTRL", AddressOffset: 0x0, Properties_: ast.RegisterProperties{Size: u(32)}, Fields: []*ast.Field{field}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0x0, Children: []ast.Component{reg}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	values := out.Peripherals[0].Children[0].(*ast.Register).Fields[0].Containers[0].Values
	byValue := map[uint64]string{}

	for _, v := range values {
		byValue[*v.Value] = v.Name
	}

	assert.Equal(t, map[uint64]string{0: "default", 1: "default", 2: "Name_2", 3: "default"}, byValue)
	assert.True(t, out.Peripherals[0].Children[0].(*ast.Register).Fields[0].Containers[0].Complete)
}

func TestOverrideWithAlternates(t *testing.T) {
	a := regOffset("MODE_A", 0x0, 32)
	b := &ast.Register{Name: "MODE_B", AddressOffset: 0x0, AlternateRegister: "MODE_A", Properties_: ast.RegisterProperties{Size: u(32)}}

	p := &ast.Peripheral{Name: "P", BaseAddress: 0x0, Children: []ast.Component{a, b}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))
	assert.Len(t, out.Peripherals[0].Children, 2)
}

func TestAddressOverlapWithoutAlternateIsRejected(t *testing.T) {
	a := regOffset("A", 0x0, 32)
	b := regOffset("B", 0x0, 32)

	p := &ast.Peripheral{Name: "P", BaseAddress: 0x0, Children: []ast.Component{a, b}}

	_, diags := compiler.Process(device(p), compiler.DefaultConfig())

	var found bool

	for _, d := range diags {
		if string(d.Kind) == "AddressOverlap" {
			found = true
		}
	}

	assert.True(t, found)
}

func TestCollectAndContinueMarksPartial(t *testing.T) {
	a := regOffset("A", 0x0, 32)
	b := regOffset("B", 0x0, 32)

	p := &ast.Peripheral{Name: "P", BaseAddress: 0x0, Children: []ast.Component{a, b}}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	out, diags := compiler.Process(device(p), cfg)
	require.NotNil(t, out)
	assert.True(t, out.Partial)
	assert.NotEmpty(t, diags)
}

func filterFatal(diags []*diag.Diagnostic) []*diag.Diagnostic {
	var out []*diag.Diagnostic

	for _, d := range diags {
		if !d.Warning {
			out = append(out, d)
		}
	}

	return out
}
