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
)

func TestDimIndexNumericRange(t *testing.T) {
	r := &ast.Register{Name: "CH[%s]", AddressOffset: 0, Dim_: &ast.DimGroup{Dim: 3, DimIncrement: 4, DimIndex: "0-2"}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var names []string
	for _, c := range out.Peripherals[0].Children {
		names = append(names, c.ComponentName())
	}

	assert.ElementsMatch(t, []string{"CH[0]", "CH[1]", "CH[2]"}, names)
}

func TestDimIndexAlphaRange(t *testing.T) {
	r := &ast.Register{Name: "CH%s", AddressOffset: 0, Dim_: &ast.DimGroup{Dim: 3, DimIncrement: 4, DimIndex: "A-C"}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var names []string
	for _, c := range out.Peripherals[0].Children {
		names = append(names, c.ComponentName())
	}

	assert.ElementsMatch(t, []string{"CHA", "CHB", "CHC"}, names)
}

func TestDimIndexCommaList(t *testing.T) {
	r := &ast.Register{Name: "CH%s", AddressOffset: 0, Dim_: &ast.DimGroup{Dim: 2, DimIncrement: 4, DimIndex: "FIRST,SECOND"}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var names []string
	for _, c := range out.Peripherals[0].Children {
		names = append(names, c.ComponentName())
	}

	assert.ElementsMatch(t, []string{"CHFIRST", "CHSECOND"}, names)
}

func TestDimIndexLengthMismatchIsFatal(t *testing.T) {
	r := &ast.Register{Name: "CH%s", AddressOffset: 0, Dim_: &ast.DimGroup{Dim: 3, DimIncrement: 4, DimIndex: "0-1"}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	assert.Nil(t, out)
	require.NotEmpty(t, diags)
	assert.Equal(t, "DimIndexMismatch", string(diags[0].Kind))
}

func TestDimZeroIsRejected(t *testing.T) {
	r := &ast.Register{Name: "CH%s", AddressOffset: 0, Dim_: &ast.DimGroup{Dim: 0, DimIncrement: 4}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	assert.Nil(t, out)
	require.NotEmpty(t, diags)
	assert.Equal(t, "DimIndexMismatch", string(diags[0].Kind))
}

func TestNestedClusterDimExpansion(t *testing.T) {
	inner := &ast.Register{Name: "DATA", AddressOffset: 0x0, Properties_: ast.RegisterProperties{Size: u(32)}}
	cluster := &ast.Cluster{
		Name: "BANK[%s]", AddressOffset: 0x0,
		Dim_:     &ast.DimGroup{Dim: 2, DimIncrement: 0x100},
		Children: []ast.Component{inner},
	}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0x1000, Children: []ast.Component{cluster}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))
	require.Len(t, out.Peripherals[0].Children, 2)

	bank1 := out.Peripherals[0].Children[1].(*ast.Cluster)
	assert.Equal(t, "BANK[1]", bank1.Name)
	assert.Equal(t, uint64(0x100), bank1.AddressOffset)

	data := bank1.Children[0].(*ast.Register)
	assert.Equal(t, uint64(0x1000+0x100), data.AbsoluteAddress)
}

func TestPeripheralNameAffixesApplyToEveryRegister(t *testing.T) {
	inner := &ast.Register{Name: "DATA", AddressOffset: 0x4, Properties_: ast.RegisterProperties{Size: u(32)}}
	cluster := &ast.Cluster{Name: "BANK", AddressOffset: 0x100, Children: []ast.Component{inner}}
	direct := &ast.Register{Name: "CTRL", AddressOffset: 0x0, Properties_: ast.RegisterProperties{Size: u(32)}}

	p := &ast.Peripheral{
		Name: "UART", BaseAddress: 0x1000,
		PrependToName: "UART_", AppendToName: "_REG",
		Children: []ast.Component{direct, cluster},
	}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var names []string
	for _, r := range ast.Registers(out.Peripherals[0].Children) {
		names = append(names, r.Name)
	}

	assert.ElementsMatch(t, []string{"UART_CTRL_REG", "UART_DATA_REG"}, names)

	bank := out.Peripherals[0].Children[1].(*ast.Cluster)
	assert.Equal(t, "BANK", bank.Name, "prependToName/appendToName only affect registers, not cluster names")
}

func TestDerivedPeripheralNameAffixesApplyToInheritedRegisters(t *testing.T) {
	base := &ast.Peripheral{
		Name: "BASE", BaseAddress: 0x1000,
		Children: []ast.Component{regOffset("CTRL", 0, 32)},
	}
	derived := &ast.Peripheral{
		Name: "DERIVED", BaseAddress: 0x2000, DerivedFrom: "BASE",
		PrependToName: "D_",
	}

	out, diags := compiler.Process(device(base, derived), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	var derivedPeripheral *ast.Peripheral
	for _, p := range out.Peripherals {
		if p.Name == "DERIVED" {
			derivedPeripheral = p
		}
	}

	require.NotNil(t, derivedPeripheral)
	require.Len(t, derivedPeripheral.Children, 1)
	assert.Equal(t, "D_CTRL", derivedPeripheral.Children[0].ComponentName())
}
