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

func hasKind(diags []*diag.Diagnostic, kind diag.Kind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}

	return false
}

func findKind(diags []*diag.Diagnostic, kind diag.Kind) *diag.Diagnostic {
	for _, d := range diags {
		if d.Kind == kind {
			return d
		}
	}

	return nil
}

func TestFieldOutOfRangeIsFatal(t *testing.T) {
	f := &ast.Field{Name: "X", LSB: 30, MSB: 35, HasPosition: true}
	r := &ast.Register{Name: "R", AddressOffset: 0, Properties_: ast.RegisterProperties{Size: u(32)}, Fields: []*ast.Field{f}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	out, diags := compiler.Process(device(p), cfg)
	require.NotNil(t, out)
	assert.True(t, hasKind(diags, diag.FieldOutOfRange))
}

func TestOverlappingFieldsIsFatal(t *testing.T) {
	a := &ast.Field{Name: "A", LSB: 0, MSB: 7, HasPosition: true}
	b := &ast.Field{Name: "B", LSB: 4, MSB: 11, HasPosition: true}
	r := &ast.Register{Name: "R", AddressOffset: 0, Properties_: ast.RegisterProperties{Size: u(32)}, Fields: []*ast.Field{a, b}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(device(p), cfg)
	assert.True(t, hasKind(diags, diag.InvalidBitRange))
}

func TestAddressBlockViolation(t *testing.T) {
	r := &ast.Register{Name: "R", AddressOffset: 0x100, Properties_: ast.RegisterProperties{Size: u(32)}}
	p := &ast.Peripheral{
		Name: "P", BaseAddress: 0,
		AddressBlocks: []ast.AddressBlock{{Offset: 0, Size: 0x10, Usage: ast.AddressBlockRegisters}},
		Children:      []ast.Component{r},
	}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(device(p), cfg)
	assert.True(t, hasKind(diags, diag.AddressBlockViolation))
}

func TestDuplicateNameIsFatal(t *testing.T) {
	a := &ast.Register{Name: "SAME", AddressOffset: 0, Properties_: ast.RegisterProperties{Size: u(32)}}
	b := &ast.Register{Name: "SAME", AddressOffset: 0x100, Properties_: ast.RegisterProperties{Size: u(32)}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{a, b}}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(device(p), cfg)
	assert.True(t, hasKind(diags, diag.DuplicateName))
}

func TestDuplicatePeripheralNameCarriesPath(t *testing.T) {
	a := &ast.Peripheral{Name: "ADC1", BaseAddress: 0}
	b := &ast.Peripheral{Name: "ADC1", BaseAddress: 0x1000}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(device(a, b), cfg)

	d := findKind(diags, diag.DuplicateName)
	require.NotNil(t, d)
	assert.NotEmpty(t, d.Path.String())
	assert.Contains(t, d.Error(), "ADC1")
}

func TestOverlappingPeripheralsWithoutAlternateCarriesPath(t *testing.T) {
	a := &ast.Peripheral{Name: "ADC1", BaseAddress: 0}
	b := &ast.Peripheral{Name: "ADC2", BaseAddress: 0}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(device(a, b), cfg)

	d := findKind(diags, diag.AddressOverlap)
	require.NotNil(t, d)
	assert.NotEmpty(t, d.Path.String())
}

func TestCPUFieldOutOfRange(t *testing.T) {
	p := &ast.Peripheral{Name: "P", BaseAddress: 0}
	d := device(p)
	d.CPU = &ast.CPU{Name: ast.CPUCM4, NVICPrioBits: 1}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(d, cfg)

	found := findKind(diags, diag.CPUFieldOutOfRange)
	require.NotNil(t, found)
	assert.NotEmpty(t, found.Path.String())
}

func TestSAURegionInvalid(t *testing.T) {
	p := &ast.Peripheral{Name: "P", BaseAddress: 0}
	d := device(p)
	d.CPU = &ast.CPU{
		Name: ast.CPUCM33, NVICPrioBits: 4,
		SAURegionsConfig: &ast.SAUConfig{Enabled: true, Regions: []ast.SAURegion{{Name: "R0", Base: 0x1000, Limit: 0x100}}},
	}

	cfg := compiler.DefaultConfig()
	cfg.FailFast = false

	_, diags := compiler.Process(d, cfg)
	assert.True(t, hasKind(diags, diag.SAURegionInvalid))
}
