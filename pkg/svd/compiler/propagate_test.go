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

func TestAccessNarrowsButNeverWidens(t *testing.T) {
	readOnly := ast.AccessReadOnly
	readWrite := ast.AccessReadWrite

	r := &ast.Register{
		Name: "R", AddressOffset: 0,
		Properties_: ast.RegisterProperties{Size: u(32), Access: &readOnly},
	}

	f := &ast.Field{Name: "F", LSB: 0, MSB: 3, HasPosition: true, Access: &readWrite}
	r.Fields = []*ast.Field{f}

	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	field := out.Peripherals[0].Children[0].(*ast.Register).Fields[0]
	require.NotNil(t, field.Access)
	assert.Equal(t, ast.AccessReadOnly, *field.Access, "a field cannot widen a register's narrower access back to read-write")
}

func TestProtectionStrictestWins(t *testing.T) {
	secure := ast.ProtectionSecure
	nonSecure := ast.ProtectionNonSecure

	r := &ast.Register{
		Name: "R", AddressOffset: 0,
		Properties_: ast.RegisterProperties{Size: u(32), Protection: &nonSecure},
	}
	p := &ast.Peripheral{
		Name: "P", BaseAddress: 0,
		Properties_: ast.RegisterProperties{Protection: &secure},
		Children:    []ast.Component{r},
	}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	reg := out.Peripherals[0].Children[0].(*ast.Register)
	require.NotNil(t, reg.Properties_.Protection)
	assert.Equal(t, ast.ProtectionSecure, *reg.Properties_.Protection)
}

func TestBitWidthOmittedDefaultsToRegisterSize(t *testing.T) {
	f := &ast.Field{Name: "F", LSB: 0, BitWidthOmitted: true, HasPosition: true}
	r := &ast.Register{Name: "R", AddressOffset: 0, Properties_: ast.RegisterProperties{Size: u(16)}, Fields: []*ast.Field{f}}
	p := &ast.Peripheral{Name: "P", BaseAddress: 0, Children: []ast.Component{r}}

	out, diags := compiler.Process(device(p), compiler.DefaultConfig())
	require.Empty(t, filterFatal(diags))

	field := out.Peripherals[0].Children[0].(*ast.Register).Fields[0]
	assert.Equal(t, uint(15), field.MSB)
	assert.False(t, field.BitWidthOmitted)
}
