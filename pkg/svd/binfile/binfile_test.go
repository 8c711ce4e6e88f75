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
package binfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/binfile"
)

func sampleDevice() ast.Device {
	size := uint(32)

	reg := &ast.Register{Name: "CTRL", AddressOffset: 0, Properties_: ast.RegisterProperties{Size: &size}}
	cluster := &ast.Cluster{Name: "BANK", AddressOffset: 0x100, Children: []ast.Component{reg}}
	peripheral := &ast.Peripheral{Name: "UART0", BaseAddress: 0x40000000, Children: []ast.Component{cluster}}

	return ast.Device{Name: "Test", Peripherals: []*ast.Peripheral{peripheral}}
}

func TestRoundTrip(t *testing.T) {
	cf := binfile.NewCacheFile([]byte(`{"source":"test.svd"}`), sampleDevice())

	data, err := cf.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, binfile.IsCacheFile(data))

	var decoded binfile.CacheFile
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, "Test", decoded.Device.Name)
	require.Len(t, decoded.Device.Peripherals, 1)
	assert.Equal(t, "UART0", decoded.Device.Peripherals[0].Name)

	bank := decoded.Device.Peripherals[0].Children[0].(*ast.Cluster)
	assert.Equal(t, "BANK", bank.Name)

	ctrl := bank.Children[0].(*ast.Register)
	assert.Equal(t, "CTRL", ctrl.Name)
	assert.Equal(t, uint(32), *ctrl.Properties_.Size)
}

func TestRejectsIncompatibleMajorVersion(t *testing.T) {
	cf := binfile.NewCacheFile(nil, sampleDevice())
	cf.Header.MajorVersion = binfile.CACHE_MAJOR_VERSION + 1

	data, err := cf.MarshalBinary()
	require.NoError(t, err)

	var decoded binfile.CacheFile
	assert.Error(t, decoded.UnmarshalBinary(data))
}

func TestIsCacheFileRejectsGarbage(t *testing.T) {
	assert.False(t, binfile.IsCacheFile([]byte("not a cache file")))
}
