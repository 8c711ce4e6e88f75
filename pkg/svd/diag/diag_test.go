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
package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

func TestBagHasFatal(t *testing.T) {
	var bag diag.Bag
	assert.False(t, bag.HasFatal())

	p, _ := path.Parse("Peripheral.Register")
	bag.Add(diag.Warningf(diag.DuplicateEnumValue, p, "value %d repeated", 3))
	assert.False(t, bag.HasFatal())

	bag.Add(diag.New(diag.AddressOverlap, p, "overlaps with sibling"))
	assert.True(t, bag.HasFatal())
	assert.Len(t, bag.All(), 2)
}

func TestWarningfPanicsOnFatalKind(t *testing.T) {
	p, _ := path.Parse("A")
	assert.Panics(t, func() {
		diag.Warningf(diag.CircularInheritance, p, "boom")
	})
}

func TestDiagnosticError(t *testing.T) {
	p, _ := path.Parse("A.B")
	d := diag.New(diag.DuplicateName, p, "name %q reused", "B")
	assert.Contains(t, d.Error(), "DuplicateName")
	assert.Contains(t, d.Error(), "A.B")
}
