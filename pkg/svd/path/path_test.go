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
package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

func TestParseSimple(t *testing.T) {
	p, err := path.Parse("Peripheral.Cluster.Register.Field")
	assert.NoError(t, err)
	assert.Equal(t, 4, p.Depth())
	assert.False(t, p.Absolute)
	assert.Equal(t, "Field", p.Tail().Name)
}

func TestParseIndexed(t *testing.T) {
	p, err := path.Parse("Timer[0].Control")
	assert.NoError(t, err)
	assert.Equal(t, "Timer", p.Head().Name)
	assert.Equal(t, 0, p.Head().Index)
	assert.True(t, p.Head().HasIndex())
}

func TestParseTemplateForms(t *testing.T) {
	bracket, err := path.Parse("Timer[%s]")
	assert.NoError(t, err)
	assert.True(t, bracket.Head().Template)
	assert.True(t, bracket.Head().Bracket)
	assert.Equal(t, "Timer", bracket.Head().Name)

	subst, err := path.Parse("Timer%s")
	assert.NoError(t, err)
	assert.True(t, subst.Head().Template)
	assert.False(t, subst.Head().Bracket)
	assert.Equal(t, "Timer", subst.Head().Name)
}

func TestTemplateMatchesConcrete(t *testing.T) {
	template, err := path.Parse("Timer[%s]")
	assert.NoError(t, err)
	concrete, err := path.Parse("Timer[0]")
	assert.NoError(t, err)

	assert.True(t, template.Matches(concrete))

	other, err := path.Parse("Timer[1]")
	assert.NoError(t, err)
	assert.True(t, template.Matches(other))

	wrong, err := path.Parse("Other[0]")
	assert.NoError(t, err)
	assert.False(t, template.Matches(wrong))
}

func TestPrefixOf(t *testing.T) {
	parent, _ := path.Parse("Peripheral.Cluster")
	child, _ := path.Parse("Peripheral.Cluster.Register")
	assert.True(t, parent.PrefixOf(child))
	assert.False(t, child.PrefixOf(parent))
}

func TestDeheadAndAppend(t *testing.T) {
	p, _ := path.Parse("Peripheral.Cluster.Register")
	tail := p.Dehead()
	assert.Equal(t, 2, tail.Depth())
	assert.Equal(t, "Cluster", tail.Head().Name)

	full := p.Parent().Append(path.Segment{Name: "Other", Index: -1})
	assert.Equal(t, "Peripheral.Cluster.Other", full.String())
}

func TestMalformedSegment(t *testing.T) {
	_, err := path.Parse("Timer[abc]")
	assert.Error(t, err)

	_, err = path.Parse("Timer[0")
	assert.Error(t, err)
}

func TestRoundTripString(t *testing.T) {
	for _, s := range []string{"A.B.C", "Timer[0].Control", "Timer[%s]", "Timer%s"} {
		p, err := path.Parse(s)
		assert.NoError(t, err)
		assert.Equal(t, s, p.String())
	}
}
