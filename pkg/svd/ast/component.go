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

import (
	"encoding/json"
	"fmt"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

// Component is the common trait shared by Register and Cluster (§9):
// registers and clusters are siblings in the IR and are processed
// identically by derivation and dimension expansion, differing only in
// their own kind-specific fields.
type Component interface {
	Kind() Kind
	Path() path.Path
	SetPath(path.Path)
	ComponentName() string
	SetComponentName(string)
	Offset() uint64
	SetOffset(uint64)
	DimGroup() *DimGroup
	SetDimGroup(*DimGroup)
	Properties() RegisterProperties
	SetProperties(RegisterProperties)
	DerivedFromRef() string
	ClearDerivedFrom() string
	Clone() Component
}

// Register models §3's Register entity.
type Register struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`

	AddressOffset uint64 `json:"addressOffset"`

	AlternateGroup    string `json:"alternateGroup,omitempty"`
	AlternateRegister string `json:"alternateRegister,omitempty"`

	DataType            string `json:"dataType,omitempty"`
	ModifiedWriteValues string `json:"modifiedWriteValues,omitempty"`
	WriteConstraint     string `json:"writeConstraint,omitempty"`
	ReadAction          string `json:"readAction,omitempty"`

	Properties_ RegisterProperties `json:"registerProperties,omitempty"`

	Dim_ *DimGroup `json:"dim,omitempty"`

	Fields []*Field `json:"fields,omitempty"`

	DerivedFrom string `json:"derivedFrom,omitempty"`

	// AbsoluteAddress is filled in by the address resolver (§4.8).
	AbsoluteAddress uint64 `json:"absoluteAddress,omitempty"`

	path_ path.Path
}

func (r *Register) Kind() Kind                            { return KindRegister }
func (r *Register) Path() path.Path                        { return r.path_ }
func (r *Register) SetPath(p path.Path)                     { r.path_ = p }
func (r *Register) ComponentName() string                  { return r.Name }
func (r *Register) SetComponentName(n string)               { r.Name = n }
func (r *Register) Offset() uint64                          { return r.AddressOffset }
func (r *Register) SetOffset(o uint64)                      { r.AddressOffset = o }
func (r *Register) DimGroup() *DimGroup                     { return r.Dim_ }
func (r *Register) SetDimGroup(d *DimGroup)                 { r.Dim_ = d }
func (r *Register) Properties() RegisterProperties          { return r.Properties_ }
func (r *Register) SetProperties(p RegisterProperties)       { r.Properties_ = p }
func (r *Register) DerivedFromRef() string                  { return r.DerivedFrom }

func (r *Register) ClearDerivedFrom() string {
	ref := r.DerivedFrom
	r.DerivedFrom = ""

	return ref
}

// Clone returns a deep copy implementing Component.
func (r *Register) Clone() Component {
	if r == nil {
		return (*Register)(nil)
	}

	out := *r
	out.Properties_ = r.Properties_.Clone()
	out.Dim_ = r.Dim_.Clone()
	out.Fields = make([]*Field, len(r.Fields))

	for i, f := range r.Fields {
		out.Fields[i] = f.Clone()
	}

	return &out
}

// componentEnvelope carries the "type" discriminator ("register" or
// "cluster") that lets a Children list decode into the right concrete
// Component, the JSON IR's analogue of the SVD element name.
type componentEnvelope struct {
	Type string `json:"type"`
}

// decodeComponents decodes a list of discriminated component envelopes into
// their concrete Register/Cluster values.
func decodeComponents(raw []json.RawMessage) ([]Component, error) {
	if raw == nil {
		return nil, nil
	}

	out := make([]Component, len(raw))

	for i, r := range raw {
		var env componentEnvelope
		if err := json.Unmarshal(r, &env); err != nil {
			return nil, fmt.Errorf("ast: decoding component %d: %w", i, err)
		}

		switch env.Type {
		case "register":
			var reg Register
			if err := json.Unmarshal(r, &reg); err != nil {
				return nil, fmt.Errorf("ast: decoding register at index %d: %w", i, err)
			}

			out[i] = &reg
		case "cluster":
			var c Cluster
			if err := json.Unmarshal(r, &c); err != nil {
				return nil, fmt.Errorf("ast: decoding cluster at index %d: %w", i, err)
			}

			out[i] = &c
		default:
			return nil, fmt.Errorf(`ast: component %d has missing or unknown "type" (want "register" or "cluster", got %q)`, i, env.Type)
		}
	}

	return out, nil
}

// Cluster models §3's Cluster entity.
type Cluster struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	AlternateCluster string `json:"alternateCluster,omitempty"`
	HeaderStructName string `json:"headerStructName,omitempty"`

	AddressOffset uint64 `json:"addressOffset"`

	Properties_ RegisterProperties `json:"registerProperties,omitempty"`
	Dim_        *DimGroup          `json:"dim,omitempty"`

	Children []Component `json:"children,omitempty"`

	DerivedFrom string `json:"derivedFrom,omitempty"`

	path_ path.Path
}

// UnmarshalJSON decodes a Cluster, resolving its polymorphic Children list
// via the "type" discriminator on each entry.
func (c *Cluster) UnmarshalJSON(data []byte) error {
	type alias Cluster

	aux := struct {
		Children []json.RawMessage `json:"children,omitempty"`
		*alias
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	children, err := decodeComponents(aux.Children)
	if err != nil {
		return err
	}

	c.Children = children

	return nil
}

func (c *Cluster) Kind() Kind                     { return KindCluster }
func (c *Cluster) Path() path.Path                 { return c.path_ }
func (c *Cluster) SetPath(p path.Path)              { c.path_ = p }
func (c *Cluster) ComponentName() string           { return c.Name }
func (c *Cluster) SetComponentName(n string)        { c.Name = n }
func (c *Cluster) Offset() uint64                   { return c.AddressOffset }
func (c *Cluster) SetOffset(o uint64)               { c.AddressOffset = o }
func (c *Cluster) DimGroup() *DimGroup              { return c.Dim_ }
func (c *Cluster) SetDimGroup(d *DimGroup)          { c.Dim_ = d }
func (c *Cluster) Properties() RegisterProperties   { return c.Properties_ }
func (c *Cluster) SetProperties(p RegisterProperties) { c.Properties_ = p }
func (c *Cluster) DerivedFromRef() string           { return c.DerivedFrom }

func (c *Cluster) ClearDerivedFrom() string {
	ref := c.DerivedFrom
	c.DerivedFrom = ""

	return ref
}

// Clone returns a deep copy implementing Component, including a recursive
// clone of nested children.
func (c *Cluster) Clone() Component {
	if c == nil {
		return (*Cluster)(nil)
	}

	out := *c
	out.Properties_ = c.Properties_.Clone()
	out.Dim_ = c.Dim_.Clone()
	out.Children = make([]Component, len(c.Children))

	for i, child := range c.Children {
		out.Children[i] = child.Clone()
	}

	return &out
}

// Interrupt models a peripheral interrupt binding (§3).
type Interrupt struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       int    `json:"value"`
}

// AddressBlockUsage is the usage qualifier of an address block.
type AddressBlockUsage string

const (
	AddressBlockRegisters AddressBlockUsage = "registers"
	AddressBlockBuffer    AddressBlockUsage = "buffer"
	AddressBlockReserved  AddressBlockUsage = "reserved"
)

// AddressBlock models a peripheral's memory-mapped span (§3).
type AddressBlock struct {
	Offset     uint64            `json:"offset"`
	Size       uint64            `json:"size"`
	Usage      AddressBlockUsage `json:"usage"`
	Protection *Protection       `json:"protection,omitempty"`
}

// Peripheral models §3's Peripheral entity.
type Peripheral struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	AlternatePeripheral string `json:"alternatePeripheral,omitempty"`
	GroupName           string `json:"groupName,omitempty"`
	PrependToName       string `json:"prependToName,omitempty"`
	AppendToName        string `json:"appendToName,omitempty"`
	HeaderStructName    string `json:"headerStructName,omitempty"`
	DisableCondition    string `json:"disableCondition,omitempty"`

	BaseAddress uint64 `json:"baseAddress"`

	Properties_ RegisterProperties `json:"registerProperties,omitempty"`

	AddressBlocks []AddressBlock `json:"addressBlock,omitempty"`
	Interrupts    []Interrupt    `json:"interrupt,omitempty"`

	Dim_     *DimGroup   `json:"dim,omitempty"`
	Children []Component `json:"children,omitempty"`

	DerivedFrom string `json:"derivedFrom,omitempty"`

	path_ path.Path
}

// UnmarshalJSON decodes a Peripheral, resolving its polymorphic Children
// list via the "type" discriminator on each entry.
func (p *Peripheral) UnmarshalJSON(data []byte) error {
	type alias Peripheral

	aux := struct {
		Children []json.RawMessage `json:"children,omitempty"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	children, err := decodeComponents(aux.Children)
	if err != nil {
		return err
	}

	p.Children = children

	return nil
}

func (p *Peripheral) Kind() Kind                      { return KindPeripheral }
func (p *Peripheral) Path() path.Path                  { return p.path_ }
func (p *Peripheral) SetPath(np path.Path)             { p.path_ = np }
func (p *Peripheral) ComponentName() string            { return p.Name }
func (p *Peripheral) SetComponentName(n string)         { p.Name = n }
func (p *Peripheral) Offset() uint64                    { return p.BaseAddress }
func (p *Peripheral) SetOffset(o uint64)                { p.BaseAddress = o }
func (p *Peripheral) DimGroup() *DimGroup               { return p.Dim_ }
func (p *Peripheral) SetDimGroup(d *DimGroup)           { p.Dim_ = d }
func (p *Peripheral) Properties() RegisterProperties    { return p.Properties_ }
func (p *Peripheral) SetProperties(rp RegisterProperties) { p.Properties_ = rp }
func (p *Peripheral) DerivedFromRef() string            { return p.DerivedFrom }

func (p *Peripheral) ClearDerivedFrom() string {
	ref := p.DerivedFrom
	p.DerivedFrom = ""

	return ref
}

// Clone returns a deep copy. It does not implement Component (a Peripheral
// is never itself a Register/Cluster sibling), but follows the same shape.
func (p *Peripheral) Clone() *Peripheral {
	if p == nil {
		return nil
	}

	out := *p
	out.Properties_ = p.Properties_.Clone()
	out.Dim_ = p.Dim_.Clone()
	out.AddressBlocks = append([]AddressBlock(nil), p.AddressBlocks...)
	out.Interrupts = append([]Interrupt(nil), p.Interrupts...)
	out.Children = make([]Component, len(p.Children))

	for i, c := range p.Children {
		out.Children[i] = c.Clone()
	}

	return &out
}
