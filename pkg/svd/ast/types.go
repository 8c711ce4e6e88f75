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

// Package ast defines the Input IR (§3): the tree the parser hands the
// processor, and the same tree's shape once every stage in pkg/svd/compiler
// has run over it (the Processed IR - §6 - has the same Go types, with
// DerivedFrom links dropped, Dim groups consumed, and the propagated/derived
// fields filled in).
package ast

import "github.com/ARMify-Project/SVDSuite/pkg/svd/path"

// Kind identifies a node's position in the §3 hierarchy. Registers and
// clusters share a Kind-independent Component interface (§9's "tagged
// variant"), but still report distinct Kinds for §4.2's kind-matching rule
// on derivedFrom resolution.
type Kind string

const (
	KindDevice      Kind = "device"
	KindPeripheral  Kind = "peripheral"
	KindCluster     Kind = "cluster"
	KindRegister    Kind = "register"
	KindField       Kind = "field"
	KindEnumContainer Kind = "enumeratedValues"
	KindEnumValue   Kind = "enumeratedValue"
)

// Access is the field/register access qualifier.
type Access string

const (
	AccessReadWrite  Access = "read-write"
	AccessReadOnly   Access = "read-only"
	AccessWriteOnly  Access = "write-only"
	AccessWriteOnce  Access = "writeOnce"
	AccessReadWriteOnce Access = "read-writeOnce"
)

// Protection is the register-properties security qualifier. For §4.6's
// strictest-wins merge, secure ("s") is stricter than privileged ("p"),
// which is stricter than non-secure ("n"); see protectionRank.
type Protection string

const (
	ProtectionSecure     Protection = "s"
	ProtectionNonSecure  Protection = "n"
	ProtectionPrivileged Protection = "p"
)

// protectionRank orders Protection values for the strictest-wins merge;
// higher is stricter.
var protectionRank = map[Protection]int{
	ProtectionNonSecure:  0,
	ProtectionPrivileged: 1,
	ProtectionSecure:     2,
}

// Stricter reports whether p is at least as strict as other.
func (p Protection) Stricter(other Protection) bool {
	return protectionRank[p] >= protectionRank[other]
}

// Usage is an enumerated-value container's read/write applicability.
type Usage string

const (
	UsageRead      Usage = "read"
	UsageWrite     Usage = "write"
	UsageReadWrite Usage = "read-write"
)

// RegisterProperties is the §3 inheritable property group. A nil pointer
// field means "not set at this level"; the property propagator (§4.6) fills
// unset fields in from ancestors.
type RegisterProperties struct {
	Size       *uint   `json:"size,omitempty"`
	Access     *Access `json:"access,omitempty"`
	Protection *Protection `json:"protection,omitempty"`
	ResetValue *uint64 `json:"resetValue,omitempty"`
	ResetMask  *uint64 `json:"resetMask,omitempty"`
}

// Clone returns a deep copy; since every field is a scalar pointer this is a
// value copy of the pointees, never shared with the source.
func (r RegisterProperties) Clone() RegisterProperties {
	out := RegisterProperties{}
	if r.Size != nil {
		v := *r.Size
		out.Size = &v
	}

	if r.Access != nil {
		v := *r.Access
		out.Access = &v
	}

	if r.Protection != nil {
		v := *r.Protection
		out.Protection = &v
	}

	if r.ResetValue != nil {
		v := *r.ResetValue
		out.ResetValue = &v
	}

	if r.ResetMask != nil {
		v := *r.ResetMask
		out.ResetMask = &v
	}

	return out
}

// Overlay returns the receiver with every unset field filled in from base -
// the scalar-attribute overlay rule of §4.4, applied one property group at a
// time.
func (r RegisterProperties) Overlay(base RegisterProperties) RegisterProperties {
	out := r.Clone()
	if out.Size == nil {
		out.Size = base.Clone().Size
	}

	if out.Access == nil {
		out.Access = base.Clone().Access
	}

	if out.Protection == nil {
		out.Protection = base.Clone().Protection
	}

	if out.ResetValue == nil {
		out.ResetValue = base.Clone().ResetValue
	}

	if out.ResetMask == nil {
		out.ResetMask = base.Clone().ResetMask
	}

	return out
}

// DimArrayIndex attaches an enumeration type over a dim-expanded array's
// indices.
type DimArrayIndex struct {
	HeaderEnumName string             `json:"headerEnumName,omitempty"`
	Values         []*EnumeratedValue `json:"enumeratedValues,omitempty"`
}

// DimGroup is the §4.5 {dim,dimIncrement,dimIndex,dimName,dimArrayIndex}
// attribute cluster. DimIndex carries the raw grammar string ("0-3", "A-Z",
// or a comma-separated token list) for the dimension expander to parse.
type DimGroup struct {
	Dim           uint           `json:"dim"`
	DimIncrement  uint64         `json:"dimIncrement"`
	DimIndex      string         `json:"dimIndex,omitempty"`
	DimName       string         `json:"dimName,omitempty"`
	DimArrayIndex *DimArrayIndex `json:"dimArrayIndex,omitempty"`
}

// Clone returns a deep copy of the dim group.
func (d *DimGroup) Clone() *DimGroup {
	if d == nil {
		return nil
	}

	out := *d

	if d.DimArrayIndex != nil {
		values := make([]*EnumeratedValue, len(d.DimArrayIndex.Values))
		for i, v := range d.DimArrayIndex.Values {
			values[i] = v.Clone()
		}

		out.DimArrayIndex = &DimArrayIndex{HeaderEnumName: d.DimArrayIndex.HeaderEnumName, Values: values}
	}

	return &out
}

// EnumeratedValue is a single symbolic value per §3.
type EnumeratedValue struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	// Value is nil exactly when IsDefault is true.
	Value    *uint64 `json:"value,omitempty"`
	DontCare uint64  `json:"dontCare,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`

	path path.Path
}

func (e *EnumeratedValue) Kind() Kind      { return KindEnumValue }
func (e *EnumeratedValue) Path() path.Path { return e.path }
func (e *EnumeratedValue) SetPath(p path.Path) { e.path = p }

// Clone returns a deep copy.
func (e *EnumeratedValue) Clone() *EnumeratedValue {
	if e == nil {
		return nil
	}

	out := *e
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}

	return &out
}

// EnumeratedValueContainer groups enumerated values under a usage (§3).
type EnumeratedValueContainer struct {
	Name           string             `json:"name,omitempty"`
	HeaderEnumName string             `json:"headerEnumName,omitempty"`
	Usage          Usage              `json:"usage,omitempty"`
	Values         []*EnumeratedValue `json:"enumeratedValues,omitempty"`
	DerivedFrom    string             `json:"derivedFrom,omitempty"`

	// Complete is set by the enumeration post-processor (§4.7 rule 5).
	Complete bool `json:"complete,omitempty"`

	path path.Path
}

func (c *EnumeratedValueContainer) Kind() Kind      { return KindEnumContainer }
func (c *EnumeratedValueContainer) Path() path.Path { return c.path }
func (c *EnumeratedValueContainer) SetPath(p path.Path) { c.path = p }
func (c *EnumeratedValueContainer) DerivedFromRef() string { return c.DerivedFrom }

func (c *EnumeratedValueContainer) ClearDerivedFrom() string {
	ref := c.DerivedFrom
	c.DerivedFrom = ""

	return ref
}

// EffectiveUsage treats an unset usage as read-write, per §3's default.
func (c *EnumeratedValueContainer) EffectiveUsage() Usage {
	if c.Usage == "" {
		return UsageReadWrite
	}

	return c.Usage
}

// Clone returns a deep copy, with derivedFrom dropped (§4.4: "derivedFrom is
// not itself inherited" - but more to the point, a clone of an
// already-resolved container has no outstanding link either).
func (c *EnumeratedValueContainer) Clone() *EnumeratedValueContainer {
	if c == nil {
		return nil
	}

	out := &EnumeratedValueContainer{
		Name: c.Name, HeaderEnumName: c.HeaderEnumName, Usage: c.Usage, Complete: c.Complete, path: c.path,
	}
	out.Values = make([]*EnumeratedValue, len(c.Values))

	for i, v := range c.Values {
		out.Values[i] = v.Clone()
	}

	return out
}

// Field is a named bit range within a register (§3).
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// LSB/MSB are the canonicalized bit range; populated by the parser
	// from whichever of the three equivalent input forms was used
	// ({lsb,msb}, {bitOffset,bitWidth}, "[msb:lsb]"). BitWidthOmitted
	// records whether bitWidth was absent so §4.6 can default it.
	// HasPosition is false when the field declared no bit-range form at
	// all, so the derivation resolver knows to inherit one from its base
	// rather than treat a zero LSB/MSB as an explicit {0,0}.
	LSB             uint `json:"lsb"`
	MSB             uint `json:"msb"`
	BitWidthOmitted bool `json:"bitWidthOmitted,omitempty"`
	HasPosition     bool `json:"hasPosition"`

	Access             *Access `json:"access,omitempty"`
	ModifiedWriteValues string `json:"modifiedWriteValues,omitempty"`
	WriteConstraint     string `json:"writeConstraint,omitempty"`
	ReadAction          string `json:"readAction,omitempty"`

	Containers []*EnumeratedValueContainer `json:"enumeratedValueContainers,omitempty"`

	Dim         *DimGroup `json:"dim,omitempty"`
	DerivedFrom string    `json:"derivedFrom,omitempty"`

	path path.Path
}

func (f *Field) Kind() Kind      { return KindField }
func (f *Field) Path() path.Path { return f.path }
func (f *Field) SetPath(p path.Path) { f.path = p }
func (f *Field) Name_() string   { return f.Name }
func (f *Field) DimGroup() *DimGroup { return f.Dim }
func (f *Field) DerivedFromRef() string { return f.DerivedFrom }

func (f *Field) ClearDerivedFrom() string {
	ref := f.DerivedFrom
	f.DerivedFrom = ""

	return ref
}

// Width returns the field's bit width.
func (f *Field) Width() uint { return f.MSB - f.LSB + 1 }

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}

	out := *f
	out.Dim = f.Dim.Clone()
	out.Containers = make([]*EnumeratedValueContainer, len(f.Containers))

	for i, c := range f.Containers {
		out.Containers[i] = c.Clone()
	}

	if f.Access != nil {
		v := *f.Access
		out.Access = &v
	}

	return &out
}
