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

// Package diag implements the processor's diagnostic taxonomy (§7): a
// Diagnostic carries the path of the offending node, a kind drawn from a
// closed set, a message, and a severity. Diagnostics raised up to and
// including dimension expansion carry the node's pre-expansion path; those
// raised afterwards carry its post-expansion path (see the compiler's
// restampPaths), not the pre-expansion one. Diagnostics are the
// processor's only user-visible failure mode; internal invariant violations
// panic instead (see pkg/svd/compiler).
package diag

import (
	"fmt"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

// Kind identifies one member of the §7 error taxonomy.
type Kind string

const (
	MalformedNumber       Kind = "MalformedNumber"
	DimIndexMismatch      Kind = "DimIndexMismatch"
	InvalidBitRange       Kind = "InvalidBitRange"
	ConflictingAlternate  Kind = "ConflictingAlternate"
	DuplicateName         Kind = "DuplicateName"
	AddressOverlap        Kind = "AddressOverlap"
	FieldOutOfRange       Kind = "FieldOutOfRange"
	AddressBlockViolation Kind = "AddressBlockViolation"

	UnresolvedReference Kind = "UnresolvedReference"
	WrongKindReference  Kind = "WrongKindReference"
	CircularInheritance Kind = "CircularInheritance"

	ConflictingEnumUsage     Kind = "ConflictingEnumUsage"
	DuplicateEnumValue       Kind = "DuplicateEnumValue"
	DefaultExpansionOverflow Kind = "DefaultExpansionOverflow"

	CPUFieldOutOfRange Kind = "CPUFieldOutOfRange"
	SAURegionInvalid   Kind = "SAURegionInvalid"
)

// fatalKinds are never warnings regardless of how they're constructed; every
// other kind may be raised as a warning via Warningf.
var fatalKinds = map[Kind]bool{
	CircularInheritance: true,
	UnresolvedReference: true,
	WrongKindReference:  true,
}

// Diagnostic is one processor-reported condition.
type Diagnostic struct {
	Kind    Kind
	Path    path.Path
	Message string
	Warning bool
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Path.String(), d.Message)
}

// New constructs a fatal diagnostic.
func New(kind Kind, p path.Path, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Path: p, Message: fmt.Sprintf(format, args...)}
}

// Warningf constructs a non-fatal diagnostic. Panics if kind can never be a
// warning (see fatalKinds) - callers must not raise a reference-resolution
// kind as advisory.
func Warningf(kind Kind, p path.Path, format string, args ...any) *Diagnostic {
	if fatalKinds[kind] {
		panic(fmt.Sprintf("diag: %s cannot be a warning", kind))
	}

	return &Diagnostic{Kind: kind, Path: p, Message: fmt.Sprintf(format, args...), Warning: true}
}

// Bag accumulates diagnostics across a processing stage.
type Bag struct {
	diagnostics []*Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) { b.diagnostics = append(b.diagnostics, d) }

// HasFatal reports whether any accumulated diagnostic is non-warning.
func (b *Bag) HasFatal() bool {
	for _, d := range b.diagnostics {
		if !d.Warning {
			return true
		}
	}

	return false
}

// All returns the accumulated diagnostics in the order they were added.
func (b *Bag) All() []*Diagnostic { return b.diagnostics }
