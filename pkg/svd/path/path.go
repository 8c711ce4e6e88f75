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

// Package path models qualified SVD names (dotted segments, optionally
// array-indexed or in dim-template form) and the matching rules used to
// resolve a derivedFrom reference against the scope chain.
package path

import (
	"strconv"
	"strings"
)

// Segment is one '.'-separated component of a path. A segment is either
// plain ("Timer"), concretely indexed ("Timer[3]"), or - only on
// pre-expansion, derivation-time paths - in one of the two dim-template
// forms ("Timer[%s]" or "Timer%s").
type Segment struct {
	Name string
	// Index holds the concrete array index when this segment was written
	// as Name[<n>]. -1 when absent.
	Index int
	// Template is true for a dim-template segment (Name[%s] or Name%s),
	// which exists only on nodes not yet expanded by the dimension
	// expander.
	Template bool
	// Bracket distinguishes the two template spellings; meaningless
	// unless Template is set.
	Bracket bool
}

// HasIndex reports whether this segment carries a concrete array index.
func (s Segment) HasIndex() bool { return s.Index >= 0 }

func (s Segment) String() string {
	switch {
	case s.Template && s.Bracket:
		return s.Name + "[%s]"
	case s.Template:
		return s.Name + "%s"
	case s.HasIndex():
		return s.Name + "[" + strconv.Itoa(s.Index) + "]"
	default:
		return s.Name
	}
}

// Matches reports whether a concrete segment (no Template) satisfies a
// template segment per spec §4.2 rule 3: stripping the "%s"/"[%s]" from the
// template yields the same identifier as the concrete segment's name.
func (s Segment) Matches(other Segment) bool {
	if s.Template == other.Template {
		return s.Name == other.Name && s.Index == other.Index
	}
	// Exactly one side is a template: the non-template side must be an
	// indexed or substituted instance of the same base name.
	return s.Name == other.Name
}

// Path is a sequence of one or more segments. The Absolute flag only marks a
// leading '.' and takes part in String and comparisons; the compiler
// resolves any dotted reference from the set of peripherals and a
// single-segment reference against the scope chain (§4.2).
type Path struct {
	Absolute bool
	Segments []Segment
}

// NewAbsolute constructs an absolute path from already-parsed segments.
func NewAbsolute(segments ...Segment) Path {
	return Path{Absolute: true, Segments: segments}
}

// NewRelative constructs a relative path from already-parsed segments.
func NewRelative(segments ...Segment) Path {
	return Path{Absolute: false, Segments: segments}
}

// Parse reads a dotted reference string into a Path. A leading '.' marks an
// absolute path; CMSIS-SVD referenceIdentifierType strings are always
// relative in practice, but the grammar is accepted either way. Node paths
// built inside the compiler (by Append onto an empty Path) are relative.
func Parse(s string) (Path, error) {
	absolute := strings.HasPrefix(s, ".")
	if absolute {
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	segments := make([]Segment, 0, len(parts))

	for _, part := range parts {
		seg, err := ParseSegment(part)
		if err != nil {
			return Path{}, err
		}

		segments = append(segments, seg)
	}

	return Path{Absolute: absolute, Segments: segments}, nil
}

// ParseSegment parses a single, dot-free path component (a bare node name,
// possibly array-indexed or in dim-template form).
func ParseSegment(part string) (Segment, error) {
	if strings.HasSuffix(part, "[%s]") {
		return Segment{Name: part[:len(part)-4], Index: -1, Template: true, Bracket: true}, nil
	}

	if strings.HasSuffix(part, "%s") {
		return Segment{Name: part[:len(part)-2], Index: -1, Template: true, Bracket: false}, nil
	}

	if open := strings.IndexByte(part, '['); open >= 0 {
		if !strings.HasSuffix(part, "]") {
			return Segment{}, &MalformedPathError{part}
		}

		idx, err := strconv.Atoi(part[open+1 : len(part)-1])
		if err != nil {
			return Segment{}, &MalformedPathError{part}
		}

		return Segment{Name: part[:open], Index: idx}, nil
	}

	if part == "" {
		return Segment{}, &MalformedPathError{part}
	}

	return Segment{Name: part, Index: -1}, nil
}

// MalformedPathError reports a path segment that does not conform to the
// identifier/array-index grammar.
type MalformedPathError struct {
	Segment string
}

func (e *MalformedPathError) Error() string {
	return "malformed path segment " + strconv.Quote(e.Segment)
}

// Depth returns the number of segments in this path.
func (p Path) Depth() int { return len(p.Segments) }

// Head returns the first segment.
func (p Path) Head() Segment { return p.Segments[0] }

// Tail returns the last segment.
func (p Path) Tail() Segment { return p.Segments[len(p.Segments)-1] }

// Dehead returns this path without its first segment; the result is always
// relative, since dehead is only meaningful for an incremental walk.
func (p Path) Dehead() Path {
	return Path{Absolute: false, Segments: p.Segments[1:]}
}

// Append returns a new path with an additional trailing segment.
func (p Path) Append(seg Segment) Path {
	segments := make([]Segment, len(p.Segments)+1)
	copy(segments, p.Segments)
	segments[len(p.Segments)] = seg

	return Path{Absolute: p.Absolute, Segments: segments}
}

// Parent returns this path without its final segment.
func (p Path) Parent() Path {
	return Path{Absolute: p.Absolute, Segments: p.Segments[:len(p.Segments)-1]}
}

// Equals reports structural equality of two paths, including concrete
// array indices.
func (p Path) Equals(other Path) bool {
	if p.Absolute != other.Absolute || len(p.Segments) != len(other.Segments) {
		return false
	}

	for i := range p.Segments {
		if p.Segments[i] != other.Segments[i] {
			return false
		}
	}

	return true
}

// Matches reports whether a fully concrete path (no template segments)
// satisfies this, possibly templated, path - segment-wise via
// Segment.Matches.
func (p Path) Matches(concrete Path) bool {
	if p.Absolute != concrete.Absolute || len(p.Segments) != len(concrete.Segments) {
		return false
	}

	for i := range p.Segments {
		if !p.Segments[i].Matches(concrete.Segments[i]) {
			return false
		}
	}

	return true
}

// PrefixOf reports whether this path is a (non-strict) prefix of other.
func (p Path) PrefixOf(other Path) bool {
	if p.Absolute != other.Absolute || len(p.Segments) > len(other.Segments) {
		return false
	}

	for i := range p.Segments {
		if p.Segments[i] != other.Segments[i] {
			return false
		}
	}

	return true
}

// String renders the path in dotted form.
func (p Path) String() string {
	var b strings.Builder
	if p.Absolute {
		b.WriteByte('.')
	}

	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(seg.String())
	}

	return b.String()
}
