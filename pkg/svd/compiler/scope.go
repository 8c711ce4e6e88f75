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

// Package compiler implements the processor pipeline of §4: scope
// resolution, the derivation graph and resolver, dimension expansion,
// property propagation, enumeration post-processing, address resolution and
// structural validation, composed by Process.
package compiler

import (
	"strings"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/path"
)

// node is the common trait every declaration kind participating in scope
// resolution and derivation shares (§9's tagged-variant idea, lifted one
// level above Component to also cover Peripheral, Field and
// EnumeratedValueContainer).
type node interface {
	Kind() ast.Kind
	Path() path.Path
	SetPath(path.Path)
}

// scope indexes every declaration in the pre-expansion Input IR so that
// derivedFrom references can be resolved independently of source order
// (§4.2, §9's "build a complete index of all declared names first").
type scope struct {
	byPath     map[string]node
	childrenOf map[string][]node
}

func newScope() *scope {
	return &scope{byPath: map[string]node{}, childrenOf: map[string][]node{}}
}

func (s *scope) declare(parent path.Path, n node) {
	s.byPath[n.Path().String()] = n
	key := parent.String()
	s.childrenOf[key] = append(s.childrenOf[key], n)
}

// buildScope walks the full pre-expansion Input IR and returns its scope
// index. It also stamps every node's pre-expansion Path via SetPath.
func buildScope(device *ast.Device) *scope {
	s := newScope()
	root := path.Path{}

	for _, p := range device.Peripherals {
		declareSubtree(s, root, p)
	}

	return s
}

func declareSubtree(s *scope, parent path.Path, n interface{}) {
	switch v := n.(type) {
	case *ast.Peripheral:
		seg, _ := path.ParseSegment(v.Name)
		p := parent.Append(seg)
		v.SetPath(p)
		s.declare(parent, v)

		for _, c := range v.Children {
			declareSubtree(s, p, c)
		}
	case *ast.Cluster:
		seg, _ := path.ParseSegment(v.Name)
		p := parent.Append(seg)
		v.SetPath(p)
		s.declare(parent, v)

		for _, c := range v.Children {
			declareSubtree(s, p, c)
		}
	case *ast.Register:
		seg, _ := path.ParseSegment(v.Name)
		p := parent.Append(seg)
		v.SetPath(p)
		s.declare(parent, v)

		for _, f := range v.Fields {
			declareSubtree(s, p, f)
		}
	case *ast.Field:
		seg, _ := path.ParseSegment(v.Name)
		p := parent.Append(seg)
		v.SetPath(p)
		s.declare(parent, v)

		for _, c := range v.Containers {
			declareSubtree(s, p, c)
		}
	case *ast.EnumeratedValueContainer:
		name := v.Name
		if name == "" {
			// Anonymous containers are addressed only by their parent
			// field's path; key them by usage so they remain
			// locatable without colliding with a sibling container.
			name = "$" + string(v.EffectiveUsage())
		}

		seg, _ := path.ParseSegment(name)
		p := parent.Append(seg)
		v.SetPath(p)
		s.declare(parent, v)
	}
}

// resolve looks up ref from the scope of source (§4.2). A bare, dot-free ref
// walks the scope chain from source's own siblings outward to the
// peripheral list; a dotted ref walks absolutely from the peripheral list.
func (s *scope) resolve(source node, ref string) (node, *diag.Diagnostic) {
	if !strings.Contains(ref, ".") {
		return s.resolveLocal(source, ref)
	}

	return s.resolveAbsolute(source, ref)
}

func (s *scope) resolveLocal(source node, ref string) (node, *diag.Diagnostic) {
	seg, err := path.ParseSegment(ref)
	if err != nil {
		return nil, diag.New(diag.UnresolvedReference, source.Path(), "malformed reference %q", ref)
	}

	var kindMismatch bool

	for scopePath := source.Path().Parent(); ; scopePath = scopePath.Parent() {
		for _, candidate := range s.childrenOf[scopePath.String()] {
			if candidate == source {
				continue
			}

			if !candidate.Path().Tail().Matches(seg) {
				continue
			}

			if candidate.Kind() != source.Kind() {
				kindMismatch = true
				continue
			}

			return candidate, nil
		}

		if scopePath.Depth() == 0 {
			break
		}
	}

	if kindMismatch {
		return nil, diag.New(diag.WrongKindReference, source.Path(), "reference %q resolves to a node of a different kind", ref)
	}

	return nil, diag.New(diag.UnresolvedReference, source.Path(), "unresolved reference %q", ref)
}

func (s *scope) resolveAbsolute(source node, ref string) (node, *diag.Diagnostic) {
	target, err := path.Parse(ref)
	if err != nil {
		return nil, diag.New(diag.UnresolvedReference, source.Path(), "malformed reference %q", ref)
	}

	level := s.childrenOf[""]

	var current node

	for i, seg := range target.Segments {
		var match node

		for _, candidate := range level {
			if candidate.Path().Tail().Matches(seg) {
				match = candidate

				break
			}
		}

		if match == nil {
			return nil, diag.New(diag.UnresolvedReference, source.Path(), "unresolved reference %q", ref)
		}

		current = match

		if i < len(target.Segments)-1 {
			level = s.childrenOf[match.Path().String()]
		}
	}

	if current.Kind() != source.Kind() {
		return nil, diag.New(diag.WrongKindReference, source.Path(), "reference %q resolves to a node of a different kind", ref)
	}

	return current, nil
}
