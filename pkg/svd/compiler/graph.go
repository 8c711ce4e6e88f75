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
package compiler

import (
	"fmt"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
)

// derivable is any node carrying an optional derivedFrom reference.
type derivable interface {
	node
	DerivedFromRef() string
	ClearDerivedFrom() string
}

// graph is the §4.3 derivation graph: an arena of integer-id nodes with
// id -> id edges, identified by their canonical pre-expansion path.
type graph struct {
	nodes []derivable
	index map[string]int // node path string -> arena id
	edges map[int]int    // derived id -> base id; each node derives from at most one base
}

func collectDerivable(device *ast.Device) []derivable {
	var out []derivable

	for _, p := range device.Peripherals {
		out = append(out, p)
		collectComponents(p.Children, &out)
	}

	return out
}

func collectComponents(children []ast.Component, out *[]derivable) {
	for _, c := range children {
		switch v := c.(type) {
		case *ast.Register:
			*out = append(*out, v)

			for _, f := range v.Fields {
				*out = append(*out, f)

				for _, ec := range f.Containers {
					*out = append(*out, ec)
				}
			}
		case *ast.Cluster:
			*out = append(*out, v)
			collectComponents(v.Children, out)
		}
	}
}

// buildGraph resolves every derivedFrom reference against s and builds the
// derivation graph. Unresolved or wrong-kind references are reported and
// excluded from the graph (the offending node is treated as non-derived by
// the remaining stages; §7's fail-fast/collect-and-continue choice is the
// caller's).
func buildGraph(s *scope, decls []derivable) (*graph, []*diag.Diagnostic) {
	g := &graph{index: map[string]int{}, edges: map[int]int{}}

	var diags []*diag.Diagnostic

	for _, d := range decls {
		g.index[d.Path().String()] = len(g.nodes)
		g.nodes = append(g.nodes, d)
	}

	for id, d := range g.nodes {
		ref := d.DerivedFromRef()
		if ref == "" {
			continue
		}

		target, err := s.resolve(d, ref)
		if err != nil {
			diags = append(diags, err)

			continue
		}

		baseID, ok := g.index[target.Path().String()]
		if !ok {
			diags = append(diags, diag.New(diag.UnresolvedReference, d.Path(), "unresolved reference %q", ref))

			continue
		}

		g.edges[id] = baseID
	}

	return g, diags
}

// topologicalOrder runs Tarjan's SCC algorithm (§9) to both detect
// derivation cycles (a self-loop or an SCC of size > 1 is
// CircularInheritance) and produce a base-before-derivation ordering.
func (g *graph) topologicalOrder() ([]derivable, *diag.Diagnostic) {
	t := &tarjan{
		g:       g,
		index:   make([]int, len(g.nodes)),
		lowlink: make([]int, len(g.nodes)),
		onStack: make([]bool, len(g.nodes)),
	}

	for i := range t.index {
		t.index[i] = -1
	}

	for id := range g.nodes {
		if t.index[id] == -1 {
			if d := t.strongconnect(id); d != nil {
				return nil, d
			}
		}
	}

	// Each SCC (singleton, since cycles are rejected above) was emitted
	// base-first by Tarjan's post-order; bases precede derivations
	// because edges point from derived node to base and strongconnect
	// finishes a node only after all its successors (its base) finish.
	order := make([]derivable, 0, len(g.nodes))
	for _, scc := range t.sccs {
		order = append(order, g.nodes[scc[0]])
	}

	return order, nil
}

type tarjan struct {
	g        *graph
	index    []int
	lowlink  []int
	onStack  []bool
	stack    []int
	counter  int
	sccs     [][]int
}

func (t *tarjan) strongconnect(v int) *diag.Diagnostic {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	if base, ok := t.g.edges[v]; ok {
		if base == v {
			return cycleDiagnostic(t.g, []int{v})
		}

		if t.index[base] == -1 {
			if d := t.strongconnect(base); d != nil {
				return d
			}

			t.lowlink[v] = min(t.lowlink[v], t.lowlink[base])
		} else if t.onStack[base] {
			t.lowlink[v] = min(t.lowlink[v], t.index[base])
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []int

		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)

			if w == v {
				break
			}
		}

		if len(scc) > 1 {
			return cycleDiagnostic(t.g, scc)
		}

		t.sccs = append(t.sccs, scc)
	}

	return nil
}

func cycleDiagnostic(g *graph, scc []int) *diag.Diagnostic {
	names := make([]string, len(scc))
	for i, id := range scc {
		names[i] = g.nodes[id].Path().String()
	}

	return diag.New(diag.CircularInheritance, g.nodes[scc[0]].Path(), "derivation cycle: %s", fmt.Sprint(names))
}
