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
	log "github.com/sirupsen/logrus"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/diag"
)

// Process runs the full §4 pipeline over device and returns the resolved
// tree together with every diagnostic raised along the way, each of which is
// also logged before Process returns. With cfg.FailFast (the §7 default),
// Process returns (nil, diagnostics) as soon as any stage raises a fatal
// diagnostic. Otherwise it collects diagnostics and keeps going, and marks
// the returned device Partial if any fatal diagnostic was raised anywhere.
// In that mode a node whose derivedFrom is unresolved, of the wrong kind or
// part of a cycle is kept as a non-derived node; a node with an invalid dim
// group is dropped (one whose name is not a dim template is kept
// unexpanded); a container with a conflicting usage is dropped and one too
// wide to expand keeps only its explicit values. Structural-validation
// diagnostics remove nothing from the tree.
func Process(device *ast.Device, cfg Config) (*ast.Device, []*diag.Diagnostic) {
	bag := &diag.Bag{}

	defer func() {
		for _, d := range bag.All() {
			if d.Warning {
				log.Warnf("%s", d.Error())
			} else {
				log.Errorf("%s", d.Error())
			}
		}
	}()

	log.Debugf("svd: building scope index")

	s := buildScope(device)
	decls := collectDerivable(device)

	log.Debugf("svd: building derivation graph over %d declarations", len(decls))

	g, graphDiags := buildGraph(s, decls)
	for _, d := range graphDiags {
		bag.Add(d)
	}

	if cfg.FailFast && bag.HasFatal() {
		return nil, bag.All()
	}

	order, cycle := g.topologicalOrder()
	for cycle != nil {
		bag.Add(cycle)

		if cfg.FailFast {
			return nil, bag.All()
		}

		// Break the cycle at the node the diagnostic names; that node is
		// then treated as non-derived, like an unresolved reference.
		for id, n := range g.nodes {
			if n.Path().String() == cycle.Path.String() {
				delete(g.edges, id)
			}
		}

		order, cycle = g.topologicalOrder()
	}

	log.Debugf("svd: resolving derivations")
	resolveDerivations(g, order)

	log.Debugf("svd: expanding dim groups")
	expandPeripherals(device, bag)

	if cfg.FailFast && bag.HasFatal() {
		return nil, bag.All()
	}

	restampPaths(device)

	log.Debugf("svd: propagating register properties")
	propagateDevice(device)

	log.Debugf("svd: post-processing enumerated values")
	processEnumerations(device, bag, cfg.MaxEnumExpansion)

	if cfg.FailFast && bag.HasFatal() {
		return nil, bag.All()
	}

	log.Debugf("svd: resolving absolute addresses")
	resolveAddresses(device)

	log.Debugf("svd: validating structure")
	validate(device, bag)

	if bag.HasFatal() {
		if cfg.FailFast {
			return nil, bag.All()
		}

		device.Partial = true
	}

	return device, bag.All()
}
