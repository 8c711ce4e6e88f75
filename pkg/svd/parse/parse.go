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

// Package parse reads a device's Input IR from JSON. Decoding SVD/XML itself
// is an external collaborator's job; this package only covers the boundary
// the CLI sits behind, an already-decoded device tree encoded as JSON.
package parse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
)

// DecodeDevice reads a single JSON-encoded ast.Device from r. Peripheral and
// Cluster children must each carry a "type" field ("register" or "cluster")
// so the decoder can pick the right concrete Component.
func DecodeDevice(r io.Reader) (*ast.Device, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var device ast.Device
	if err := dec.Decode(&device); err != nil {
		return nil, fmt.Errorf("parse: decoding device: %w", err)
	}

	if device.Name == "" {
		return nil, fmt.Errorf("parse: device is missing a name")
	}

	return &device, nil
}
