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
package cmd

import "github.com/ARMify-Project/SVDSuite/pkg/svd/diag"

// hasFatalDiagnostics reports whether any diagnostic in diags is non-warning.
// compiler.Process already logs every diagnostic itself; callers only need
// this to decide their own exit code.
func hasFatalDiagnostics(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if !d.Warning {
			return true
		}
	}

	return false
}
