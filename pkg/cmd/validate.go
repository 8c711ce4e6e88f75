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

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/compiler"
)

// validateCmd runs the pipeline in collect-and-continue mode purely to
// surface diagnostics, without writing a cache file.
var validateCmd = &cobra.Command{
	Use:   "validate [flags] device.json",
	Short: "Report every diagnostic a device Input IR raises, without writing a cache file.",
	Long:  "Reads a JSON-encoded device Input IR and runs it through the full resolution pipeline in collect-and-continue mode, reporting every diagnostic raised along the way. Exits non-zero if any diagnostic was fatal.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		cfg := compiler.DefaultConfig()
		cfg.FailFast = false

		device := ReadDeviceFile(args[0])

		_, diags := compiler.Process(device, cfg)
		if hasFatalDiagnostics(diags) {
			fmt.Fprintln(os.Stderr, "validation failed")
			os.Exit(1)
		}

		fmt.Println("validation passed")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
