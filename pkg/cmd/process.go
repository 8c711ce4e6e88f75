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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/compiler"
)

// processCmd runs the full resolution pipeline over an Input IR device and
// caches the result.
var processCmd = &cobra.Command{
	Use:   "process [flags] device.json",
	Short: "Resolve derivedFrom, dim arrays, register properties and enumerated values, and cache the result.",
	Long: "Reads a JSON-encoded device Input IR, runs it through the full derivation / dimension / property / " +
		"enumerated-value / address-resolution pipeline, and writes the resulting processed device to a cache file.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		cfg := compiler.DefaultConfig()
		cfg.FailFast = !GetFlag(cmd, "continue-on-error")

		device := ReadDeviceFile(args[0])

		processed, _ := compiler.Process(device, cfg)
		if processed == nil {
			log.Error("processing aborted on a fatal diagnostic")
			os.Exit(1)
		}

		if processed.Partial {
			fmt.Fprintln(os.Stderr, "warning: result is partial, one or more subtrees were skipped")
		}

		WriteCacheFile(*processed, []byte(fmt.Sprintf(`{"source":%q}`, args[0])), GetString(cmd, "output"))
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringP("output", "o", "a.svdcache", "cache file to write the processed device to")
	processCmd.Flags().Bool("continue-on-error", false, "collect diagnostics and continue past fatal errors instead of aborting")
}
