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
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/compiler"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/view"
)

// viewCmd prints a register-map table for a device, either processing a raw
// Input IR on the fly or reading an already-processed cache file.
var viewCmd = &cobra.Command{
	Use:   "view [flags] device.json|device.svdcache",
	Short: "Print a register-map table (address, size, access, reset value) for a device.",
	Long:  "Renders a terminal-width-aware register-map table for a device: every peripheral's registers in declaration order, with absolute address, size, access and reset value. Accepts either a JSON Input IR (processed on the fly) or an already-processed cache file written by \"svdsuite process\".",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		device := loadDeviceForView(args[0])
		view.NewTable(device).Print(os.Stdout)
	},
}

func loadDeviceForView(path string) *ast.Device {
	if strings.HasSuffix(path, ".svdcache") {
		cf := ReadCacheFile(path)
		return &cf.Device
	}

	device := ReadDeviceFile(path)

	processed, _ := compiler.Process(device, compiler.DefaultConfig())
	if processed == nil {
		log.Error("processing aborted on a fatal diagnostic, nothing to display")
		os.Exit(1)
	}

	return processed
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
