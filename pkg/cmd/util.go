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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/binfile"
	"github.com/ARMify-Project/SVDSuite/pkg/svd/parse"
)

// GetFlag reads a boolean flag, exiting the process on a parse error (which
// only happens if a flag is misdeclared, a programmer error).
func GetFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		log.Errorf("internal error: flag --%s is not a bool flag: %v", name, err)
		os.Exit(2)
	}

	return val
}

// GetString reads a string flag, exiting the process on a parse error.
func GetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Errorf("internal error: flag --%s is not a string flag: %v", name, err)
		os.Exit(2)
	}

	return val
}

// configureLogging raises the log level to Debug when --verbose is set,
// matching the default Info level otherwise.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// ReadDeviceFile opens and decodes a JSON-encoded device Input IR,
// exiting the process on any read or decode failure.
func ReadDeviceFile(path string) *ast.Device {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("could not open %s: %v", path, err)
		os.Exit(1)
	}
	defer f.Close()

	device, err := parse.DecodeDevice(f)
	if err != nil {
		log.Errorf("could not parse %s: %v", path, err)
		os.Exit(1)
	}

	return device
}

// WriteCacheFile marshals a processed device into a binfile.CacheFile and
// writes it to path.
func WriteCacheFile(device ast.Device, metadata []byte, path string) {
	cf := binfile.NewCacheFile(metadata, device)

	data, err := cf.MarshalBinary()
	if err != nil {
		log.Errorf("could not encode cache file: %v", err)
		os.Exit(1)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Errorf("could not write %s: %v", path, err)
		os.Exit(1)
	}
}

// ReadCacheFile reads and decodes a binfile.CacheFile from path, exiting the
// process on any read or decode failure.
func ReadCacheFile(path string) *binfile.CacheFile {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("could not read %s: %v", path, err)
		os.Exit(1)
	}

	var cf binfile.CacheFile
	if err := cf.UnmarshalBinary(data); err != nil {
		log.Errorf("could not decode %s: %v", path, err)
		os.Exit(1)
	}

	return &cf
}
