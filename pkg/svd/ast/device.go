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
package ast

import "encoding/json"

// CPUName is the closed set of CMSIS-SVD CPU name tokens (§3).
type CPUName string

const (
	CPUCM0      CPUName = "CM0"
	CPUCM3      CPUName = "CM3"
	CPUCM4      CPUName = "CM4"
	CPUCM7      CPUName = "CM7"
	CPUCM23     CPUName = "CM23"
	CPUCM33     CPUName = "CM33"
	CPUCM35P    CPUName = "CM35P"
	CPUCM52     CPUName = "CM52"
	CPUCM55     CPUName = "CM55"
	CPUCM85     CPUName = "CM85"
	CPUSC000    CPUName = "SC000"
	CPUSC300    CPUName = "SC300"
	CPUARMV8MML CPUName = "ARMV8MML"
	CPUARMV8MBL CPUName = "ARMV8MBL"
	CPUARMV81MML CPUName = "ARMV81MML"
	CPUOther    CPUName = "other"
)

// SAURegion is one configured Security Attribution Unit region (§3).
type SAURegion struct {
	Base    uint64 `json:"base"`
	Limit   uint64 `json:"limit"`
	Access  string `json:"access"` // "c" (callable, non-secure-callable) or "n" (non-secure)
	Enabled bool   `json:"enabled"`
	Name    string `json:"name,omitempty"`
}

// SAUConfig is the optional SAU region configuration (§3).
type SAUConfig struct {
	Enabled                bool        `json:"enabled"`
	ProtectionWhenDisabled string      `json:"protectionWhenDisabled,omitempty"`
	Regions                []SAURegion `json:"regions,omitempty"`
}

// CPU models §3's CPU descriptor.
type CPU struct {
	Name       CPUName `json:"name"`
	Revision   string  `json:"revision"`
	Endian     string  `json:"endian"`
	MPUPresent bool    `json:"mpuPresent,omitempty"`
	FPUPresent bool    `json:"fpuPresent,omitempty"`
	DoubleFPU  bool    `json:"fpuDP,omitempty"`
	DSPPresent bool    `json:"dspPresent,omitempty"`
	ICachePresent bool `json:"icachePresent,omitempty"`
	DCachePresent bool `json:"dcachePresent,omitempty"`
	ITCMPresent   bool `json:"itcmPresent,omitempty"`
	DTCMPresent   bool `json:"dtcmPresent,omitempty"`
	VTORPresent   bool `json:"vtorPresent,omitempty"`

	NVICPrioBits uint `json:"nvicPrioBits"`

	VendorSystickConfig bool `json:"vendorSystickConfig,omitempty"`
	DeviceNumInterrupts uint `json:"deviceNumInterrupts,omitempty"`

	SAUNumRegions uint       `json:"sauNumRegions,omitempty"`
	SAURegionsConfig *SAUConfig `json:"sauRegionsConfig,omitempty"`
}

// Device models §3's Device entity, the root of the Input/Processed IR.
type Device struct {
	Vendor   string `json:"vendor,omitempty"`
	VendorID string `json:"vendorID,omitempty"`
	Name     string `json:"name"`
	Series   string `json:"series,omitempty"`
	Version  string `json:"version"`
	Description string `json:"description"`
	LicenseText string `json:"licenseText,omitempty"`

	CPU *CPU `json:"cpu,omitempty"`

	HeaderSystemFilename    string `json:"headerSystemFilename,omitempty"`
	HeaderDefinitionsPrefix string `json:"headerDefinitionsPrefix,omitempty"`

	AddressUnitBits uint `json:"addressUnitBits"`
	Width           uint `json:"width"`

	Properties_ RegisterProperties `json:"registerProperties,omitempty"`

	Peripherals []*Peripheral `json:"peripherals"`

	VendorExtensions json.RawMessage `json:"vendorExtensions,omitempty"`

	// Partial is set by the processor's collect-and-continue mode (§7)
	// when one or more subtrees were skipped due to a fatal diagnostic.
	Partial bool `json:"partial,omitempty"`
}

func (d *Device) Kind() Kind { return KindDevice }
