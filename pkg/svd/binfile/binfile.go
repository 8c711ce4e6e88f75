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

// Package binfile implements a binary cache container for a fully processed
// device tree, so a CLI invocation can skip re-running the §4 pipeline over
// an unchanged Input IR. The on-disk layout mirrors a compiled constraint
// binary: a hand-rolled, magic-prefixed Header, followed by a gob-encoded
// Device.
package binfile

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
)

// gob cannot decode into the Component interface without knowing its
// concrete implementations up front.
func init() {
	gob.Register(&ast.Register{})
	gob.Register(&ast.Cluster{})
}

// CacheFile is the in-memory representation of a processed-device cache
// entry.
type CacheFile struct {
	Header Header
	Device ast.Device
}

// NewCacheFile constructs a CacheFile stamped at the current major/minor
// version. metadata is an optional JSON blob stored verbatim in the header
// (pass nil for none) - the SVD source path and a content hash are the
// intended use (§6).
func NewCacheFile(metadata []byte, device ast.Device) *CacheFile {
	return &CacheFile{Header{SVDCACHE, CACHE_MAJOR_VERSION, CACHE_MINOR_VERSION, metadata}, device}
}

// Header is the fixed-layout prefix of every cache file. The identifier and
// version numbers are serialised with a hand-rolled big-endian encoding (not
// gob) so they can be read without decoding the gob-encoded Device that
// follows; the variable-length metadata trails as a length-prefixed blob.
type Header struct {
	// Identifier is the 8-byte magic constant "svdcache" marking the file type.
	Identifier [8]byte
	// MajorVersion must match CACHE_MAJOR_VERSION exactly for the file to be
	// considered compatible.
	MajorVersion uint16
	// MinorVersion must be <= CACHE_MINOR_VERSION for the file to be
	// considered compatible (older minor versions remain readable).
	MinorVersion uint16
	// MetaData is an optional JSON blob carrying key/value pairs (e.g. the
	// source SVD path or a content hash used for invalidation).
	MetaData []byte
}

// headerFixed is the portion of Header with a compile-time-known size,
// split out so it can be written/read in one binary.Write/Read call rather
// than field by field.
type headerFixed struct {
	Identifier   [8]byte
	MajorVersion uint16
	MinorVersion uint16
}

// MarshalBinary converts the Header into a sequence of bytes.
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	fixed := headerFixed{Identifier: h.Identifier, MajorVersion: h.MajorVersion, MinorVersion: h.MinorVersion}
	if err := binary.Write(&buf, binary.BigEndian, fixed); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, uint32(len(h.MetaData))); err != nil {
		return nil, err
	}

	buf.Write(h.MetaData)

	return buf.Bytes(), nil
}

// UnmarshalBinary initialises this Header from a given set of data bytes.
// This matches exactly the encoding above.
func (h *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var fixed headerFixed
	if err := binary.Read(buffer, binary.BigEndian, &fixed); err != nil {
		return fmt.Errorf("reading cache file header: %w", err)
	}

	var metaLength uint32
	if err := binary.Read(buffer, binary.BigEndian, &metaLength); err != nil {
		return fmt.Errorf("reading cache file metadata length: %w", err)
	}

	metaBytes := make([]byte, metaLength)
	if metaLength > 0 {
		if _, err := io.ReadFull(buffer, metaBytes); err != nil {
			return fmt.Errorf("reading cache file metadata: %w", err)
		}
	}

	h.Identifier = fixed.Identifier
	h.MajorVersion = fixed.MajorVersion
	h.MinorVersion = fixed.MinorVersion
	h.MetaData = metaBytes

	return nil
}

// IsCompatible reports whether this header can be decoded by the current
// version of the cache reader.
func (h *Header) IsCompatible() bool {
	return h.Identifier == SVDCACHE &&
		h.MajorVersion == CACHE_MAJOR_VERSION &&
		h.MinorVersion <= CACHE_MINOR_VERSION
}

// CACHE_MAJOR_VERSION is the major version of the cache file format.
// Regardless of version, the file always begins with the SVDCACHE
// identifier followed by a hand-rolled binary Header.
const CACHE_MAJOR_VERSION uint16 = 1

// CACHE_MINOR_VERSION is the minor version of the cache file format. Files
// with a lower minor version remain readable by this implementation.
const CACHE_MINOR_VERSION uint16 = 0

// SVDCACHE is the file identifier for cache file types - it helps
// distinguish genuine cache files from corrupted or unrelated ones.
var SVDCACHE [8]byte = [8]byte{'s', 'v', 'd', 'c', 'a', 'c', 'h', 'e'}

// IsCacheFile checks whether data begins with the expected "svdcache"
// identifier.
func IsCacheFile(data []byte) bool {
	return bytes.HasPrefix(data, SVDCACHE[:])
}

// MarshalBinary converts the CacheFile into a sequence of bytes.
func (c *CacheFile) MarshalBinary() ([]byte, error) {
	var buffer bytes.Buffer

	headerBytes, err := c.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}

	buffer.Write(headerBytes)

	encoder := gob.NewEncoder(&buffer)
	if err := encoder.Encode(&c.Device); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this CacheFile from a given set of data bytes.
// This matches exactly the encoding above.
func (c *CacheFile) UnmarshalBinary(data []byte) error {
	buffer := bytes.NewBuffer(data)

	if err := c.Header.UnmarshalBinary(buffer); err != nil {
		return err
	}

	if !c.Header.IsCompatible() {
		return fmt.Errorf("incompatible cache file was v%d.%d, but expected v%d.%d",
			c.Header.MajorVersion, c.Header.MinorVersion, CACHE_MAJOR_VERSION, CACHE_MINOR_VERSION)
	}

	decoder := gob.NewDecoder(buffer)

	return decoder.Decode(&c.Device)
}
