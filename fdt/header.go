// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fdt finds and manipulates flattened device trees held in raw
// images, on top of the u-root dt package.
package fdt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic is the first word of every flattened device tree.
	Magic uint32 = 0xd00dfeed
	// HeaderSize is the size of a version 17 header.
	HeaderSize = 40

	firstSupportedVersion = 0x02
	lastSupportedVersion  = 0x11
)

// Header is the fixed-size header found at the start of a DTB.
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// ParseHeader decodes a header from the start of b.
//
// The bytes are staged into a local array and decoded word by word, so b
// may start at any alignment. The header is not validated; see Check.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("short header (%d < %d bytes)", len(b), HeaderSize)
	}
	var raw [HeaderSize]byte
	copy(raw[:], b)

	w := func(i int) uint32 {
		return binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return Header{
		Magic:           w(0),
		TotalSize:       w(1),
		OffDtStruct:     w(2),
		OffDtStrings:    w(3),
		OffMemRsvmap:    w(4),
		Version:         w(5),
		LastCompVersion: w(6),
		BootCPUIDPhys:   w(7),
		SizeDtStrings:   w(8),
		SizeDtStruct:    w(9),
	}, nil
}

// Check performs the same sanity checks on the header as libfdt's
// fdt_check_header.
func (h Header) Check() error {
	if h.Magic != Magic {
		return fmt.Errorf("bad magic %#08x", h.Magic)
	}
	if h.Version < firstSupportedVersion {
		return fmt.Errorf("unsupported version %d", h.Version)
	}
	if h.LastCompVersion > lastSupportedVersion {
		return fmt.Errorf("unsupported last compatible version %d", h.LastCompVersion)
	}
	if h.Version < h.LastCompVersion {
		return fmt.Errorf("version %d older than last compatible version %d", h.Version, h.LastCompVersion)
	}
	if h.TotalSize < HeaderSize {
		return fmt.Errorf("total size %d smaller than header", h.TotalSize)
	}
	if h.OffMemRsvmap < HeaderSize || h.OffMemRsvmap > h.TotalSize {
		return fmt.Errorf("memory reservation block offset %d out of range", h.OffMemRsvmap)
	}
	if h.OffDtStruct > h.TotalSize {
		return errors.New("structure block outside blob")
	}
	if h.OffDtStrings > h.TotalSize {
		return errors.New("strings block outside blob")
	}
	if h.Version >= 3 && uint64(h.OffDtStrings)+uint64(h.SizeDtStrings) > uint64(h.TotalSize) {
		return fmt.Errorf("strings block (%d bytes at %d) runs past end of blob", h.SizeDtStrings, h.OffDtStrings)
	}
	if h.Version >= 17 && uint64(h.OffDtStruct)+uint64(h.SizeDtStruct) > uint64(h.TotalSize) {
		return fmt.Errorf("structure block (%d bytes at %d) runs past end of blob", h.SizeDtStruct, h.OffDtStruct)
	}
	return nil
}
