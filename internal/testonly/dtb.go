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

// Package testonly builds device trees and images for tests.
package testonly

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/bootdtb/api"
	"github.com/u-root/u-root/pkg/dt"
)

const dtbMagic = 0xd00dfeed

// DTB flattens a tree rooted at root.
func DTB(t testing.TB, root *dt.Node) []byte {
	t.Helper()
	fdt := &dt.FDT{
		Header: dt.Header{
			Magic:           dtbMagic,
			Version:         17,
			LastCompVersion: 16,
		},
		RootNode: root,
	}
	buf := new(bytes.Buffer)
	if _, err := fdt.Write(buf); err != nil {
		t.Fatalf("failed to write dtb: %v", err)
	}
	return buf.Bytes()
}

// BoardDTB returns a DTB whose root carries id in nvidia,boardids, along
// with a /memory node holding reg.
func BoardDTB(t testing.TB, id api.BoardID, reg ...uint32) []byte {
	t.Helper()
	return DTB(t, BoardTree(id, reg...))
}

// BoardTree returns the tree used by BoardDTB.
func BoardTree(id api.BoardID, reg ...uint32) *dt.Node {
	return &dt.Node{
		Properties: []dt.Property{
			{Name: "#address-cells", Value: Words(1)},
			{Name: "#size-cells", Value: Words(1)},
			{Name: "compatible", Value: []byte("nvidia,tegra124\x00")},
			{Name: "nvidia,boardids", Value: id.Marshal()},
		},
		Children: []*dt.Node{
			{
				Name: "chosen",
			}, {
				Name: "memory@80000000",
				Properties: []dt.Property{
					{Name: "device_type", Value: []byte("memory\x00")},
					{Name: "reg", Value: Words(reg...)},
				},
			},
		},
	}
}

// Words encodes ws as big-endian 32-bit cells.
func Words(ws ...uint32) []byte {
	r := make([]byte, 0, 4*len(ws))
	for _, w := range ws {
		r = binary.BigEndian.AppendUint32(r, w)
	}
	return r
}

// Image concatenates dtbs, inserting pad zero bytes after each entry.
func Image(pad int, dtbs ...[]byte) []byte {
	var r []byte
	for _, d := range dtbs {
		r = append(r, d...)
		r = append(r, make([]byte, pad)...)
	}
	return r
}
