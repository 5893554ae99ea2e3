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

package fdt_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/bootdtb/api"
	"github.com/google/bootdtb/fdt"
	"github.com/google/bootdtb/internal/testonly"
	"github.com/google/go-cmp/cmp"
	"github.com/u-root/u-root/pkg/dt"
)

func TestParseRejectsCorruptDTB(t *testing.T) {
	good := testonly.BoardDTB(t, api.BoardID{PlatformID: 1, HardwareID: 2, BoardRev: 3}, 0x80000000, 0x1000)
	h, err := fdt.ParseHeader(good)
	if err != nil {
		t.Fatalf("ParseHeader() = %v", err)
	}
	// The root node has an empty name, so its first property starts two
	// words into the structure block.
	prop := int(h.OffDtStruct) + 8
	if tok := binary.BigEndian.Uint32(good[prop:]); tok != 3 {
		t.Fatalf("token at %#x = %d, want a property", prop, tok)
	}
	put := func(off int, v uint32) func([]byte) []byte {
		return func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[off:], v)
			return b
		}
	}

	for _, test := range []struct {
		desc    string
		corrupt func([]byte) []byte
		wantErr bool
	}{
		{
			desc:    "good",
			corrupt: func(b []byte) []byte { return b },
		}, {
			desc:    "trailing bytes ignored",
			corrupt: func(b []byte) []byte { return append(b, 0xde, 0xad) },
		}, {
			desc:    "truncated blob",
			corrupt: func(b []byte) []byte { return b[:len(b)-1] },
			wantErr: true,
		}, {
			desc:    "huge strings size",
			corrupt: put(32, 0xff000060),
			wantErr: true,
		}, {
			desc:    "huge struct size",
			corrupt: put(36, 0xfffffff0),
			wantErr: true,
		}, {
			desc:    "property length past structure block",
			corrupt: put(prop+4, 0xfffffff0),
			wantErr: true,
		}, {
			desc:    "property name outside strings block",
			corrupt: put(prop+8, h.SizeDtStrings),
			wantErr: true,
		}, {
			desc:    "unknown token",
			corrupt: put(prop, 7),
			wantErr: true,
		}, {
			desc:    "missing end token",
			corrupt: put(int(h.OffDtStruct+h.SizeDtStruct)-4, 4),
			wantErr: true,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			_, err := fdt.Parse(test.corrupt(bytes.Clone(good)))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Parse() = %v, want err %t", err, test.wantErr)
			}
		})
	}
}

func TestNodeByPath(t *testing.T) {
	tree, err := fdt.Parse(testonly.DTB(t, &dt.Node{
		Children: []*dt.Node{
			{Name: "memory@80000000"},
			{Name: "soc", Children: []*dt.Node{
				{Name: "uart@70006000"},
				{Name: "uart"},
			}},
		},
	}))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	for _, test := range []struct {
		path     string
		wantName string
		wantOK   bool
	}{
		{path: "/memory", wantName: "memory@80000000", wantOK: true},
		{path: "/memory@80000000", wantName: "memory@80000000", wantOK: true},
		{path: "/memory@0", wantOK: false},
		{path: "/soc/uart", wantName: "uart@70006000", wantOK: true},
		{path: "/soc/uart@70006000", wantName: "uart@70006000", wantOK: true},
		{path: "/mem", wantOK: false},
		{path: "memory", wantOK: false},
	} {
		t.Run(test.path, func(t *testing.T) {
			n, ok := fdt.NodeByPath(tree, test.path)
			if ok != test.wantOK {
				t.Fatalf("NodeByPath(%q) ok = %t, want %t", test.path, ok, test.wantOK)
			}
			if ok && n.Name != test.wantName {
				t.Fatalf("NodeByPath(%q) = %q, want %q", test.path, n.Name, test.wantName)
			}
		})
	}
}

func TestNodeByPathRoot(t *testing.T) {
	tree, err := fdt.Parse(testonly.DTB(t, &dt.Node{}))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if n, ok := fdt.NodeByPath(tree, "/"); !ok || n != tree.RootNode {
		t.Fatal("NodeByPath(\"/\") did not return the root node")
	}
}

func TestNodeByPathNoRoot(t *testing.T) {
	if _, ok := fdt.NodeByPath(&dt.FDT{}, "/"); ok {
		t.Fatal("found root in empty tree")
	}
}

func TestPropertyEditing(t *testing.T) {
	n := &dt.Node{
		Name: "memory",
		Properties: []dt.Property{
			{Name: "reg", Value: testonly.Words(1, 2)},
			{Name: "device_type", Value: []byte("memory\x00")},
			{Name: "reg", Value: testonly.Words(3)},
		},
	}
	if !fdt.DeleteProperty(n, "reg") {
		t.Fatal("DeleteProperty() found nothing")
	}
	if _, ok := n.LookProperty("reg"); ok {
		t.Fatal("reg still present after delete")
	}
	if fdt.DeleteProperty(n, "reg") {
		t.Fatal("second DeleteProperty() removed something")
	}

	fdt.AppendProperty(n, "reg", testonly.Words(10))
	fdt.AppendProperty(n, "reg", testonly.Words(20))
	p, ok := n.LookProperty("reg")
	if !ok {
		t.Fatal("reg missing after append")
	}
	if diff := cmp.Diff(testonly.Words(10, 20), p.Value); diff != "" {
		t.Fatalf("reg diff (-want +got):\n%s", diff)
	}
	if _, ok := n.LookProperty("device_type"); !ok {
		t.Fatal("unrelated property lost")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	id := api.BoardID{PlatformID: 7, HardwareID: 3, BoardRev: 5}
	tree, err := fdt.Parse(testonly.BoardDTB(t, id, 0x80000000, 0x40000000))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	b, err := fdt.Serialize(tree)
	if err != nil {
		t.Fatalf("Serialize() = %v", err)
	}
	tree2, err := fdt.Parse(b)
	if err != nil {
		t.Fatalf("Parse() of serialized tree = %v", err)
	}
	p, ok := tree2.RootNode.LookProperty("nvidia,boardids")
	if !ok {
		t.Fatal("nvidia,boardids lost")
	}
	if got, _ := api.ParseBoardID(p.Value); got != id {
		t.Fatalf("got board id %v, want %v", got, id)
	}
}
