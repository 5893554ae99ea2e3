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

package fdt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/u-root/u-root/pkg/dt"
)

// Structure block tokens.
const (
	tokenBeginNode uint32 = 0x1
	tokenEndNode   uint32 = 0x2
	tokenProp      uint32 = 0x3
	tokenNop       uint32 = 0x4
	tokenEnd       uint32 = 0x9
)

// Parse parses a single DTB.
//
// The header and structure block are validated before the tree is decoded,
// so lengths and offsets taken from the blob never index or allocate past
// its end.
func Parse(blob []byte) (*dt.FDT, error) {
	h, err := ParseHeader(blob)
	if err != nil {
		return nil, err
	}
	if err := h.Check(); err != nil {
		return nil, err
	}
	if uint64(h.TotalSize) > uint64(len(blob)) {
		return nil, fmt.Errorf("total size %d larger than blob (%d bytes)", h.TotalSize, len(blob))
	}
	blob = blob[:h.TotalSize]
	if err := checkStructure(blob, h); err != nil {
		return nil, fmt.Errorf("bad structure block: %w", err)
	}
	return dt.ReadFDT(bytes.NewReader(blob))
}

// checkStructure walks the token stream of the structure block, checking
// that every node name and property value lies inside the block and every
// property name offset lies inside the strings block.
func checkStructure(blob []byte, h Header) error {
	off, end := uint64(h.OffDtStruct), uint64(len(blob))
	if h.Version >= 17 {
		end = off + uint64(h.SizeDtStruct)
	}
	word := func() (uint32, error) {
		if off+4 > end {
			return 0, errors.New("truncated")
		}
		v := binary.BigEndian.Uint32(blob[off:])
		off += 4
		return v, nil
	}
	align := func() { off = (off + 3) &^ 3 }

	depth := 0
	for {
		tok, err := word()
		if err != nil {
			return err
		}
		switch tok {
		case tokenBeginNode:
			i := bytes.IndexByte(blob[off:end], 0)
			if i < 0 {
				return fmt.Errorf("unterminated node name at %#x", off)
			}
			off += uint64(i) + 1
			align()
			depth++
		case tokenEndNode:
			if depth == 0 {
				return fmt.Errorf("unbalanced end of node at %#x", off-4)
			}
			depth--
		case tokenProp:
			l, err := word()
			if err != nil {
				return err
			}
			nameOff, err := word()
			if err != nil {
				return err
			}
			if uint64(l) > end-off {
				return fmt.Errorf("property length %d at %#x runs past structure block", l, off-12)
			}
			if h.Version >= 3 && nameOff >= h.SizeDtStrings {
				return fmt.Errorf("property name offset %d outside strings block", nameOff)
			}
			off += uint64(l)
			align()
		case tokenNop:
		case tokenEnd:
			if depth != 0 {
				return fmt.Errorf("%d nodes left open", depth)
			}
			return nil
		default:
			return fmt.Errorf("unknown token %#x at %#x", tok, off-4)
		}
	}
}

// Serialize returns the flattened form of fdt.
func Serialize(fdt *dt.FDT) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := fdt.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write dtb: %w", err)
	}
	return buf.Bytes(), nil
}

// NodeByPath resolves an absolute path such as "/memory".
//
// As with libfdt, a path component without a unit address also matches a
// node which has one, so "/memory" finds "memory@80000000".
func NodeByPath(fdt *dt.FDT, path string) (*dt.Node, bool) {
	n := fdt.RootNode
	if n == nil || !strings.HasPrefix(path, "/") {
		return nil, false
	}
	for _, c := range strings.Split(path, "/") {
		if c == "" {
			continue
		}
		var ok bool
		if n, ok = Subnode(n, c); !ok {
			return nil, false
		}
	}
	return n, true
}

// Subnode returns the first child of n matching name.
func Subnode(n *dt.Node, name string) (*dt.Node, bool) {
	for _, c := range n.Children {
		if nodeNameEq(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

func nodeNameEq(nodeName, name string) bool {
	if nodeName == name {
		return true
	}
	if strings.Contains(name, "@") {
		return false
	}
	base, _, found := strings.Cut(nodeName, "@")
	return found && base == name
}

// DeleteProperty removes every property called name from n, returning true
// if anything was removed. Unlike dt.Node.RemoveProperty the order of the
// remaining properties is kept.
func DeleteProperty(n *dt.Node, name string) bool {
	props := n.Properties[:0]
	for _, p := range n.Properties {
		if p.Name != name {
			props = append(props, p)
		}
	}
	removed := len(props) != len(n.Properties)
	n.Properties = props
	return removed
}

// AppendProperty appends value to the named property of n, creating the
// property if it doesn't yet exist.
func AppendProperty(n *dt.Node, name string, value []byte) {
	if p, ok := n.LookProperty(name); ok {
		p.Value = append(p.Value, value...)
		return
	}
	n.Properties = append(n.Properties, dt.Property{
		Name:  name,
		Value: append([]byte(nil), value...),
	})
}
