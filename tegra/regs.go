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

package tegra

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/bootdtb/api"
	"github.com/google/bootdtb/fdt"
	"github.com/u-root/u-root/pkg/dt"
	"k8s.io/klog/v2"
)

const (
	memoryPath  = "/memory"
	regProperty = "reg"
	cellSize    = 4
)

// AddExtraRegs replaces the reg property of the /memory node in dtb with the
// memory ranges the running kernel was booted with, and returns the updated
// DTB.
func (m *Machine) AddExtraRegs(dtb []byte) ([]byte, error) {
	tree, mem, err := memoryNode(dtb)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(m.MemoryRegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", api.ErrMissingSource, m.MemoryRegPath, err)
	}
	defer f.Close()

	return patchReg(tree, mem, f)
}

// PatchMemory replaces the reg property of the /memory node in dtb with the
// 32-bit cells read from words, in the order they are read. Any previous
// content of reg is discarded. A trailing partial cell is ignored.
//
// words is read to the end before dtb is touched: if reading fails the
// error is returned and no patched DTB is produced.
func PatchMemory(dtb []byte, words io.Reader) ([]byte, error) {
	tree, mem, err := memoryNode(dtb)
	if err != nil {
		return nil, err
	}
	return patchReg(tree, mem, words)
}

func memoryNode(dtb []byte) (*dt.FDT, *dt.Node, error) {
	tree, err := fdt.Parse(dtb)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't parse dtb: %w", err)
	}
	mem, ok := fdt.NodeByPath(tree, memoryPath)
	if !ok {
		return nil, nil, fmt.Errorf("%w: could not find %s in dtb", api.ErrMissingMemoryNode, memoryPath)
	}
	return tree, mem, nil
}

// patchReg rewrites reg on mem, a node of tree, and flattens tree.
func patchReg(tree *dt.FDT, mem *dt.Node, words io.Reader) ([]byte, error) {
	cells, err := readCells(words)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read memory ranges: %v", api.ErrMissingSource, err)
	}

	fdt.DeleteProperty(mem, regProperty)
	for _, c := range cells {
		fdt.AppendProperty(mem, regProperty, c[:])
	}
	klog.V(1).Infof("DTB: %s %s now has %d cells", mem.Name, regProperty, len(cells))

	return fdt.Serialize(tree)
}

func readCells(r io.Reader) ([][cellSize]byte, error) {
	var cells [][cellSize]byte
	for {
		var c [cellSize]byte
		n, err := io.ReadFull(r, c[:])
		switch {
		case err == nil:
			cells = append(cells, c)
		case errors.Is(err, io.EOF):
			return cells, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			klog.Warningf("DTB: ignoring %d trailing bytes of memory ranges", n)
			return cells, nil
		default:
			return nil, err
		}
	}
}
