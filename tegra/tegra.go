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

// Package tegra selects and fixes up device trees for NVIDIA Tegra boards.
//
// Tegra device trees identify the board they were built for with an
// nvidia,boardids property on the root node, holding the platform id,
// hardware id and board revision as three big-endian words. The running
// board exposes the same triple through /proc/device-tree.
package tegra

import (
	"fmt"
	"io"
	"os"

	"github.com/google/bootdtb/api"
)

const (
	// DefaultBoardIDPath is where the running kernel exposes the board id.
	DefaultBoardIDPath = "/proc/device-tree/nvidia,boardids"
	// DefaultMemoryRegPath is where the running kernel exposes the memory
	// ranges handed to it by the bootloader.
	DefaultMemoryRegPath = "/proc/device-tree/memory@0x80000000/reg"

	// BoardIDsProperty is the root node property naming the board a DTB is for.
	BoardIDsProperty = "nvidia,boardids"
)

// BoardNames are the board names the Tegra machine answers for.
var BoardNames = []string{"mocha", "tn8"}

// Machine chooses and fixes up device trees for the running Tegra board.
type Machine struct {
	// BoardIDPath is read for the identity of the running board.
	BoardIDPath string
	// MemoryRegPath is read for the memory ranges to put in /memory.
	MemoryRegPath string
}

// New returns a Machine which reads from the standard /proc locations.
func New() *Machine {
	return &Machine{
		BoardIDPath:   DefaultBoardIDPath,
		MemoryRegPath: DefaultMemoryRegPath,
	}
}

// ReadBoardID reads the identity of the running board from path.
//
// The source must provide a full record; anything shorter is reported as
// api.ErrMissingSource rather than decoded with zeroed fields.
func ReadBoardID(path string) (api.BoardID, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.BoardID{}, fmt.Errorf("%w: couldn't open %s: %v", api.ErrMissingSource, path, err)
	}
	defer f.Close()

	var raw [api.BoardIDSize]byte
	if _, err := io.ReadFull(f, raw[:]); err != nil {
		return api.BoardID{}, fmt.Errorf("%w: couldn't read board id from %s: %v", api.ErrMissingSource, path, err)
	}
	return api.ParseBoardID(raw[:])
}
