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

// dtbselect picks the device tree for the running board out of an image
// holding several concatenated DTBs, and updates its memory ranges to match
// those the running kernel was booted with.
//
// Usage:
//
//	go run ./cmd/dtbselect --image=/boot/dtb.img --out=/tmp/board.dtb
//
// The image may also be read from an ext4 partition image:
//
//	go run ./cmd/dtbselect --ext4_image=/dev/mmcblk0p1 --image=/boot/dtb.img --out=/tmp/board.dtb
package main

import (
	"flag"

	"github.com/google/bootdtb/board"
	"github.com/google/bootdtb/cmd/dtbselect/impl"
	"github.com/google/bootdtb/internal/image"
	"github.com/google/bootdtb/tegra"
	"k8s.io/klog/v2"
)

var (
	boardName   = flag.String("board", "", "Board name; detected from --cpuinfo if unset")
	cpuInfo     = flag.String("cpuinfo", board.DefaultCPUInfoPath, "Path to read the board name from")
	imagePath   = flag.String("image", "", "Path of the multi-DTB image")
	ext4Image   = flag.String("ext4_image", "", "Optional ext4 partition image holding --image")
	verifierKey = flag.String("verifier_key", "", "If set, the note verifier key which must have signed the image")
	outPath     = flag.String("out", "", "File to write the chosen DTB to")
	patch       = flag.Bool("patch", true, "Replace the memory ranges in the chosen DTB with the running ones")
	boardIDs    = flag.String("boardids", tegra.DefaultBoardIDPath, "Path to read the running board id from")
	memoryReg   = flag.String("memory_reg", tegra.DefaultMemoryRegPath, "Path to read the running memory ranges from")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := impl.Main(impl.Opts{
		Board:         *boardName,
		CPUInfoPath:   *cpuInfo,
		Image:         image.Source{Path: *imagePath, Partition: *ext4Image},
		VerifierKey:   *verifierKey,
		OutPath:       *outPath,
		Patch:         *patch,
		BoardIDPath:   *boardIDs,
		MemoryRegPath: *memoryReg,
	}); err != nil {
		klog.Exitf("%v", err)
	}
}
