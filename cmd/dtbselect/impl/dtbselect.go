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

// Package impl is the implementation of a tool which picks the device tree
// for the running board out of a multi-DTB image and fixes up its memory
// description, ready to be handed to a new kernel.
package impl

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/bootdtb/board"
	"github.com/google/bootdtb/internal/image"
	"github.com/google/bootdtb/tegra"
	"k8s.io/klog/v2"
)

// Opts encapsulates dtbselect parameters.
type Opts struct {
	// Board is the board name. If empty it is read from CPUInfoPath.
	Board       string
	CPUInfoPath string

	Image image.Source
	// VerifierKey, if set, is the note verifier key which must have signed
	// the image. The signature is read from the image path plus ".sig".
	VerifierKey string

	// OutPath is where the chosen DTB is written.
	OutPath string
	// Patch controls whether the memory description is fixed up.
	Patch bool

	BoardIDPath   string
	MemoryRegPath string
}

// Validate checks that the options are usable.
func (o Opts) Validate() error {
	if o.Board == "" && o.CPUInfoPath == "" {
		return errors.New("one of board or cpuinfo must be set")
	}
	if o.Image.Path == "" {
		return errors.New("missing image path")
	}
	if o.OutPath == "" {
		return errors.New("missing output path")
	}
	if o.BoardIDPath == "" {
		return errors.New("missing board id path")
	}
	if o.Patch && o.MemoryRegPath == "" {
		return errors.New("missing memory reg path")
	}
	return nil
}

// Main chooses, fixes up and writes out the device tree for the running board.
func Main(opts Opts) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	name, err := boardName(opts)
	if err != nil {
		return err
	}
	reg := board.Default(&tegra.Machine{
		BoardIDPath:   opts.BoardIDPath,
		MemoryRegPath: opts.MemoryRegPath,
	})
	m, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("unsupported board %q, want one of %q", name, reg.Names())
	}
	klog.Infof("Board %q", name)

	img, err := image.Load(opts.Image)
	if err != nil {
		return fmt.Errorf("failed to load image %v: %w", opts.Image, err)
	}
	if opts.VerifierKey != "" {
		sig, err := image.LoadSignature(opts.Image)
		if err != nil {
			return fmt.Errorf("failed to load image signature: %w", err)
		}
		if err := image.Verify(img, sig, opts.VerifierKey); err != nil {
			return fmt.Errorf("failed to verify image: %w", err)
		}
		klog.Info("Image signature verified")
	}

	dtb, err := m.ChooseDTB(img)
	if err != nil {
		return fmt.Errorf("failed to choose dtb: %w", err)
	}
	if opts.Patch {
		if dtb, err = m.AddExtraRegs(dtb); err != nil {
			return fmt.Errorf("failed to add memory ranges: %w", err)
		}
	}

	if err := os.WriteFile(opts.OutPath, dtb, 0o644); err != nil {
		return fmt.Errorf("failed to write dtb to %q: %w", opts.OutPath, err)
	}
	klog.Infof("Wrote %d byte dtb to %s", len(dtb), opts.OutPath)
	return nil
}

func boardName(opts Opts) (string, error) {
	if opts.Board != "" {
		return opts.Board, nil
	}
	f, err := os.Open(opts.CPUInfoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open cpuinfo: %w", err)
	}
	defer f.Close()
	name, err := board.DetectName(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect board name from %s: %w", opts.CPUInfoPath, err)
	}
	return name, nil
}
