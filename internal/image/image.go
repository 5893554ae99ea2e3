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

// Package image loads multi-DTB images, either from plain files or from
// inside ext4 partition images, and checks their signatures.
package image

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

// Source says where to find an image.
type Source struct {
	// Path is a plain file holding the image. When Partition is set, Path
	// is instead the path of the image within that filesystem.
	Path string
	// Partition is an optional ext4 partition image.
	Partition string
}

func (s Source) String() string {
	if s.Partition != "" {
		return fmt.Sprintf("%s:%s", s.Partition, s.Path)
	}
	return s.Path
}

// Load reads the image at src.
func Load(src Source) ([]byte, error) {
	if src.Path == "" {
		return nil, fmt.Errorf("no image path given")
	}
	klog.V(1).Infof("Reading image from %v", src)
	if src.Partition != "" {
		return ReadExt4File(src.Partition, src.Path)
	}
	b, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return b, nil
}

// LoadSignature reads the signature stored next to the image at src.
func LoadSignature(src Source) ([]byte, error) {
	sigSrc := src
	sigSrc.Path += SignatureSuffix
	return Load(sigSrc)
}
