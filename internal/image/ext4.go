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

package image

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsoprea/go-ext4"
)

// ErrNotFound is returned when a path doesn't exist in a filesystem image.
var ErrNotFound = errors.New("file not found")

// ReadExt4File reads the file at fullPath from the ext4 filesystem held in
// the partition image at partPath.
func ReadExt4File(partPath, fullPath string) ([]byte, error) {
	f, err := os.Open(partPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition image: %w", err)
	}
	defer f.Close()
	return ReadExt4(f, fullPath)
}

// ReadExt4 reads the file at fullPath from the ext4 filesystem in rs.
func ReadExt4(rs io.ReadSeeker, fullPath string) ([]byte, error) {
	fullPath = strings.Trim(fullPath, "/")

	bgd, err := blockGroupDescriptor(rs, ext4.InodeRootDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to read root block group: %w", err)
	}
	dw, err := ext4.NewDirectoryWalk(rs, bgd, ext4.InodeRootDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to walk root directory: %w", err)
	}

	var inodeNumber int
	for {
		p, de, err := dw.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
		if strings.Trim(p, "/") == fullPath {
			inodeNumber = int(de.Data().Inode)
			break
		}
	}
	if inodeNumber == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, fullPath)
	}

	bgd, err = blockGroupDescriptor(rs, inodeNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to read block group for inode %d: %w", inodeNumber, err)
	}
	inode, err := ext4.NewInodeWithReadSeeker(bgd, rs, inodeNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to read inode %d: %w", inodeNumber, err)
	}

	en := ext4.NewExtentNavigatorWithReadSeeker(rs, inode)
	return io.ReadAll(ext4.NewInodeReader(en))
}

func blockGroupDescriptor(rs io.ReadSeeker, inode int) (*ext4.BlockGroupDescriptor, error) {
	if _, err := rs.Seek(ext4.Superblock0Offset, io.SeekStart); err != nil {
		return nil, err
	}
	sb, err := ext4.NewSuperblockWithReader(rs)
	if err != nil {
		return nil, err
	}
	bgdl, err := ext4.NewBlockGroupDescriptorListWithReadSeeker(rs, sb)
	if err != nil {
		return nil, err
	}
	return bgdl.GetWithAbsoluteInode(inode)
}
