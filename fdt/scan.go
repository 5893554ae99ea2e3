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
	"fmt"
	"iter"

	"github.com/google/bootdtb/api"
	"k8s.io/klog/v2"
)

// Candidate is a DTB found inside a larger image.
type Candidate struct {
	// Offset is the index of the first byte of the DTB within the image.
	Offset int
	// Size is the total size declared by the DTB header.
	Size   int
	Header Header
}

// Bytes returns the region of img covered by the candidate.
// The returned slice aliases img.
func (c Candidate) Bytes(img []byte) []byte {
	return img[c.Offset : c.Offset+c.Size]
}

// Scanner walks an image made of concatenated DTBs, optionally separated
// by runs of zero bytes.
//
// A Scanner is not restartable; create a new one to scan the image again.
type Scanner struct {
	img []byte
	off int
	cur Candidate
	err error
}

// NewScanner returns a Scanner over img. The image is never modified.
func NewScanner(img []byte) *Scanner {
	return &Scanner{img: img}
}

// Next advances to the next valid DTB, returning false when no more are
// available. A header which fails validation ends the scan; the reason is
// then available from Err.
func (s *Scanner) Next() bool {
	if s.err != nil || len(s.img)-s.off < HeaderSize {
		return false
	}
	h, err := ParseHeader(s.img[s.off:])
	if err == nil {
		err = h.Check()
	}
	if err == nil && uint64(s.off)+uint64(h.TotalSize) > uint64(len(s.img)) {
		err = fmt.Errorf("total size %d overruns image (%d bytes left)", h.TotalSize, len(s.img)-s.off)
	}
	if err != nil {
		s.err = fmt.Errorf("%w: invalid dtb header at offset %#x: %v", api.ErrMalformedImage, s.off, err)
		return false
	}

	s.cur = Candidate{Offset: s.off, Size: int(h.TotalSize), Header: h}
	s.off += s.cur.Size
	// Standalone dtb.img files pad entries with zeros.
	for s.off < len(s.img) && s.img[s.off] == 0 {
		s.off++
	}
	return true
}

// Candidate returns the DTB found by the last successful call to Next.
func (s *Scanner) Candidate() Candidate {
	return s.cur
}

// Err returns the error which stopped the scan, wrapping
// api.ErrMalformedImage, or nil if the image was consumed cleanly.
func (s *Scanner) Err() error {
	return s.err
}

// Scan returns a sequence of the DTBs held in img.
//
// An invalid header is treated as the end of the image, and is logged.
func Scan(img []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		s := NewScanner(img)
		for s.Next() {
			if !yield(s.Candidate()) {
				return
			}
		}
		if err := s.Err(); err != nil {
			klog.Warningf("DTB: %v", err)
		}
	}
}
