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
	"fmt"

	"github.com/google/bootdtb/api"
	"github.com/google/bootdtb/fdt"
	"k8s.io/klog/v2"
)

// invalidRev is larger than any revision a DTB can claim.
const invalidRev = 0xffffffff

// ChooseDTB reads the identity of the running board and returns a copy of
// the best DTB for it from img. See Choose.
func (m *Machine) ChooseDTB(img []byte) ([]byte, error) {
	dev, err := ReadBoardID(m.BoardIDPath)
	if err != nil {
		return nil, err
	}
	klog.Infof("Device Tree: %v", dev)
	return Choose(img, dev)
}

// Choose returns a copy of the DTB in img which best suits dev.
//
// The first compatible DTB whose revision equals dev's is chosen. Failing
// that, the compatible DTB with the highest revision below dev's is chosen,
// preferring the earliest in the image if several share that revision.
// DTBs for newer revisions are never chosen. If nothing qualifies the
// returned error wraps api.ErrNoCompatibleDTB.
//
// The returned slice never aliases img.
func Choose(img []byte, dev api.BoardID) ([]byte, error) {
	var best []byte
	bestRev := uint32(invalidRev)

	for c := range fdt.Scan(img) {
		blob := c.Bytes(img)
		id, ok := Compatible(blob, dev)
		if !ok {
			continue
		}
		switch {
		case id.BoardRev == dev.BoardRev:
			klog.Infof("DTB: match %d, my id %d, len %d", id.BoardRev, dev.BoardRev, c.Size)
			return clone(blob), nil
		case id.BoardRev < dev.BoardRev:
			if bestRev == invalidRev || bestRev < id.BoardRev {
				best, bestRev = blob, id.BoardRev
			}
		default:
			klog.V(1).Infof("DTB: skipping newer revision %d, my id %d", id.BoardRev, dev.BoardRev)
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w for %v", api.ErrNoCompatibleDTB, dev)
	}
	klog.Infof("DTB: bestmatch %d, my id %d", bestRev, dev.BoardRev)
	return clone(best), nil
}

func clone(b []byte) []byte {
	r := make([]byte, len(b))
	copy(r, b)
	return r
}
