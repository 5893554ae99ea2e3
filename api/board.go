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

// Package api contains the types shared between the device-tree selection
// code and its callers.
package api

import (
	"encoding/binary"
	"fmt"
)

// BoardIDSize is the size in bytes of an encoded BoardID.
const BoardIDSize = 12

// BoardID identifies a board as reported by the firmware, or as claimed by
// a candidate device tree.
type BoardID struct {
	PlatformID uint32
	HardwareID uint32
	// BoardRev ranks otherwise compatible boards; it never takes part in
	// the compatibility check itself.
	BoardRev uint32
}

// Compatible returns true if b and o describe the same platform and hardware,
// regardless of their board revision.
func (b BoardID) Compatible(o BoardID) bool {
	return b.PlatformID == o.PlatformID && b.HardwareID == o.HardwareID
}

// String returns a human readable form of the ID.
func (b BoardID) String() string {
	return fmt.Sprintf("platform %d hw %d board %d", b.PlatformID, b.HardwareID, b.BoardRev)
}

// ParseBoardID decodes the first three big-endian words of raw.
// Any bytes beyond the first BoardIDSize are ignored.
func ParseBoardID(raw []byte) (BoardID, error) {
	if len(raw) < BoardIDSize {
		return BoardID{}, fmt.Errorf("board id too short (%d < %d bytes)", len(raw), BoardIDSize)
	}
	return BoardID{
		PlatformID: binary.BigEndian.Uint32(raw[0:4]),
		HardwareID: binary.BigEndian.Uint32(raw[4:8]),
		BoardRev:   binary.BigEndian.Uint32(raw[8:12]),
	}, nil
}

// Marshal returns the big-endian wire form of the ID.
func (b BoardID) Marshal() []byte {
	r := make([]byte, 0, BoardIDSize)
	r = binary.BigEndian.AppendUint32(r, b.PlatformID)
	r = binary.BigEndian.AppendUint32(r, b.HardwareID)
	return binary.BigEndian.AppendUint32(r, b.BoardRev)
}
