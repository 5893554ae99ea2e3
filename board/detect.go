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

package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultCPUInfoPath is where the running kernel describes the hardware.
const DefaultCPUInfoPath = "/proc/cpuinfo"

// DetectName returns the board name from the Hardware line of a
// /proc/cpuinfo style listing, lower-cased.
func DetectName(cpuinfo io.Reader) (string, error) {
	s := bufio.NewScanner(cpuinfo)
	for s.Scan() {
		key, value, ok := strings.Cut(s.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Hardware" {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return "", errors.New("empty Hardware entry")
		}
		return strings.ToLower(fields[0]), nil
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("failed to read cpuinfo: %w", err)
	}
	return "", errors.New("no Hardware entry found")
}
