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

package api

import "errors"

var (
	// ErrMissingSource is returned when a runtime source (board identity or
	// memory map) can't be opened or doesn't hold a complete record.
	ErrMissingSource = errors.New("missing runtime source")
	// ErrMalformedImage marks the point where scanning a multi-DTB image
	// stopped because a header failed validation. Scanning treats it as the
	// end of the image.
	ErrMalformedImage = errors.New("malformed dtb image")
	// ErrNoCompatibleDTB is returned when no device tree in an image is
	// usable for the running board.
	ErrNoCompatibleDTB = errors.New("no compatible dtb")
	// ErrMissingMemoryNode is returned when a device tree has no /memory node.
	ErrMissingMemoryNode = errors.New("missing memory node")
)
