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
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/mod/sumdb/note"
)

// SignatureSuffix is appended to an image path to find its signature.
const SignatureSuffix = ".sig"

// Sign returns a signed note vouching for img.
func Sign(img []byte, s note.Signer) ([]byte, error) {
	return note.Sign(&note.Note{Text: noteText(img)}, s)
}

// Verify checks that sig is a note signed by the holder of vkey whose body
// is the SHA-256 hash of img.
func Verify(img, sig []byte, vkey string) error {
	v, err := note.NewVerifier(vkey)
	if err != nil {
		return fmt.Errorf("invalid verifier key: %w", err)
	}
	n, err := note.Open(sig, note.VerifierList(v))
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	if want := noteText(img); n.Text != want {
		return fmt.Errorf("signature is for image %q, want %q", n.Text, want)
	}
	return nil
}

func noteText(img []byte) string {
	h := sha256.Sum256(img)
	return hex.EncodeToString(h[:]) + "\n"
}
