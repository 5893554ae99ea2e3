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

// Package board maps board names to the code which knows how to pick and
// fix up device trees for them.
package board

import (
	"fmt"
	"sort"

	"github.com/google/bootdtb/tegra"
)

// Machine chooses a device tree for the running board, and fixes it up
// before it is handed to the next kernel.
//
// Implementations would be bound to a family of boards sharing a scheme for
// identifying themselves in their device trees.
type Machine interface {
	// ChooseDTB returns a copy of the DTB in img best suited to the running board.
	ChooseDTB(img []byte) ([]byte, error)
	// AddExtraRegs updates the memory description in dtb to match the running
	// board, returning the updated DTB.
	AddExtraRegs(dtb []byte) ([]byte, error)
}

var _ Machine = &tegra.Machine{}

// Registry maps exact board names to machines.
//
// A Registry is populated at startup and only read thereafter.
type Registry struct {
	machines map[string]Machine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]Machine)}
}

// Default returns a registry holding every supported machine. Tegra boards
// are served by tm, or by tegra.New() if tm is nil.
func Default(tm *tegra.Machine) *Registry {
	if tm == nil {
		tm = tegra.New()
	}
	r := NewRegistry()
	if err := r.Register(tm, tegra.BoardNames...); err != nil {
		panic(err)
	}
	return r
}

// Register makes m answer for each of names. It fails without registering
// anything if any of the names is already taken.
func (r *Registry) Register(m Machine, names ...string) error {
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("empty board name")
		}
		if _, ok := r.machines[n]; ok {
			return fmt.Errorf("board %q already registered", n)
		}
	}
	for _, n := range names {
		r.machines[n] = m
	}
	return nil
}

// Lookup returns the machine registered for name.
func (r *Registry) Lookup(name string) (Machine, bool) {
	m, ok := r.machines[name]
	return m, ok
}

// Names returns the registered board names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.machines))
	for n := range r.machines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
