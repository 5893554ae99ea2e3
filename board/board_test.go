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
	"strings"
	"testing"

	"github.com/google/bootdtb/tegra"
	"github.com/google/go-cmp/cmp"
)

type fakeMachine struct{ name string }

func (fakeMachine) ChooseDTB(img []byte) ([]byte, error)    { return img, nil }
func (fakeMachine) AddExtraRegs(dtb []byte) ([]byte, error) { return dtb, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, b := fakeMachine{"a"}, fakeMachine{"b"}
	if err := r.Register(a, "alpha", "apple"); err != nil {
		t.Fatalf("Register(a) = %v", err)
	}
	if err := r.Register(b, "banana", "apple"); err == nil {
		t.Fatal("Register() of duplicate name succeeded")
	}
	if _, ok := r.Lookup("banana"); ok {
		t.Fatal("failed Register() left a partial registration")
	}
	if err := r.Register(b, ""); err == nil {
		t.Fatal("Register() of empty name succeeded")
	}
	if err := r.Register(b, "banana"); err != nil {
		t.Fatalf("Register(b) = %v", err)
	}

	for _, test := range []struct {
		name   string
		want   Machine
		wantOK bool
	}{
		{name: "alpha", want: a, wantOK: true},
		{name: "apple", want: a, wantOK: true},
		{name: "banana", want: b, wantOK: true},
		{name: "Alpha"},
		{name: "alph"},
		{name: ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, ok := r.Lookup(test.name)
			if ok != test.wantOK {
				t.Fatalf("Lookup(%q) ok = %t, want %t", test.name, ok, test.wantOK)
			}
			if ok && got != test.want {
				t.Fatalf("Lookup(%q) = %v, want %v", test.name, got, test.want)
			}
		})
	}

	if diff := cmp.Diff([]string{"alpha", "apple", "banana"}, r.Names()); diff != "" {
		t.Fatalf("Names() diff (-want +got):\n%s", diff)
	}
}

func TestDefault(t *testing.T) {
	r := Default(nil)
	if diff := cmp.Diff([]string{"mocha", "tn8"}, r.Names()); diff != "" {
		t.Fatalf("Names() diff (-want +got):\n%s", diff)
	}
	m, ok := r.Lookup("tn8")
	if !ok {
		t.Fatal("tn8 not registered")
	}
	if _, ok := m.(*tegra.Machine); !ok {
		t.Fatalf("tn8 machine is %T", m)
	}

	tm := &tegra.Machine{BoardIDPath: "/tmp/ids"}
	if m, _ := Default(tm).Lookup("mocha"); m != Machine(tm) {
		t.Fatal("Default(tm) doesn't serve mocha with tm")
	}
}

func TestDetectName(t *testing.T) {
	for _, test := range []struct {
		desc    string
		cpuinfo string
		want    string
		wantErr bool
	}{
		{
			desc: "tegra",
			cpuinfo: "processor\t: 0\n" +
				"model name\t: ARMv7 Processor rev 3 (v7l)\n" +
				"\n" +
				"Hardware\t: mocha\n" +
				"Revision\t: 0000\n",
			want: "mocha",
		}, {
			desc:    "mixed case with suffix",
			cpuinfo: "Hardware : TN8 board\n",
			want:    "tn8",
		}, {
			desc:    "no hardware",
			cpuinfo: "processor\t: 0\nRevision\t: 0000\n",
			wantErr: true,
		}, {
			desc:    "empty hardware",
			cpuinfo: "Hardware\t:\n",
			wantErr: true,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, err := DetectName(strings.NewReader(test.cpuinfo))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("DetectName() = %v, want err %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("DetectName() = %q, want %q", got, test.want)
			}
		})
	}
}
