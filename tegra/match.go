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
	"github.com/google/bootdtb/api"
	"github.com/google/bootdtb/fdt"
	"k8s.io/klog/v2"
)

// Compatible reports whether the DTB in blob was built for the same
// platform and hardware as dev. The board id claimed by the DTB is returned
// so that the caller can rank compatible candidates by revision.
//
// A DTB which can't be parsed, or which carries no usable board id, is
// simply not compatible.
func Compatible(blob []byte, dev api.BoardID) (api.BoardID, bool) {
	tree, err := fdt.Parse(blob)
	if err != nil {
		klog.Warningf("DTB: couldn't parse candidate: %v", err)
		return api.BoardID{}, false
	}
	root, ok := fdt.NodeByPath(tree, "/")
	if !ok {
		klog.Warning("DTB: couldn't find root path in dtb")
		return api.BoardID{}, false
	}
	prop, ok := root.LookProperty(BoardIDsProperty)
	if !ok || len(prop.Value) == 0 {
		klog.Infof("DTB: %s entry not found", BoardIDsProperty)
		return api.BoardID{}, false
	}
	id, err := api.ParseBoardID(prop.Value)
	if err != nil {
		klog.Infof("DTB: %s entry size mismatch (%d != %d)", BoardIDsProperty, len(prop.Value), api.BoardIDSize)
		return api.BoardID{}, false
	}
	klog.V(2).Infof("DTB: candidate %v", id)
	return id, id.Compatible(dev)
}
