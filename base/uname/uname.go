// Copyright 2025 Google LLC
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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	next  map[string]int
	taken map[string]bool
}

// New name generator.
func New() *Unique {
	return &Unique{
		next:  make(map[string]int),
		taken: make(map[string]bool),
	}
}

// Register marks names as used so that they are never generated.
func (n *Unique) Register(names ...string) {
	for _, name := range names {
		n.taken[name] = true
	}
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique suffix is appended.
func (n *Unique) Name(root string) string {
	if !n.taken[root] {
		n.taken[root] = true
		return root
	}
	return n.suffixed(root, 1)
}

// Indexed returns root followed by the smallest available index,
// starting at 0. The root itself is never returned.
func (n *Unique) Indexed(root string) string {
	return n.suffixed(root, 0)
}

func (n *Unique) suffixed(root string, first int) string {
	idx, ok := n.next[root]
	if !ok || idx < first {
		idx = first
	}
	for {
		name := fmt.Sprintf("%s%d", root, idx)
		idx++
		if n.taken[name] {
			continue
		}
		n.next[root] = idx
		n.taken[name] = true
		return name
	}
}
