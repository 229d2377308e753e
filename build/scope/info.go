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

package scope

import (
	"github.com/fifthlang/fifth/build/ast"
)

// Info stores the symbol tables of a tree.
type Info struct {
	parents *ast.Parents
	tables  map[ast.Scope]*Table
}

// NewInfo returns an empty set of tables for a linked tree.
func NewInfo(parents *ast.Parents) *Info {
	return &Info{
		parents: parents,
		tables:  make(map[ast.Scope]*Table),
	}
}

// Parents returns the parent links used to walk scopes.
func (in *Info) Parents() *ast.Parents {
	return in.parents
}

// Table returns the table of a scope, creating it if necessary.
func (in *Info) Table(s ast.Scope) *Table {
	t, ok := in.tables[s]
	if !ok {
		t = NewTable()
		in.tables[s] = t
	}
	return t
}

// NearestScope returns the node itself if it is a scope,
// or its nearest ancestor scope otherwise.
func (in *Info) NearestScope(n ast.Node) ast.Scope {
	for ; n != nil; n = in.parents.Parent(n) {
		if s, ok := n.(ast.Scope); ok {
			return s
		}
	}
	return nil
}

// NearestScopeAbove returns the nearest scope strictly enclosing a node.
func (in *Info) NearestScopeAbove(n ast.Node) ast.Scope {
	if n == nil {
		return nil
	}
	return in.NearestScope(in.parents.Parent(n))
}

// Resolve returns the entry of a symbol in the nearest scope declaring it,
// walking outward from the nearest scope of a node.
// The second return value is false if no scope declares the symbol.
func (in *Info) Resolve(n ast.Node, sym Symbol) (*Entry, bool) {
	for s := in.NearestScope(n); s != nil; s = in.NearestScopeAbove(s) {
		t, ok := in.tables[s]
		if !ok {
			continue
		}
		if entry, ok := t.Lookup(sym); ok {
			return entry, true
		}
	}
	return nil, false
}

// ResolveByName is like Resolve but matches symbols by name only.
func (in *Info) ResolveByName(n ast.Node, name string) (*Entry, bool) {
	for s := in.NearestScope(n); s != nil; s = in.NearestScopeAbove(s) {
		t, ok := in.tables[s]
		if !ok {
			continue
		}
		if entry, ok := t.LookupName(name); ok {
			return entry, true
		}
	}
	return nil, false
}
