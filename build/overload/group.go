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

// Package overload analyzes guarded function overloads and lowers every
// overload group into a dispatcher function calling one function per
// clause.
package overload

import (
	"strings"

	"github.com/fifthlang/fifth/base/iter"
	"github.com/fifthlang/fifth/base/ordered"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/types"
)

// Group is a set of clauses with the same name and the same parameter types.
type Group struct {
	Name    string
	Key     string
	Clauses []*ast.FuncDecl
}

// Arity returns the number of parameters of the clauses.
func (g *Group) Arity() int {
	return len(g.Clauses[0].Params)
}

func (g *Group) hasGuard() bool {
	for _, clause := range g.Clauses {
		if ast.HasGuard(clause) {
			return true
		}
	}
	return false
}

// Signature returns the key grouping clauses: the function name
// followed by the types of its parameters.
func Signature(fn *ast.FuncDecl) string {
	ps := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if p.Type == nil {
			ps[i] = types.Unknown().String()
			continue
		}
		ps[i] = p.Type.String()
	}
	return fn.Name + "(" + strings.Join(ps, ",") + ")"
}

// Gather returns the overload groups declared in a list of members, in
// the order of their first clause. A group has either more than one
// clause or at least one guard.
func Gather(members []ast.Member) []*Group {
	all := ordered.NewMap[string, *Group]()
	for fn := range iter.OfType[*ast.FuncDecl](members) {
		if fn.Ctor {
			continue
		}
		key := Signature(fn)
		g, _ := all.StoreIfAbsent(key, &Group{Name: fn.Name, Key: key})
		g.Clauses = append(g.Clauses, fn)
	}
	var groups []*Group
	for g := range all.Values() {
		if len(g.Clauses) > 1 || g.hasGuard() {
			groups = append(groups, g)
		}
	}
	return groups
}
