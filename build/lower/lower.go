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

// Package lower rewrites high-level constructs into simpler statements.
//
// Each pass takes a module whose symbols and types have been computed
// and returns a new module. The input module is never modified. A pass
// leaves a module without the construct it lowers unchanged.
package lower

import (
	"github.com/fifthlang/fifth/base/uname"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/rewrite"
	"github.com/fifthlang/fifth/build/types"
)

// names returns a name generator avoiding every name declared or
// referenced in a tree.
func names(root ast.Node) *uname.Unique {
	un := uname.New()
	ast.Inspect(root, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Class:
			un.Register(n.Name)
		case *ast.Field:
			un.Register(n.Name)
		case *ast.FuncDecl:
			un.Register(n.Name)
		case *ast.Param:
			un.Register(n.Name)
		case *ast.Binding:
			un.Register(n.Name)
		case *ast.VarDecl:
			un.Register(n.Name)
		case *ast.Foreach:
			un.Register(n.Var)
		case *ast.ListComp:
			un.Register(n.Var)
		case *ast.Ident:
			un.Register(n.Name)
		}
		return true
	})
	return un
}

// grounded rewrites a module member by member. A member whose rewrite
// leaves statements outside of any block is kept unchanged and the
// statements are returned.
func grounded(rw *rewrite.Rewriter, mod *ast.Module) (*ast.Module, []ast.Stmt) {
	members, stranded := groundedMembers(rw, mod.Members)
	if members == nil {
		return mod, stranded
	}
	m := *mod
	m.Members = members
	return &m, stranded
}

// groundedMembers returns nil members if no member changed.
func groundedMembers(rw *rewrite.Rewriter, ms []ast.Member) ([]ast.Member, []ast.Stmt) {
	var stranded []ast.Stmt
	out := make([]ast.Member, len(ms))
	changed := false
	for i, m := range ms {
		nm := m
		if class, ok := m.(*ast.Class); ok {
			members, pro := groundedMembers(rw, class.Members)
			stranded = append(stranded, pro...)
			if members != nil {
				c := *class
				c.Members = members
				nm = &c
			}
		} else {
			var pro []ast.Stmt
			nm, pro = rewrite.Node(rw, m)
			if len(pro) > 0 {
				stranded = append(stranded, pro...)
				nm = m
			}
		}
		out[i] = nm
		changed = changed || nm != m
	}
	if !changed {
		return nil, stranded
	}
	return out, stranded
}

// known returns t if it is known, nil otherwise.
func known(t types.Type) types.Type {
	if !types.IsKnown(t) {
		return nil
	}
	return t
}

// elemType returns the type of the elements of a list or an array.
func elemType(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.List:
		return known(t.Elem)
	case *types.Array:
		return known(t.Elem)
	}
	return nil
}
