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

package lower

import (
	"github.com/fifthlang/fifth/base/uname"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/rewrite"
)

type augAssigns struct {
	names *uname.Unique
}

// AugmentedAssignments replaces x op= e by x = x op e.
//
// The receiver of a selector or index target, and the index itself, are
// evaluated once: unless they are identifiers or literals, they are
// stored in temporaries declared in the prologue of the assignment.
// A member whose temporaries cannot be declared in a block is left
// unchanged and the returned statements are those temporaries.
func AugmentedAssignments(mod *ast.Module) (*ast.Module, []ast.Stmt) {
	a := &augAssigns{names: names(mod)}
	rw := &rewrite.Rewriter{
		Post: func(_, n ast.Node) rewrite.Result {
			aug, ok := n.(*ast.AugAssign)
			if !ok {
				return rewrite.Result{Node: n}
			}
			return a.lower(aug)
		},
	}
	return grounded(rw, mod)
}

// stable returns an expression that can be evaluated more than once
// without side effects or extra computation.
func (a *augAssigns) stable(x ast.Expr, prologue []ast.Stmt) (ast.Expr, []ast.Stmt) {
	switch x.(type) {
	case *ast.Ident, *ast.This, *ast.Literal:
		return x, prologue
	}
	name := a.names.Indexed("__aug_")
	loc := ast.Loc{Pos: x.Position()}
	prologue = append(prologue, &ast.VarDecl{
		Loc:   loc,
		Name:  name,
		Value: x,
	})
	return &ast.Ident{Loc: loc, Name: name}, prologue
}

func (a *augAssigns) lower(n *ast.AugAssign) rewrite.Result {
	var prologue []ast.Stmt
	target := n.Target
	switch t := n.Target.(type) {
	case *ast.Selector:
		recv, pro := a.stable(t.X, prologue)
		prologue = pro
		target = &ast.Selector{Loc: t.Loc, Typed: t.Typed, X: recv, Sel: t.Sel}
	case *ast.Index:
		recv, pro := a.stable(t.X, prologue)
		index, pro := a.stable(t.Index, pro)
		prologue = pro
		target = &ast.Index{Loc: t.Loc, Typed: t.Typed, X: recv, Index: index}
	}
	return rewrite.Result{
		Node: &ast.Assign{
			Loc:    n.Loc,
			Target: target,
			Value: &ast.Binary{
				Loc: n.Loc,
				Op:  n.Op,
				X:   ast.Clone(target),
				Y:   n.Value,
			},
		},
		Prologue: prologue,
	}
}
