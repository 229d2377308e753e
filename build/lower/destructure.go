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
	"github.com/fifthlang/fifth/build/ast"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/rewrite"
)

// Destructuring replaces the destructuring of parameters by variable
// declarations at the head of the function or lambda body.
//
// A binding n: prop of parameter p declares var n = p.prop.
// Nested bindings chain the selectors: var m = p.prop.inner.
func Destructuring(mod *ast.Module) *ast.Module {
	rw := &rewrite.Rewriter{
		Post: func(_, n ast.Node) rewrite.Result {
			switch n := n.(type) {
			case *ast.FuncDecl:
				params, body, ok := destructure(n.Params, n.Body)
				if !ok {
					return rewrite.Result{Node: n}
				}
				c := *n
				c.Params, c.Body = params, body
				return rewrite.Result{Node: &c}
			case *ast.Lambda:
				params, body, ok := destructure(n.Params, n.Body)
				if !ok {
					return rewrite.Result{Node: n}
				}
				c := *n
				c.Params, c.Body = params, body
				return rewrite.Result{Node: &c}
			}
			return rewrite.Result{Node: n}
		},
	}
	out, _ := rewrite.Node(rw, mod)
	return out
}

func destructure(params []*ast.Param, body *ast.Block) ([]*ast.Param, *ast.Block, bool) {
	var head []ast.Stmt
	out := make([]*ast.Param, len(params))
	for i, p := range params {
		out[i] = p
		if p.Destructure == nil {
			continue
		}
		head = append(head, bindings(ah.Ident(p.Name), p.Destructure)...)
		c := *p
		c.Destructure = nil
		out[i] = &c
	}
	if head == nil {
		return params, body, false
	}
	nb := &ast.Block{}
	if body != nil {
		nb.Loc = body.Loc
		head = append(head, body.Stmts...)
	}
	nb.Stmts = head
	return out, nb, true
}

func bindings(of ast.Expr, d *ast.Destructure) []ast.Stmt {
	var stmts []ast.Stmt
	for _, b := range d.Bindings {
		sel := ah.Sel(ast.Clone(of), b.Prop)
		stmts = append(stmts, &ast.VarDecl{
			Loc:   b.Loc,
			Name:  b.Name,
			Type:  known(b.Type),
			Value: sel,
		})
		if b.Nested != nil {
			stmts = append(stmts, bindings(sel, b.Nested)...)
		}
	}
	return stmts
}
