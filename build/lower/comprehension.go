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
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/rewrite"
	"github.com/fifthlang/fifth/build/types"
)

// AppendName is the method appending an element to a list.
const AppendName = "append"

type comprehensions struct {
	names *uname.Unique
	rw    *rewrite.Rewriter
}

// Comprehensions replaces list comprehensions by loops.
//
// [proj from v in src where cond] becomes a reference to a fresh list
// variable filled by a prologue:
//
//	var __comp_0: [T] = [];
//	foreach (v in src) {
//		if (cond) {
//			__comp_0.append(proj);
//		}
//	}
//
// The prologue of the projection and of the condition stays inside the
// loop. A comprehension outside of any block, in a guard for example,
// cannot be lowered: its member is left unchanged and the returned
// statements are the prologue it would have needed.
func Comprehensions(mod *ast.Module) (*ast.Module, []ast.Stmt) {
	c := &comprehensions{names: names(mod)}
	c.rw = &rewrite.Rewriter{
		Pre: func(n ast.Node) bool {
			_, isComp := n.(*ast.ListComp)
			return !isComp
		},
		Post: func(_, n ast.Node) rewrite.Result {
			comp, ok := n.(*ast.ListComp)
			if !ok {
				return rewrite.Result{Node: n}
			}
			return c.lower(comp)
		},
	}
	return grounded(c.rw, mod)
}

func (c *comprehensions) expr(x ast.Expr) (ast.Expr, []ast.Stmt) {
	if x == nil {
		return nil, nil
	}
	return rewrite.Node(c.rw, x)
}

func (c *comprehensions) lower(x *ast.ListComp) rewrite.Result {
	name := c.names.Indexed("__comp_")
	over, prologue := c.expr(x.Over)
	cond, condPrologue := c.expr(x.Cond)
	proj, projPrologue := c.expr(x.Proj)

	var listType types.Type
	if l, ok := x.Type().(*types.List); ok && types.IsKnown(l.Elem) {
		listType = l
	}
	inner := append(projPrologue, &ast.ExprStmt{
		Loc: x.Loc,
		X:   ah.CallExpr(ah.Sel(ah.Ident(name), AppendName), proj),
	})
	body := inner
	if cond != nil {
		body = append(condPrologue, &ast.If{
			Loc:  x.Loc,
			Cond: cond,
			Then: ah.Block(inner...),
		})
	}
	prologue = append(prologue,
		&ast.VarDecl{
			Loc:   x.Loc,
			Name:  name,
			Type:  listType,
			Value: ah.List(),
		},
		&ast.Foreach{
			Loc:     x.Loc,
			Var:     x.Var,
			VarType: elemType(x.Over.Type()),
			Over:    over,
			Body:    ah.Block(body...),
		},
	)
	ref := &ast.Ident{Loc: x.Loc, Name: name}
	ref.SetType(listType)
	return rewrite.Result{Node: ref, Prologue: prologue}
}
