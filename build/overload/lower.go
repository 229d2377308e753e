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

package overload

import (
	"fmt"

	"github.com/fifthlang/fifth/base/uname"
	"github.com/fifthlang/fifth/build/ast"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/rewrite"
	"github.com/fifthlang/fifth/build/token"
)

type transformer struct {
	cfg  Config
	errs *diag.Appender
}

// Transform analyzes the overload groups of a module and its classes
// and replaces every group by a dispatcher followed by one function per
// clause. A group with more than one base clause is left unchanged.
// The module is returned unchanged if it has no overload group.
func Transform(mod *ast.Module, cfg Config, errs *diag.Appender) *ast.Module {
	t := &transformer{cfg: cfg, errs: errs}
	rw := &rewrite.Rewriter{
		Pre: func(n ast.Node) bool {
			switch n.(type) {
			case *ast.Module, *ast.Class:
				return true
			}
			return false
		},
		Post: func(_, n ast.Node) rewrite.Result {
			switch n := n.(type) {
			case *ast.Module:
				members, changed := t.members(n.Members)
				if !changed {
					return rewrite.Result{Node: n}
				}
				c := *n
				c.Members = members
				return rewrite.Result{Node: &c}
			case *ast.Class:
				members, changed := t.members(n.Members)
				if !changed {
					return rewrite.Result{Node: n}
				}
				c := *n
				c.Members = members
				return rewrite.Result{Node: &c}
			}
			return rewrite.Result{Node: n}
		},
	}
	out, _ := rewrite.Node(rw, mod)
	return out
}

func (t *transformer) members(ms []ast.Member) ([]ast.Member, bool) {
	groups := Gather(ms)
	if len(groups) == 0 {
		return ms, false
	}
	names := uname.New()
	for _, m := range ms {
		switch m := m.(type) {
		case *ast.FuncDecl:
			names.Register(m.Name)
		case *ast.Field:
			names.Register(m.Name)
		case *ast.Class:
			names.Register(m.Name)
		}
	}
	lowered := make(map[*ast.FuncDecl][]ast.Member)
	removed := make(map[*ast.FuncDecl]bool)
	for _, g := range groups {
		a := Analyze(g, t.cfg, t.errs)
		if !a.Lowerable() {
			continue
		}
		lowered[g.Clauses[0]] = lowerGroup(a, names)
		for _, clause := range g.Clauses {
			removed[clause] = true
		}
	}
	if len(lowered) == 0 {
		return ms, false
	}
	var out []ast.Member
	for _, m := range ms {
		fn, ok := m.(*ast.FuncDecl)
		if !ok || !removed[fn] {
			out = append(out, m)
			continue
		}
		out = append(out, lowered[fn]...)
	}
	return out, true
}

// lowerGroup returns the dispatcher of a group followed by its subclauses.
func lowerGroup(a *Analysis, names *uname.Unique) []ast.Member {
	first := a.Group.Clauses[0]
	params := make([]*ast.Param, len(first.Params))
	args := make([]string, len(first.Params))
	for i, p := range first.Params {
		params[i] = &ast.Param{Loc: p.Loc, Name: p.Name, Type: p.Type}
		args[i] = p.Name
	}
	var stmts []ast.Stmt
	subs := []ast.Member{nil}
	for i, clause := range a.Group.Clauses {
		sub := subclause(clause, names.Name(fmt.Sprintf("%s_subclause%d", a.Group.Name, i+1)))
		subs = append(subs, sub)
		call := &ast.Return{
			Loc:   clause.Loc,
			Value: ah.Call(sub.Name, ah.Idents(args...)...),
		}
		if a.Classes[i] == Base {
			stmts = append(stmts, call)
			continue
		}
		stmts = append(stmts, &ast.If{
			Loc:  clause.Loc,
			Cond: precondition(clause, params),
			Then: ah.Block(call),
		})
	}
	subs[0] = &ast.FuncDecl{
		Loc:    first.Loc,
		Name:   a.Group.Name,
		Params: params,
		Result: first.Result,
		Body:   ah.Block(stmts...),
	}
	return subs
}

// subclause returns a copy of a clause without guards.
func subclause(clause *ast.FuncDecl, name string) *ast.FuncDecl {
	sub := ast.Clone(clause)
	sub.Name = name
	for _, p := range sub.Params {
		p.Guard = nil
	}
	return sub
}

// precondition returns the conjunction of the guards of a clause in
// terms of the dispatcher parameters.
func precondition(clause *ast.FuncDecl, params []*ast.Param) ast.Expr {
	repl := make(map[string]ast.Expr)
	for i, p := range clause.Params {
		target := params[i].Name
		repl[p.Name] = ah.Ident(target)
		if p.Destructure != nil {
			bindSelectors(repl, p.Destructure, ah.Ident(target))
		}
	}
	var cond ast.Expr
	for _, p := range clause.Params {
		if p.Guard == nil {
			continue
		}
		guard := rewrite.Substitute(p.Guard, repl)
		if cond == nil {
			cond = guard
			continue
		}
		cond = ah.Binary(token.LogicalAnd, cond, guard)
	}
	return cond
}

// bindSelectors maps every binding of a destructuring to the selector
// reading its property from a value.
func bindSelectors(repl map[string]ast.Expr, d *ast.Destructure, of ast.Expr) {
	for _, b := range d.Bindings {
		sel := ah.Sel(ast.Clone(of), b.Prop)
		repl[b.Name] = sel
		if b.Nested != nil {
			bindSelectors(repl, b.Nested, sel)
		}
	}
}
