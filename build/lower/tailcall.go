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
	"fmt"

	"github.com/fifthlang/fifth/base/uname"
	"github.com/fifthlang/fifth/build/ast"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/rewrite"
	"github.com/fifthlang/fifth/build/types"
	"github.com/shopspring/decimal"
)

// TailCalls rewrites self-recursive functions returning a call to
// themselves in tail position into loops:
//
//	var __tco_continue = true;
//	while (__tco_continue) {
//		__tco_continue = false;
//		...
//	}
//
// A tail call evaluates its arguments into temporaries, assigns them to
// the parameters, and sets __tco_continue to true. A statement is in
// tail position if it is the last statement of the body, or the last
// statement of a branch of an if statement in tail position.
func TailCalls(mod *ast.Module) *ast.Module {
	rw := &rewrite.Rewriter{
		Pre: func(n ast.Node) bool {
			switch n.(type) {
			case *ast.Module, *ast.Class:
				return true
			}
			return false
		},
		Post: func(_, n ast.Node) rewrite.Result {
			fn, ok := n.(*ast.FuncDecl)
			if !ok {
				return rewrite.Result{Node: n}
			}
			return rewrite.Result{Node: tailCalls(fn)}
		},
	}
	out, _ := rewrite.Node(rw, mod)
	return out
}

type loop struct {
	fn    *ast.FuncDecl
	names *uname.Unique
	cont  string
}

func tailCalls(fn *ast.FuncDecl) *ast.FuncDecl {
	if fn.Ctor || fn.Body == nil {
		return fn
	}
	l := &loop{fn: fn}
	if !l.hasTailCall(fn.Body.Stmts) {
		return fn
	}
	l.names = names(fn)
	l.cont = l.names.Name("__tco_continue")
	stmts := []ast.Stmt{&ast.Assign{
		Loc:    fn.Loc,
		Target: ah.Ident(l.cont),
		Value:  ah.Bool(false),
	}}
	stmts = append(stmts, l.rewrite(fn.Body.Stmts)...)
	body := []ast.Stmt{
		&ast.VarDecl{Loc: fn.Loc, Name: l.cont, Value: ah.Bool(true)},
		&ast.While{Loc: fn.Loc, Cond: ah.Ident(l.cont), Body: ah.Block(stmts...)},
	}
	if zero := zeroValue(fn.Result); zero != nil {
		body = append(body, &ast.Return{Loc: fn.Loc, Value: zero})
	}
	c := *fn
	c.Body = &ast.Block{Loc: fn.Body.Loc, Stmts: body}
	return &c
}

// selfCall returns the call of a return statement if it calls the
// function with all its arguments.
func (l *loop) selfCall(s ast.Stmt) (*ast.Call, bool) {
	ret, ok := s.(*ast.Return)
	if !ok {
		return nil, false
	}
	call, ok := ret.Value.(*ast.Call)
	if !ok {
		return nil, false
	}
	fun, ok := call.Fun.(*ast.Ident)
	if !ok || fun.Name != l.fn.Name || len(call.Args) != len(l.fn.Params) {
		return nil, false
	}
	return call, true
}

func (l *loop) hasTailCall(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.Return:
		_, ok := l.selfCall(last)
		return ok
	case *ast.If:
		if l.hasTailCall(last.Then.Stmts) {
			return true
		}
		return last.Else != nil && l.hasTailCall(last.Else.Stmts)
	case *ast.Block:
		return l.hasTailCall(last.Stmts)
	}
	return false
}

func (l *loop) rewrite(stmts []ast.Stmt) []ast.Stmt {
	if len(stmts) == 0 {
		return stmts
	}
	out := append([]ast.Stmt{}, stmts[:len(stmts)-1]...)
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.Return:
		call, ok := l.selfCall(last)
		if !ok {
			return append(out, last)
		}
		return append(out, l.jump(last, call)...)
	case *ast.If:
		c := *last
		c.Then = l.block(last.Then)
		c.Else = l.block(last.Else)
		return append(out, &c)
	case *ast.Block:
		return append(out, l.block(last))
	default:
		return append(out, last)
	}
}

func (l *loop) block(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	return &ast.Block{Loc: b.Loc, Stmts: l.rewrite(b.Stmts)}
}

// jump replaces a tail call by the update of the parameters.
func (l *loop) jump(ret *ast.Return, call *ast.Call) []ast.Stmt {
	var decls, assigns []ast.Stmt
	for i, p := range l.fn.Params {
		tmp := l.names.Indexed(fmt.Sprintf("__tco_tmp_%s_", p.Name))
		decls = append(decls, &ast.VarDecl{
			Loc:   ret.Loc,
			Name:  tmp,
			Type:  known(p.Type),
			Value: call.Args[i],
		})
		assigns = append(assigns, &ast.Assign{
			Loc:    ret.Loc,
			Target: ah.Ident(p.Name),
			Value:  ah.Ident(tmp),
		})
	}
	stmts := append(decls, assigns...)
	return append(stmts, &ast.Assign{
		Loc:    ret.Loc,
		Target: ah.Ident(l.cont),
		Value:  ah.Bool(true),
	})
}

// zeroValue returns the literal of the zero value of a primitive type.
// It returns nil if the type has no literal or is void.
func zeroValue(t types.Type) ast.Expr {
	if !types.IsKnown(t) || t.Kind() != types.HostKind {
		return nil
	}
	switch t.Name() {
	case types.BoolName:
		return ah.Bool(false)
	case types.StringName:
		return ah.String("")
	}
	seniority, ok := types.SeniorityOf(t)
	if !ok {
		return nil
	}
	switch seniority {
	case types.FloatSeniority, types.DoubleSeniority:
		return ah.Float(0)
	case types.DecimalSeniority:
		return &ast.Literal{Value: decimal.Zero}
	}
	return ah.Int(0)
}
