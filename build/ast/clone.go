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

package ast

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/slices"
)

// Clone returns a deep copy of a tree.
// Types and literal values are shared between the copies.
func Clone[T Node](n T) T {
	var zero T
	if v := reflect.ValueOf(n); !v.IsValid() || v.IsNil() {
		return zero
	}
	return cloneNode(n).(T)
}

func cloneExprs(xs []Expr) []Expr {
	if xs == nil {
		return nil
	}
	out := make([]Expr, len(xs))
	for i, x := range xs {
		out[i] = cloneExpr(x)
	}
	return out
}

func cloneExpr(x Expr) Expr {
	if x == nil {
		return nil
	}
	return cloneNode(x).(Expr)
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return cloneNode(b).(*Block)
}

func cloneDestructure(d *Destructure) *Destructure {
	if d == nil {
		return nil
	}
	return cloneNode(d).(*Destructure)
}

func cloneParams(ps []*Param) []*Param {
	if ps == nil {
		return nil
	}
	out := make([]*Param, len(ps))
	for i, p := range ps {
		out[i] = cloneNode(p).(*Param)
	}
	return out
}

func cloneMembers(ms []Member) []Member {
	if ms == nil {
		return nil
	}
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = cloneNode(m).(Member)
	}
	return out
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *Module:
		c := *n
		c.Members = cloneMembers(n.Members)
		return &c
	case *Class:
		c := *n
		c.Bases = slices.Clone(n.Bases)
		c.Members = cloneMembers(n.Members)
		return &c
	case *Field:
		c := *n
		return &c
	case *FuncDecl:
		c := *n
		c.Params = cloneParams(n.Params)
		c.Body = cloneBlock(n.Body)
		return &c
	case *Param:
		c := *n
		c.Destructure = cloneDestructure(n.Destructure)
		c.Guard = cloneExpr(n.Guard)
		return &c
	case *Destructure:
		c := *n
		c.Bindings = make([]*Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			c.Bindings[i] = cloneNode(b).(*Binding)
		}
		return &c
	case *Binding:
		c := *n
		c.Nested = cloneDestructure(n.Nested)
		return &c
	case *Block:
		c := *n
		c.Stmts = make([]Stmt, len(n.Stmts))
		for i, s := range n.Stmts {
			c.Stmts[i] = cloneNode(s).(Stmt)
		}
		return &c
	case *VarDecl:
		c := *n
		c.Value = cloneExpr(n.Value)
		return &c
	case *Assign:
		c := *n
		c.Target = cloneExpr(n.Target)
		c.Value = cloneExpr(n.Value)
		return &c
	case *AugAssign:
		c := *n
		c.Target = cloneExpr(n.Target)
		c.Value = cloneExpr(n.Value)
		return &c
	case *ExprStmt:
		c := *n
		c.X = cloneExpr(n.X)
		return &c
	case *If:
		c := *n
		c.Cond = cloneExpr(n.Cond)
		c.Then = cloneBlock(n.Then)
		c.Else = cloneBlock(n.Else)
		return &c
	case *While:
		c := *n
		c.Cond = cloneExpr(n.Cond)
		c.Body = cloneBlock(n.Body)
		return &c
	case *Foreach:
		c := *n
		c.Over = cloneExpr(n.Over)
		c.Body = cloneBlock(n.Body)
		return &c
	case *Return:
		c := *n
		c.Value = cloneExpr(n.Value)
		return &c
	case *Ident:
		c := *n
		return &c
	case *This:
		c := *n
		return &c
	case *Literal:
		c := *n
		return &c
	case *Binary:
		c := *n
		c.X = cloneExpr(n.X)
		c.Y = cloneExpr(n.Y)
		return &c
	case *Unary:
		c := *n
		c.X = cloneExpr(n.X)
		return &c
	case *Call:
		c := *n
		c.Fun = cloneExpr(n.Fun)
		c.Args = cloneExprs(n.Args)
		return &c
	case *Selector:
		c := *n
		c.X = cloneExpr(n.X)
		return &c
	case *New:
		c := *n
		c.Args = cloneExprs(n.Args)
		return &c
	case *Lambda:
		c := *n
		c.Params = cloneParams(n.Params)
		c.Body = cloneBlock(n.Body)
		return &c
	case *ListLit:
		c := *n
		c.Elems = cloneExprs(n.Elems)
		return &c
	case *ListComp:
		c := *n
		c.Proj = cloneExpr(n.Proj)
		c.Over = cloneExpr(n.Over)
		c.Cond = cloneExpr(n.Cond)
		return &c
	case *Index:
		c := *n
		c.X = cloneExpr(n.X)
		c.Index = cloneExpr(n.Index)
		return &c
	default:
		panic(fmt.Sprintf("cannot clone %T: node not supported", n))
	}
}
