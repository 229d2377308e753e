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

// Package astfmt renders a tree as canonical source text.
//
// Two trees are structurally identical if and only if they render to the
// same text, which is how tests compare rewritten trees.
package astfmt

import (
	"fmt"
	"strconv"
	"strings"

	fifthfmt "github.com/fifthlang/fifth/base/fmt"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/types"
	"github.com/shopspring/decimal"
)

// String returns the source text of a node.
func String(n ast.Node) string {
	switch n := n.(type) {
	case nil:
		return "<nil>"
	case ast.Expr:
		return expr(n)
	case ast.Stmt:
		return stmt(n)
	case ast.Member:
		return member(n)
	case *ast.Module:
		return module(n)
	case *ast.Param:
		return param(n)
	case *ast.Destructure:
		return destructure(n)
	case *ast.Binding:
		return binding(n)
	}
	return fmt.Sprintf("<unsupported %T>", n)
}

func module(m *ast.Module) string {
	lines := []string{"module " + m.Name}
	for _, mem := range m.Members {
		lines = append(lines, member(mem))
	}
	return strings.TrimSuffix(fifthfmt.Lines(lines), "\n")
}

func member(m ast.Member) string {
	switch m := m.(type) {
	case *ast.Class:
		return class(m)
	case *ast.Field:
		s := m.Name + ": " + typ(m.Type)
		if m.ReadOnly {
			s = "readonly " + s
		}
		return s
	case *ast.FuncDecl:
		return funcDecl(m)
	}
	return fmt.Sprintf("<unsupported %T>", m)
}

func class(c *ast.Class) string {
	var s strings.Builder
	s.WriteString("class " + c.Name)
	if len(c.Bases) > 0 {
		s.WriteString(" : " + typeList(c.Bases))
	}
	members := make([]string, len(c.Members))
	for i, m := range c.Members {
		members[i] = member(m)
	}
	s.WriteString(" " + body(members))
	return s.String()
}

func funcDecl(f *ast.FuncDecl) string {
	keyword := "func"
	if f.Ctor {
		keyword = "ctor"
	}
	return keyword + " " + f.Name + signature(f.Params, f.Result) + " " + block(f.Body)
}

func signature(params []*ast.Param, result types.Type) string {
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = param(p)
	}
	s := "(" + strings.Join(ps, ", ") + ")"
	if result != nil && result.Kind() != types.VoidKind {
		s += ": " + typ(result)
	}
	return s
}

func param(p *ast.Param) string {
	s := p.Name
	if p.Type != nil {
		s += ": " + typ(p.Type)
	}
	if p.Destructure != nil {
		s += " " + destructure(p.Destructure)
	}
	if p.Guard != nil {
		s += " | " + expr(p.Guard)
	}
	return s
}

func destructure(d *ast.Destructure) string {
	bs := make([]string, len(d.Bindings))
	for i, b := range d.Bindings {
		bs[i] = binding(b)
	}
	return "{" + strings.Join(bs, ", ") + "}"
}

func binding(b *ast.Binding) string {
	s := b.Name + ": " + b.Prop
	if b.Nested != nil {
		s += " " + destructure(b.Nested)
	}
	return s
}

func body(lines []string) string {
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + fifthfmt.Indent(fifthfmt.Lines(lines)) + "}"
}

func block(b *ast.Block) string {
	if b == nil {
		return "{}"
	}
	lines := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		lines[i] = stmt(s)
	}
	return body(lines)
}

func stmt(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.Block:
		return block(s)
	case *ast.VarDecl:
		out := "var " + s.Name
		if s.Type != nil {
			out += ": " + typ(s.Type)
		}
		if s.Value != nil {
			out += " = " + expr(s.Value)
		}
		return out + ";"
	case *ast.Assign:
		return expr(s.Target) + " = " + expr(s.Value) + ";"
	case *ast.AugAssign:
		return expr(s.Target) + " " + s.Op.String() + "= " + expr(s.Value) + ";"
	case *ast.ExprStmt:
		return expr(s.X) + ";"
	case *ast.If:
		out := "if (" + expr(s.Cond) + ") " + block(s.Then)
		if s.Else != nil {
			out += " else " + block(s.Else)
		}
		return out
	case *ast.While:
		return "while (" + expr(s.Cond) + ") " + block(s.Body)
	case *ast.Foreach:
		v := s.Var
		if s.VarType != nil {
			v += ": " + typ(s.VarType)
		}
		return "foreach (" + v + " in " + expr(s.Over) + ") " + block(s.Body)
	case *ast.Return:
		if s.Value == nil {
			return "return;"
		}
		return "return " + expr(s.Value) + ";"
	}
	return fmt.Sprintf("<unsupported %T>", s)
}

func expr(x ast.Expr) string {
	switch x := x.(type) {
	case nil:
		return "<nil>"
	case *ast.Ident:
		return x.Name
	case *ast.This:
		return "this"
	case *ast.Literal:
		return literal(x.Value)
	case *ast.Binary:
		return operand(x.X) + " " + x.Op.String() + " " + operand(x.Y)
	case *ast.Unary:
		return x.Op.String() + operand(x.X)
	case *ast.Call:
		return operand(x.Fun) + "(" + exprList(x.Args) + ")"
	case *ast.Selector:
		return operand(x.X) + "." + x.Sel
	case *ast.New:
		return "new " + typ(x.Class) + "(" + exprList(x.Args) + ")"
	case *ast.Lambda:
		return "fun" + signature(x.Params, x.Result) + " " + block(x.Body)
	case *ast.ListLit:
		return "[" + exprList(x.Elems) + "]"
	case *ast.ListComp:
		s := "[" + expr(x.Proj) + " from " + x.Var + " in " + expr(x.Over)
		if x.Cond != nil {
			s += " where " + expr(x.Cond)
		}
		return s + "]"
	case *ast.Index:
		return operand(x.X) + "[" + expr(x.Index) + "]"
	}
	return fmt.Sprintf("<unsupported %T>", x)
}

func operand(x ast.Expr) string {
	switch x.(type) {
	case *ast.Binary, *ast.Unary, *ast.Lambda:
		return "(" + expr(x) + ")"
	}
	return expr(x)
}

func exprList(xs []ast.Expr) string {
	ss := make([]string, len(xs))
	for i, x := range xs {
		ss[i] = expr(x)
	}
	return strings.Join(ss, ", ")
}

func literal(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	case decimal.Decimal:
		return v.String() + "m"
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprintf("<literal %T>", v)
}

func typ(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeList(ts []types.Type) string {
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = typ(t)
	}
	return strings.Join(ss, ", ")
}
