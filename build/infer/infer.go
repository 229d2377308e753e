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

// Package infer annotates expressions with their type.
//
// Inference is local: the type of an expression is computed from the
// type of its operands and of the declarations it references. Variables
// declared without a type take the type of their value.
package infer

import (
	"math"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/scope"
	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
	"github.com/shopspring/decimal"
)

// TypeError is the diagnostic code of operands with incompatible types.
const TypeError diag.Code = "TYPE001"

type annotator struct {
	reg  *types.Registry
	info *scope.Info
	errs *diag.Appender
}

// Annotate sets the type of all the expressions of a tree.
// Expressions that already have a type are not annotated again.
// After annotation, the type of every expression is either a known type
// or unknown, never nil.
func Annotate(root ast.Node, info *scope.Info, reg *types.Registry, errs *diag.Appender) {
	a := &annotator{reg: reg, info: info, errs: errs}
	ast.Inspect(root, a.visit)
}

func (a *annotator) visit(n ast.Node) bool {
	switch n := n.(type) {
	case ast.Expr:
		a.expr(n)
		return false
	case *ast.Class:
		a.reg.Register(&types.User{TypeName: n.Name})
	case *ast.Param:
		a.param(n)
	case *ast.VarDecl:
		if n.Value == nil {
			return false
		}
		valT := a.expr(n.Value)
		if n.Type == nil {
			a.setEntryType(n, scope.Symbol{Name: n.Name, Kind: scope.VarSym}, valT)
		}
		return false
	case *ast.Foreach:
		overT := a.expr(n.Over)
		if n.VarType == nil {
			a.setEntryType(n, scope.Symbol{Name: n.Var, Kind: scope.VarSym}, elemType(overT))
		}
	}
	return true
}

func (a *annotator) setEntryType(decl ast.Node, sym scope.Symbol, typ types.Type) {
	entry, ok := a.info.Resolve(decl, sym)
	if !ok || entry.Decl != decl {
		return
	}
	if types.IsKnown(entry.Type) {
		return
	}
	entry.Type = typ
}

func (a *annotator) param(p *ast.Param) {
	if p.Destructure == nil {
		return
	}
	a.destructure(p.Destructure, p.Type)
}

func (a *annotator) destructure(d *ast.Destructure, of types.Type) {
	for _, b := range d.Bindings {
		if b.Type == nil {
			b.Type = a.fieldType(of, b.Prop)
		}
		a.setEntryType(b, scope.Symbol{Name: b.Name, Kind: scope.BindingSym}, b.Type)
		if b.Nested != nil {
			a.destructure(b.Nested, b.Type)
		}
	}
}

// class returns the declaration of a user type.
func (a *annotator) class(t types.Type) *ast.Class {
	user, ok := t.(*types.User)
	if !ok {
		return nil
	}
	root := a.info.Parents().Root()
	entry, ok := a.info.Resolve(root, scope.Symbol{Name: user.TypeName, Kind: scope.ClassSym})
	if !ok {
		return nil
	}
	class, _ := entry.Decl.(*ast.Class)
	return class
}

// fieldType returns the type of a field or a method of a user type.
func (a *annotator) fieldType(t types.Type, name string) types.Type {
	class := a.class(t)
	if class == nil {
		return types.Unknown()
	}
	table := a.info.Table(class)
	if entry, ok := table.Lookup(scope.Symbol{Name: name, Kind: scope.FieldSym}); ok {
		return entry.Type
	}
	if entry, ok := table.Lookup(scope.Symbol{Name: name, Kind: scope.FunctionSym}); ok {
		return entry.Type
	}
	return types.Unknown()
}

func elemType(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.List:
		return t.Elem
	case *types.Array:
		return t.Elem
	}
	return types.Unknown()
}

func (a *annotator) exprs(xs []ast.Expr) {
	for _, x := range xs {
		a.expr(x)
	}
}

// expr annotates an expression and returns its type.
func (a *annotator) expr(x ast.Expr) types.Type {
	if x == nil {
		return types.Unknown()
	}
	if t := x.Type(); t != nil {
		return t
	}
	var t types.Type
	switch x := x.(type) {
	case *ast.Ident:
		t = a.ident(x)
	case *ast.This:
		t = a.this(x)
	case *ast.Literal:
		t = a.literal(x)
	case *ast.Binary:
		t = a.binary(x)
	case *ast.Unary:
		t = a.expr(x.X)
		if x.Op == token.Not {
			t = a.reg.Prim(types.BoolName)
		}
	case *ast.Call:
		t = a.call(x)
	case *ast.Selector:
		t = a.fieldType(a.expr(x.X), x.Sel)
	case *ast.New:
		a.exprs(x.Args)
		t = x.Class
		if types.IsKnown(t) {
			a.reg.Register(t)
		}
	case *ast.Lambda:
		// Set the type first: the body can reference the lambda
		// through its enclosing declaration.
		t = ast.FuncType(x.Params, x.Result)
		x.SetType(t)
		for _, p := range x.Params {
			ast.Inspect(p, a.visit)
		}
		ast.Inspect(x.Body, a.visit)
	case *ast.ListLit:
		a.exprs(x.Elems)
		var elem types.Type = types.Unknown()
		if len(x.Elems) > 0 {
			elem = x.Elems[0].Type()
		}
		t = &types.List{Elem: elem}
	case *ast.ListComp:
		overT := a.expr(x.Over)
		a.setEntryType(x, scope.Symbol{Name: x.Var, Kind: scope.ComprehensionVarSym}, elemType(overT))
		a.expr(x.Cond)
		t = &types.List{Elem: a.expr(x.Proj)}
	case *ast.Index:
		a.expr(x.Index)
		t = elemType(a.expr(x.X))
	default:
		a.errs.AppendInternalf(x, "cannot infer the type of %T", x)
	}
	if t == nil {
		t = types.Unknown()
	}
	x.SetType(t)
	return t
}

func (a *annotator) ident(x *ast.Ident) types.Type {
	entry, ok := a.info.ResolveByName(x, x.Name)
	if !ok {
		// Names provided by the host runtime are not declared in the tree.
		return types.Unknown()
	}
	return entry.Type
}

func (a *annotator) this(x *ast.This) types.Type {
	parents := a.info.Parents()
	for n := parents.Parent(x); n != nil; n = parents.Parent(n) {
		if class, ok := n.(*ast.Class); ok {
			return &types.User{TypeName: class.Name}
		}
	}
	return types.Unknown()
}

func (a *annotator) literal(x *ast.Literal) types.Type {
	switch v := x.Value.(type) {
	case bool:
		return a.reg.Prim(types.BoolName)
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return a.reg.Prim(types.LongName)
		}
		return a.reg.Prim(types.IntName)
	case float64:
		return a.reg.Prim(types.DoubleName)
	case decimal.Decimal:
		return a.reg.Prim(types.DecimalName)
	case string:
		return a.reg.Prim(types.StringName)
	}
	a.errs.AppendInternalf(x, "literal of unsupported type %T", x.Value)
	return types.Unknown()
}

func (a *annotator) call(x *ast.Call) types.Type {
	funT := a.expr(x.Fun)
	a.exprs(x.Args)
	if ft, ok := funT.(*types.Func); ok {
		return ft.Result
	}
	return types.Unknown()
}

func (a *annotator) binary(x *ast.Binary) types.Type {
	lt, rt := a.expr(x.X), a.expr(x.Y)
	if !types.IsKnown(lt) || !types.IsKnown(rt) {
		// An error has already been reported or the operand comes
		// from the host runtime.
		return types.Unknown()
	}
	if lt.Kind() == types.VoidKind || rt.Kind() == types.VoidKind {
		a.errs.Errorf(x, TypeError, "operator %s applied to a void value", x.Op)
		return types.Unknown()
	}
	lhs, rhs := a.reg.Register(lt), a.reg.Register(rt)
	coercion, err := types.OperatorResultType(a.reg, x.Op, lhs, rhs)
	if err != nil {
		a.errs.AppendErr(x, TypeError, err)
		return types.Unknown()
	}
	if coercion.CoerceLHS != 0 {
		x.CoerceX, _ = a.reg.Lookup(coercion.CoerceLHS)
	}
	if coercion.CoerceRHS != 0 {
		x.CoerceY, _ = a.reg.Lookup(coercion.CoerceRHS)
	}
	t, ok := a.reg.Lookup(coercion.Result)
	if !ok {
		return types.Unknown()
	}
	return t
}
