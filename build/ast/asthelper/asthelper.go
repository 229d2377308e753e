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

// Package asthelper provides helper functions to build trees programmatically.
package asthelper

import (
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
	"github.com/shopspring/decimal"
)

// Module returns a module given its members.
func Module(name string, members ...ast.Member) *ast.Module {
	return &ast.Module{Name: name, Members: members}
}

// Class returns a class given its members.
func Class(name string, members ...ast.Member) *ast.Class {
	return &ast.Class{Name: name, Members: members}
}

// Field returns a mutable field.
func Field(name string, typ types.Type) *ast.Field {
	return &ast.Field{Name: name, Type: typ}
}

// Func returns a function declaration.
func Func(name string, params []*ast.Param, result types.Type, stmts ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name:   name,
		Params: params,
		Result: result,
		Body:   Block(stmts...),
	}
}

// Params returns its arguments as a slice.
func Params(ps ...*ast.Param) []*ast.Param {
	return ps
}

// Param returns a parameter without a guard.
func Param(name string, typ types.Type) *ast.Param {
	return &ast.Param{Name: name, Type: typ}
}

// Guarded returns a parameter with a guard.
func Guarded(name string, typ types.Type, guard ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Type: typ, Guard: guard}
}

// Destructured returns a parameter whose properties are bound to names.
func Destructured(name string, typ types.Type, bindings ...*ast.Binding) *ast.Param {
	return &ast.Param{Name: name, Type: typ, Destructure: &ast.Destructure{Bindings: bindings}}
}

// Bind returns a binding of a property to a name.
// Nested bindings destructure the property itself.
func Bind(name, prop string, nested ...*ast.Binding) *ast.Binding {
	b := &ast.Binding{Name: name, Prop: prop}
	if len(nested) > 0 {
		b.Nested = &ast.Destructure{Bindings: nested}
	}
	return b
}

// Block returns a block of statements.
func Block(stmts ...ast.Stmt) *ast.Block {
	if stmts == nil {
		stmts = []ast.Stmt{}
	}
	return &ast.Block{Stmts: stmts}
}

// Var declares a local variable. typ can be nil.
func Var(name string, typ types.Type, value ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Name: name, Type: typ, Value: value}
}

// Assign returns an assignment.
func Assign(target, value ast.Expr) *ast.Assign {
	return &ast.Assign{Target: target, Value: value}
}

// AugAssign returns an augmented assignment.
func AugAssign(op token.Op, target, value ast.Expr) *ast.AugAssign {
	return &ast.AugAssign{Op: op, Target: target, Value: value}
}

// ExprStmt returns an expression statement.
func ExprStmt(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

// If returns an if statement without an else branch.
func If(cond ast.Expr, then ...ast.Stmt) *ast.If {
	return &ast.If{Cond: cond, Then: Block(then...)}
}

// IfElse returns an if statement with an else branch.
func IfElse(cond ast.Expr, then, els *ast.Block) *ast.If {
	return &ast.If{Cond: cond, Then: then, Else: els}
}

// While returns a while loop.
func While(cond ast.Expr, stmts ...ast.Stmt) *ast.While {
	return &ast.While{Cond: cond, Body: Block(stmts...)}
}

// Foreach returns a loop over the elements of a list.
func Foreach(v string, over ast.Expr, stmts ...ast.Stmt) *ast.Foreach {
	return &ast.Foreach{Var: v, Over: over, Body: Block(stmts...)}
}

// Return returns a return statement. x can be nil.
func Return(x ast.Expr) *ast.Return {
	return &ast.Return{Value: x}
}

// Ident returns an identifier.
func Ident(name string) *ast.Ident {
	return &ast.Ident{Name: name}
}

// Idents returns identifiers given their names.
func Idents(names ...string) []ast.Expr {
	xs := make([]ast.Expr, len(names))
	for i, name := range names {
		xs[i] = Ident(name)
	}
	return xs
}

// Int returns an integer literal.
func Int(v int64) *ast.Literal {
	return &ast.Literal{Value: v}
}

// Float returns a floating point literal.
func Float(v float64) *ast.Literal {
	return &ast.Literal{Value: v}
}

// Decimal returns a decimal literal. It panics if s is not a number.
func Decimal(s string) *ast.Literal {
	return &ast.Literal{Value: decimal.RequireFromString(s)}
}

// Bool returns a boolean literal.
func Bool(v bool) *ast.Literal {
	return &ast.Literal{Value: v}
}

// String returns a string literal.
func String(v string) *ast.Literal {
	return &ast.Literal{Value: v}
}

// Binary returns a binary operation.
func Binary(op token.Op, x, y ast.Expr) *ast.Binary {
	return &ast.Binary{Op: op, X: x, Y: y}
}

// Unary returns a unary operation.
func Unary(op token.Op, x ast.Expr) *ast.Unary {
	return &ast.Unary{Op: op, X: x}
}

// Call returns a call to a function given its name.
func Call(name string, args ...ast.Expr) *ast.Call {
	return &ast.Call{Fun: Ident(name), Args: args}
}

// CallExpr returns a call of a function value.
func CallExpr(fun ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Fun: fun, Args: args}
}

// Sel returns a selector expression.
func Sel(x ast.Expr, name string) *ast.Selector {
	return &ast.Selector{X: x, Sel: name}
}

// This returns a reference to the receiver of a method.
func This() *ast.This {
	return &ast.This{}
}

// New returns the construction of an instance of a class.
func New(class types.Type, args ...ast.Expr) *ast.New {
	return &ast.New{Class: class, Args: args}
}

// Lambda returns an anonymous function.
func Lambda(params []*ast.Param, result types.Type, stmts ...ast.Stmt) *ast.Lambda {
	return &ast.Lambda{Params: params, Result: result, Body: Block(stmts...)}
}

// List returns a list literal.
func List(elems ...ast.Expr) *ast.ListLit {
	if elems == nil {
		elems = []ast.Expr{}
	}
	return &ast.ListLit{Elems: elems}
}

// Comp returns a list comprehension. cond can be nil.
func Comp(proj ast.Expr, v string, over, cond ast.Expr) *ast.ListComp {
	return &ast.ListComp{Proj: proj, Var: v, Over: over, Cond: cond}
}

// Index returns an index expression.
func Index(x, index ast.Expr) *ast.Index {
	return &ast.Index{X: x, Index: index}
}
