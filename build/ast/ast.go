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

// Package ast defines the tree processed by the compiler middle-end.
//
// The set of nodes is closed: every node is one of the types declared in
// this package. Expressions carry their inferred type in a field so that
// annotations persist across passes. Parent links are not stored in the
// nodes but computed by Link.
package ast

import (
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
)

type (
	// Node in the tree.
	Node interface {
		Position() diag.Pos
		node()
	}

	// Expr is an expression.
	Expr interface {
		Node
		// Type returns the inferred type of the expression.
		// Nil if the expression has not been annotated yet.
		Type() types.Type
		// SetType annotates the expression with its type.
		SetType(types.Type)
		expr()
	}

	// Stmt is a statement.
	Stmt interface {
		Node
		stmt()
	}

	// Member is a declaration at the module or class level.
	Member interface {
		Node
		member()
	}

	// Scope is a node owning a symbol table.
	Scope interface {
		Node
		scope()
	}
)

// Loc is the optional source location of a node.
type Loc struct {
	Pos diag.Pos
}

// Position returns the location of the node in the source.
func (l Loc) Position() diag.Pos { return l.Pos }

// Typed stores the type annotation of an expression.
type Typed struct {
	T types.Type
}

// Type returns the inferred type of the expression.
func (t *Typed) Type() types.Type { return t.T }

// SetType annotates the expression with its type.
func (t *Typed) SetType(typ types.Type) { t.T = typ }

type (
	// Module is a compilation unit.
	Module struct {
		Loc
		Name    string
		Members []Member
	}

	// Class declares a user type.
	Class struct {
		Loc
		Name    string
		Bases   []types.Type
		Members []Member
	}

	// Field of a class.
	Field struct {
		Loc
		Name     string
		Type     types.Type
		ReadOnly bool
	}

	// FuncDecl declares a function, a method, or a constructor.
	// A function declared in a class is a method.
	FuncDecl struct {
		Loc
		Name   string
		Params []*Param
		Result types.Type
		Body   *Block
		// Ctor is true if the function is a constructor of its class.
		Ctor bool
	}

	// Param is a function or lambda parameter.
	Param struct {
		Loc
		Name string
		Type types.Type
		// Destructure binds properties of the parameter to new names.
		Destructure *Destructure
		// Guard restricts when the function applies. Nil if absent.
		Guard Expr
	}

	// Destructure lists the bindings of a destructured value.
	Destructure struct {
		Loc
		Bindings []*Binding
	}

	// Binding declares a variable bound to a property of a value.
	Binding struct {
		Loc
		Name string
		Prop string
		// Type of the property. Set by type annotation.
		Type types.Type
		// Nested destructures the property itself.
		Nested *Destructure
	}
)

type (
	// Block is a sequence of statements.
	Block struct {
		Loc
		Stmts []Stmt
	}

	// VarDecl declares a local variable.
	VarDecl struct {
		Loc
		Name string
		// Type of the variable. Nil if it is inferred from its value.
		Type  types.Type
		Value Expr
	}

	// Assign stores a value in a variable, a field, or an element.
	Assign struct {
		Loc
		Target Expr
		Value  Expr
	}

	// AugAssign applies an operator to a target and a value, and stores
	// the result in the target, as in x += 1.
	AugAssign struct {
		Loc
		Op     token.Op
		Target Expr
		Value  Expr
	}

	// ExprStmt evaluates an expression for its side effects.
	ExprStmt struct {
		Loc
		X Expr
	}

	// If statement. Else is nil if absent.
	If struct {
		Loc
		Cond Expr
		Then *Block
		Else *Block
	}

	// While loop.
	While struct {
		Loc
		Cond Expr
		Body *Block
	}

	// Foreach iterates over the elements of a list.
	Foreach struct {
		Loc
		Var     string
		VarType types.Type
		Over    Expr
		Body    *Block
	}

	// Return statement. Value is nil in functions returning void.
	Return struct {
		Loc
		Value Expr
	}
)

type (
	// Ident references a variable, a parameter, or a function.
	Ident struct {
		Loc
		Typed
		Name string
	}

	// This references the receiver of a method.
	This struct {
		Loc
		Typed
	}

	// Literal is a constant value. The value is one of:
	// bool, int64, float64, decimal.Decimal, string.
	Literal struct {
		Loc
		Typed
		Value any
	}

	// Binary operation. CoerceX and CoerceY, if not nil, are the types
	// the operands are converted to before the operation is applied.
	Binary struct {
		Loc
		Typed
		Op      token.Op
		X, Y    Expr
		CoerceX types.Type
		CoerceY types.Type
	}

	// Unary operation.
	Unary struct {
		Loc
		Typed
		Op token.Op
		X  Expr
	}

	// Call of a function or a method.
	Call struct {
		Loc
		Typed
		Fun  Expr
		Args []Expr
	}

	// Selector accesses a field or a method of a value.
	Selector struct {
		Loc
		Typed
		X   Expr
		Sel string
	}

	// New constructs an instance of a class.
	New struct {
		Loc
		Typed
		Class types.Type
		Args  []Expr
	}

	// Lambda is an anonymous function.
	Lambda struct {
		Loc
		Typed
		Params []*Param
		Result types.Type
		Body   *Block
	}

	// ListLit is a list literal.
	ListLit struct {
		Loc
		Typed
		Elems []Expr
	}

	// ListComp is a list comprehension: [Proj from Var in Over where Cond].
	// Cond is nil if absent.
	ListComp struct {
		Loc
		Typed
		Proj Expr
		Var  string
		Over Expr
		Cond Expr
	}

	// Index accesses an element of a list or an array.
	Index struct {
		Loc
		Typed
		X     Expr
		Index Expr
	}
)

func (*Module) node()      {}
func (*Class) node()       {}
func (*Field) node()       {}
func (*FuncDecl) node()    {}
func (*Param) node()       {}
func (*Destructure) node() {}
func (*Binding) node()     {}
func (*Block) node()       {}
func (*VarDecl) node()     {}
func (*Assign) node()      {}
func (*AugAssign) node()   {}
func (*ExprStmt) node()    {}
func (*If) node()          {}
func (*While) node()       {}
func (*Foreach) node()     {}
func (*Return) node()      {}
func (*Ident) node()       {}
func (*This) node()        {}
func (*Literal) node()     {}
func (*Binary) node()      {}
func (*Unary) node()       {}
func (*Call) node()        {}
func (*Selector) node()    {}
func (*New) node()         {}
func (*Lambda) node()      {}
func (*ListLit) node()     {}
func (*ListComp) node()    {}
func (*Index) node()       {}

func (*Class) member()    {}
func (*Field) member()    {}
func (*FuncDecl) member() {}

func (*Block) stmt()     {}
func (*VarDecl) stmt()   {}
func (*Assign) stmt()    {}
func (*AugAssign) stmt() {}
func (*ExprStmt) stmt()  {}
func (*If) stmt()        {}
func (*While) stmt()     {}
func (*Foreach) stmt()   {}
func (*Return) stmt()    {}

func (*Ident) expr()    {}
func (*This) expr()     {}
func (*Literal) expr()  {}
func (*Binary) expr()   {}
func (*Unary) expr()    {}
func (*Call) expr()     {}
func (*Selector) expr() {}
func (*New) expr()      {}
func (*Lambda) expr()   {}
func (*ListLit) expr()  {}
func (*ListComp) expr() {}
func (*Index) expr()    {}

func (*Module) scope()   {}
func (*Class) scope()    {}
func (*FuncDecl) scope() {}
func (*Block) scope()    {}
func (*Foreach) scope()  {}
func (*Lambda) scope()   {}
func (*ListComp) scope() {}

// FuncType returns the type of a function given its parameters and result.
// A nil result is void.
func FuncType(params []*Param, result types.Type) *types.Func {
	ft := &types.Func{Params: make([]types.Type, len(params)), Result: result}
	for i, p := range params {
		ft.Params[i] = p.Type
		if ft.Params[i] == nil {
			ft.Params[i] = types.Unknown()
		}
	}
	if ft.Result == nil {
		ft.Result = types.Void()
	}
	return ft
}

// HasGuard returns true if one parameter of a function has a guard.
func HasGuard(fn *FuncDecl) bool {
	for _, p := range fn.Params {
		if p.Guard != nil {
			return true
		}
	}
	return false
}
