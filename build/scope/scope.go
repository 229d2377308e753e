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

// Package scope builds the symbol tables of a tree and resolves names.
//
// Every scope node of a tree (module, class, function, block, loop,
// lambda, and list comprehension) owns a table. A name is resolved by
// looking up the nearest enclosing scope of a node, then its ancestors,
// stopping at the first table declaring the name.
package scope

import (
	"fmt"
	"iter"

	"github.com/fifthlang/fifth/base/ordered"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pkg/errors"
)

// Kind of a symbol.
type Kind int

// Symbol kinds.
const (
	ClassSym Kind = iota
	FunctionSym
	FieldSym
	ParamSym
	VarSym
	BindingSym
	ComprehensionVarSym
)

var kindToString = map[Kind]string{
	ClassSym:            "class",
	FunctionSym:         "function",
	FieldSym:            "field",
	ParamSym:            "parameter",
	VarSym:              "variable",
	BindingSym:          "binding",
	ComprehensionVarSym: "comprehension variable",
}

func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// VariableLike returns true if symbols of this kind hold a value that
// can be captured by a lambda.
func (k Kind) VariableLike() bool {
	switch k {
	case ParamSym, VarSym, BindingSym, ComprehensionVarSym:
		return true
	default:
		return false
	}
}

// Symbol identifies a declaration in a scope.
type Symbol struct {
	Name string
	Kind Kind
}

func (s Symbol) String() string {
	return s.Kind.String() + " " + s.Name
}

// Entry of a symbol table.
type Entry struct {
	Symbol Symbol
	// Decl is the node declaring the symbol.
	Decl ast.Node
	// Type of the symbol. Unknown until it has been inferred.
	Type types.Type
}

// DuplicateSymbolError is returned when a symbol is declared twice
// in the same scope.
type DuplicateSymbolError struct {
	Symbol Symbol
	// Prev is the declaration kept in the table.
	Prev ast.Node
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("%s already declared", e.Symbol)
}

// DuplicateSymbol is the diagnostic code of duplicate declarations.
const DuplicateSymbol diag.Code = "DuplicateSymbol"

// Table maps symbols to their declaration in a scope.
type Table struct {
	entries *ordered.Map[Symbol, *Entry]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: ordered.NewMap[Symbol, *Entry]()}
}

// Declare a symbol in the table. The first declaration of a symbol wins:
// declaring it again returns a DuplicateSymbolError and keeps the table
// unchanged.
func (t *Table) Declare(sym Symbol, decl ast.Node, typ types.Type) (*Entry, error) {
	if typ == nil {
		typ = types.Unknown()
	}
	entry := &Entry{Symbol: sym, Decl: decl, Type: typ}
	prev, stored := t.entries.StoreIfAbsent(sym, entry)
	if !stored {
		return prev, errors.WithStack(&DuplicateSymbolError{Symbol: sym, Prev: prev.Decl})
	}
	return entry, nil
}

// Lookup a symbol in the table only.
func (t *Table) Lookup(sym Symbol) (*Entry, bool) {
	return t.entries.Load(sym)
}

// LookupName returns the first entry declared with a given name,
// regardless of its kind.
func (t *Table) LookupName(name string) (*Entry, bool) {
	for sym, entry := range t.entries.Iter() {
		if sym.Name == name {
			return entry, true
		}
	}
	return nil, false
}

// Entries returns the entries of the table in declaration order.
func (t *Table) Entries() iter.Seq[*Entry] {
	return t.entries.Values()
}

// Size returns the number of entries in the table.
func (t *Table) Size() int {
	return t.entries.Size()
}
