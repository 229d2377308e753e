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

package scope

import (
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pkg/errors"
)

type builder struct {
	info *Info
	errs *diag.Appender
}

// Build declares all the symbols of a tree in the tables of their
// scope. Duplicate declarations are reported as diagnostics: the first
// declaration is kept. Clauses of an overloaded function share a single
// function symbol.
func Build(root ast.Node, parents *ast.Parents, errs *diag.Appender) *Info {
	b := &builder{info: NewInfo(parents), errs: errs}
	ast.Inspect(root, b.visit)
	return b.info
}

func (b *builder) visit(n ast.Node) bool {
	if s, ok := n.(ast.Scope); ok {
		// Every scope gets a table, even if it declares nothing.
		b.info.Table(s)
	}
	switch n := n.(type) {
	case *ast.Class:
		b.declare(b.info.NearestScopeAbove(n), Symbol{Name: n.Name, Kind: ClassSym}, n, &types.User{TypeName: n.Name})
	case *ast.Field:
		b.declare(b.info.NearestScopeAbove(n), Symbol{Name: n.Name, Kind: FieldSym}, n, n.Type)
	case *ast.FuncDecl:
		owner := b.info.NearestScopeAbove(n)
		sym := Symbol{Name: n.Name, Kind: FunctionSym}
		if owner == nil {
			break
		}
		if prev, ok := b.info.Table(owner).Lookup(sym); ok {
			if _, isFunc := prev.Decl.(*ast.FuncDecl); isFunc {
				// Another clause of an overloaded function.
				break
			}
		}
		b.declare(owner, sym, n, ast.FuncType(n.Params, n.Result))
	case *ast.Param:
		b.declare(b.info.NearestScope(n), Symbol{Name: n.Name, Kind: ParamSym}, n, n.Type)
	case *ast.Binding:
		b.declare(b.info.NearestScope(n), Symbol{Name: n.Name, Kind: BindingSym}, n, n.Type)
	case *ast.VarDecl:
		b.declare(b.info.NearestScope(n), Symbol{Name: n.Name, Kind: VarSym}, n, n.Type)
	case *ast.Foreach:
		b.declare(n, Symbol{Name: n.Var, Kind: VarSym}, n, n.VarType)
	case *ast.ListComp:
		b.declare(n, Symbol{Name: n.Var, Kind: ComprehensionVarSym}, n, nil)
	}
	return true
}

func (b *builder) declare(s ast.Scope, sym Symbol, decl ast.Node, typ types.Type) {
	if s == nil {
		b.errs.AppendInternalf(decl, "%s declared outside of a scope", sym)
		return
	}
	if _, err := b.info.Table(s).Declare(sym, decl, typ); err != nil {
		var dup *DuplicateSymbolError
		if errors.As(err, &dup) {
			b.errs.Errorf(decl, DuplicateSymbol, "%s", dup.Error())
			return
		}
		b.errs.AppendErr(decl, diag.Internal, err)
	}
}
