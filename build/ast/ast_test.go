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

package ast_test

import (
	"fmt"
	"testing"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/ast/astfmt"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
	"github.com/google/go-cmp/cmp"
)

func sample(reg *types.Registry) *ast.Module {
	intT := reg.Prim(types.IntName)
	return ah.Module("m",
		ah.Func("f",
			ah.Params(ah.Guarded("x", intT, ah.Binary(token.Gt, ah.Ident("x"), ah.Int(0)))),
			intT,
			ah.Var("y", nil, ah.Binary(token.Add, ah.Ident("x"), ah.Int(1))),
			ah.Return(ah.Call("g", ah.Ident("y"))),
		),
	)
}

func describe(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Ident:
		return "Ident:" + n.Name
	case *ast.Literal:
		return fmt.Sprintf("Literal:%v", n.Value)
	}
	return fmt.Sprintf("%T", n)
}

func TestInspectOrder(t *testing.T) {
	var got []string
	ast.Inspect(sample(types.NewRegistry()), func(n ast.Node) bool {
		got = append(got, describe(n))
		return true
	})
	want := []string{
		"*ast.Module",
		"*ast.FuncDecl",
		"*ast.Param",
		"*ast.Binary", "Ident:x", "Literal:0",
		"*ast.Block",
		"*ast.VarDecl", "*ast.Binary", "Ident:x", "Literal:1",
		"*ast.Return", "*ast.Call", "Ident:g", "Ident:y",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected traversal (-want +got):\n%s", diff)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	count := 0
	ast.Inspect(sample(types.NewRegistry()), func(n ast.Node) bool {
		count++
		_, isParam := n.(*ast.Param)
		_, isBlock := n.(*ast.Block)
		return !isParam && !isBlock
	})
	if want := 4; count != want {
		t.Errorf("visited %d nodes but want %d", count, want)
	}
}

func TestLink(t *testing.T) {
	mod := sample(types.NewRegistry())
	parents := ast.Link(mod)
	fn := mod.Members[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[1].(*ast.Return)
	call := ret.Value.(*ast.Call)
	if got := parents.Parent(call); got != ret {
		t.Errorf("parent of call is %T, want the return statement", got)
	}
	if got := parents.Parent(fn.Body); got != fn {
		t.Errorf("parent of the body is %T, want the function", got)
	}
	if got := parents.Parent(mod); got != nil {
		t.Errorf("root has parent %T", got)
	}
	if got := parents.Parent(ah.Ident("x")); got != nil {
		t.Errorf("node outside of the tree has parent %T", got)
	}
}

func TestClone(t *testing.T) {
	mod := sample(types.NewRegistry())
	clone := ast.Clone(mod)
	if got, want := astfmt.String(clone), astfmt.String(mod); got != want {
		t.Fatalf("clone differs:\n%s", cmp.Diff(want, got))
	}
	fn := clone.Members[0].(*ast.FuncDecl)
	fn.Params[0].Guard.(*ast.Binary).Y = ah.Int(5)
	fn.Body.Stmts = fn.Body.Stmts[:1]
	orig := mod.Members[0].(*ast.FuncDecl)
	if got := orig.Params[0].Guard.(*ast.Binary).Y.(*ast.Literal).Value; got != int64(0) {
		t.Errorf("original guard modified: %v", got)
	}
	if got := len(orig.Body.Stmts); got != 2 {
		t.Errorf("original body has %d statements, want 2", got)
	}
	var nilBlock *ast.Block
	if got := ast.Clone(nilBlock); got != nil {
		t.Errorf("clone of nil is %v", got)
	}
}

func TestFuncType(t *testing.T) {
	reg := types.NewRegistry()
	intT := reg.Prim(types.IntName)
	got := ast.FuncType(ah.Params(ah.Param("a", intT), ah.Param("b", nil)), nil)
	if want := "(int, unknown) -> void"; got.String() != want {
		t.Errorf("got %s but want %s", got, want)
	}
}
