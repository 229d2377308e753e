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

package overload_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/ast/astfmt"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/overload"
	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
	"github.com/google/go-cmp/cmp"
)

var (
	reg     = types.NewRegistry()
	intT    = reg.Prim(types.IntName)
	stringT = reg.Prim(types.StringName)
	person  = &types.User{TypeName: "Person"}
)

func gt(name string, v int64) ast.Expr {
	return ah.Binary(token.Gt, ah.Ident(name), ah.Int(v))
}

func lt(name string, v int64) ast.Expr {
	return ah.Binary(token.Lt, ah.Ident(name), ah.Int(v))
}

func clause(guard ast.Expr, ret int64) *ast.FuncDecl {
	param := ah.Param("x", intT)
	param.Guard = guard
	return ah.Func("f", ah.Params(param), intT, ah.Return(ah.Int(ret)))
}

func transform(t *testing.T, mod *ast.Module) (*ast.Module, *diag.Errors) {
	t.Helper()
	errs := &diag.Errors{}
	out := overload.Transform(mod, overload.DefaultConfig(), errs.NewAppender("test.5th"))
	return out, errs
}

func trim(s string) string {
	return strings.TrimPrefix(strings.TrimSuffix(s, "\n"), "\n")
}

func TestGuardThenBase(t *testing.T) {
	mod := ah.Module("m", clause(gt("x", 0), 1), clause(nil, 0))
	got, errs := transform(t, mod)
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics:\n%v", errs)
	}
	want := trim(`
module m
func f(x: int): int {
	if (x > 0) {
		return f_subclause1(x);
	}
	return f_subclause2(x);
}
func f_subclause1(x: int): int {
	return 1;
}
func f_subclause2(x: int): int {
	return 0;
}
`)
	if diff := cmp.Diff(want, astfmt.String(got)); diff != "" {
		t.Errorf("unexpected lowering (-want +got):\n%s", diff)
	}
}

func TestBaseFirst(t *testing.T) {
	mod := ah.Module("m", clause(nil, 0), clause(gt("x", 0), 1))
	_, errs := transform(t, mod)
	if diff := cmp.Diff([]diag.Code{overload.BaseNotLast, diag.Note}, errs.Codes()); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	ds := errs.Diagnostics()
	if !strings.Contains(ds[0].Message, "subsequent overload at #2 is invalid") {
		t.Errorf("error does not flag the second overload: %s", ds[0].Message)
	}
	if want := "note: overload #2 invalid because base overload terminates overloading at #1"; ds[1].Message != want {
		t.Errorf("got note %q but want %q", ds[1].Message, want)
	}
	if ds[1].Level != diag.Info {
		t.Errorf("got note level %v but want %v", ds[1].Level, diag.Info)
	}
}

func TestMultipleBase(t *testing.T) {
	mod := ah.Module("m", clause(nil, 0), clause(nil, 1))
	got, errs := transform(t, mod)
	if diff := cmp.Diff([]diag.Code{overload.MultipleBase, diag.Note}, errs.Codes()); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	if got := len(errs.WithCode(overload.MultipleBase)); got != 1 {
		t.Errorf("got %d multiple base errors, want 1", got)
	}
	if diff := cmp.Diff(astfmt.String(mod), astfmt.String(got)); diff != "" {
		t.Errorf("group with multiple bases has been lowered:\n%s", diff)
	}
}

func TestNoGuardIsNoOp(t *testing.T) {
	mod := ah.Module("m",
		ah.Func("f", ah.Params(ah.Param("x", intT)), intT, ah.Return(ah.Ident("x"))),
		ah.Func("f", ah.Params(ah.Param("x", stringT)), intT, ah.Return(ah.Int(0))),
		ah.Class("C", ah.Func("g", nil, nil)),
	)
	got, errs := transform(t, mod)
	if !errs.Empty() {
		t.Errorf("unexpected diagnostics:\n%v", errs)
	}
	if got != mod {
		t.Errorf("module without overload group has been rewritten")
	}
}

func TestUnreachableAfterBase(t *testing.T) {
	mod := ah.Module("m", clause(nil, 0), clause(gt("x", 0), 1), clause(lt("x", 0), 2))
	_, errs := transform(t, mod)
	want := []diag.Code{overload.BaseNotLast, diag.Note, overload.Unreachable, diag.Note}
	if diff := cmp.Diff(want, errs.Codes()); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	if got, want := errs.Diagnostics()[3].Message, "note: overload #3 unreachable due to earlier coverage by overload #1"; got != want {
		t.Errorf("got note %q but want %q", got, want)
	}
}

func TestCompleteness(t *testing.T) {
	isOdd := func(name string) ast.Expr { return ah.Call("isOdd", ah.Ident(name)) }
	tests := []struct {
		name    string
		clauses []*ast.FuncDecl
		want    []diag.Code
	}{
		{
			name:    "analyzable",
			clauses: []*ast.FuncDecl{clause(gt("x", 0), 1), clause(lt("x", 1), 0)},
		},
		{
			name:    "tautology",
			clauses: []*ast.FuncDecl{clause(gt("x", 0), 1), clause(ah.Bool(true), 0)},
		},
		{
			name:    "unknown",
			clauses: []*ast.FuncDecl{clause(isOdd("x"), 1), clause(gt("x", 0), 0)},
			want:    []diag.Code{overload.Incomplete},
		},
		{
			name: "conjunction",
			clauses: []*ast.FuncDecl{
				clause(ah.Binary(token.LogicalAnd, gt("x", 0), lt("x", 10)), 1),
				clause(ah.Binary(token.LogicalOr, gt("x", 10), lt("x", 0)), 0),
			},
			want: []diag.Code{overload.Incomplete},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var members []ast.Member
			for _, c := range test.clauses {
				members = append(members, c)
			}
			_, errs := transform(t, ah.Module("m", members...))
			if diff := cmp.Diff(test.want, errs.Codes()); diff != "" {
				t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		guard ast.Expr
		want  overload.Class
	}{
		{guard: nil, want: overload.Base},
		{guard: ah.Bool(true), want: overload.Base},
		{guard: ah.Binary(token.Eq, ah.Ident("x"), ah.Int(1)), want: overload.Analyzable},
		{guard: ah.Binary(token.LogicalAnd, gt("x", 0), ah.Binary(token.Le, ah.Ident("x"), ah.Int(9))), want: overload.Analyzable},
		{guard: ah.Binary(token.Ne, ah.Ident("x"), ah.Int(1)), want: overload.Unknown},
		{guard: ah.Call("p", ah.Ident("x")), want: overload.Unknown},
		{guard: ah.Bool(false), want: overload.Unknown},
	}
	for i, test := range tests {
		if got := overload.Classify(clause(test.guard, 0)); got != test.want {
			t.Errorf("test %d: got %v but want %v", i, got, test.want)
		}
	}
}

func TestScaleWarnings(t *testing.T) {
	var members []ast.Member
	for i := range 31 {
		members = append(members, clause(ah.Binary(token.Eq, ah.Ident("x"), ah.Int(int64(i))), int64(i)))
	}
	members = append(members, clause(nil, -1))
	_, errs := transform(t, ah.Module("m", members...))
	if diff := cmp.Diff([]diag.Code{overload.OverloadCount}, errs.Codes()); diff != "" {
		t.Errorf("unexpected diagnostics for 32 clauses (-want +got):\n%s", diff)
	}

	members = nil
	for i := range 8 {
		var guard ast.Expr = gt("x", int64(i))
		if i < 5 {
			guard = ah.Call("check", ah.Ident("x"), ah.Int(int64(i)))
		}
		members = append(members, clause(guard, int64(i)))
	}
	_, errs = transform(t, ah.Module("m", members...))
	want := []diag.Code{overload.Incomplete, overload.UnknownExplosion}
	if diff := cmp.Diff(want, errs.Codes()); diff != "" {
		t.Errorf("unexpected diagnostics for 8 clauses (-want +got):\n%s", diff)
	}
	if msg := errs.WithCode(overload.UnknownExplosion)[0].Message; !strings.Contains(msg, "(62%)") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestLowerDestructuredAndRenamedParams(t *testing.T) {
	adult := ah.Destructured("p", person, ah.Bind("a", "age"))
	adult.Guard = ah.Binary(token.Gt, ah.Ident("a"), ah.Int(18))
	child := ah.Destructured("q", person, ah.Bind("w", "work", ah.Bind("c", "city")))
	child.Guard = ah.Binary(token.Eq, ah.Ident("c"), ah.String("Paris"))
	mod := ah.Module("m",
		ah.Class("Greeter",
			ah.Func("greet", ah.Params(adult), stringT, ah.Return(ah.String("hello"))),
			ah.Func("greet", ah.Params(child), stringT, ah.Return(ah.String("bonjour"))),
			ah.Func("greet", ah.Params(ah.Param("r", person)), stringT, ah.Return(ah.String("hi"))),
		),
	)
	got, errs := transform(t, mod)
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics:\n%v", errs)
	}
	want := trim(`
module m
class Greeter {
	func greet(p: Person): string {
		if (p.age > 18) {
			return greet_subclause1(p);
		}
		if (p.work.city == "Paris") {
			return greet_subclause2(p);
		}
		return greet_subclause3(p);
	}
	func greet_subclause1(p: Person {a: age}): string {
		return "hello";
	}
	func greet_subclause2(q: Person {w: work {c: city}}): string {
		return "bonjour";
	}
	func greet_subclause3(r: Person): string {
		return "hi";
	}
}
`)
	if diff := cmp.Diff(want, astfmt.String(got)); diff != "" {
		t.Errorf("unexpected lowering (-want +got):\n%s", diff)
	}
}

func TestLowerMultipleGuards(t *testing.T) {
	a := ah.Guarded("a", intT, gt("a", 0))
	b := ah.Guarded("b", intT, lt("b", 0))
	mod := ah.Module("m",
		ah.Func("h", ah.Params(a, b), nil),
		ah.Func("h", ah.Params(ah.Param("a", intT), ah.Param("b", intT)), nil),
		ah.Func("h_subclause1", nil, nil),
	)
	got, errs := transform(t, mod)
	if !errs.Empty() {
		t.Fatalf("unexpected diagnostics:\n%v", errs)
	}
	dispatcher := got.Members[0].(*ast.FuncDecl)
	cond := dispatcher.Body.Stmts[0].(*ast.If).Cond
	if got, want := astfmt.String(cond), "(a > 0) && (b < 0)"; got != want {
		t.Errorf("got condition %q but want %q", got, want)
	}
	var names []string
	for _, m := range got.Members {
		names = append(names, m.(*ast.FuncDecl).Name)
	}
	wantNames := []string{"h", "h_subclause11", "h_subclause2", "h_subclause1"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("unexpected members (-want +got):\n%s", diff)
	}
}

func TestGather(t *testing.T) {
	members := []ast.Member{
		clause(gt("x", 0), 1),
		ah.Func("g", nil, nil),
		ah.Func("f", ah.Params(ah.Param("x", stringT)), intT),
		clause(nil, 0),
	}
	var got []string
	for _, g := range overload.Gather(members) {
		got = append(got, fmt.Sprintf("%s:%d", g.Key, len(g.Clauses)))
	}
	if diff := cmp.Diff([]string{"f(int):2"}, got); diff != "" {
		t.Errorf("unexpected groups (-want +got):\n%s", diff)
	}
}
