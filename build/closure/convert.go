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

package closure

import (
	"github.com/fifthlang/fifth/base/uname"
	"github.com/fifthlang/fifth/build/ast"
	ah "github.com/fifthlang/fifth/build/ast/asthelper"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/rewrite"
	"github.com/fifthlang/fifth/build/scope"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	classPrefix = "__lambda_closure_"
	// ApplyName is the name of the method invoking a closure.
	ApplyName = "Apply"
	// ClosureName is the runtime contract of a closure returning a value.
	ClosureName = "Closure"
	// ActionClosureName is the runtime contract of a closure returning
	// nothing.
	ActionClosureName = "ActionClosure"
)

// InvalidRuntime is reported when the closure runtime path of the
// configuration is not a valid import path.
const InvalidRuntime diag.Code = "ERR_LF_INVALID_RUNTIME"

// Config of the conversion.
type Config struct {
	// MaxParams is the maximum number of parameters of a lambda.
	MaxParams int
	// Runtime is the import path of the package providing the closure
	// contracts.
	Runtime string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxParams: 8, Runtime: types.RuntimePath}
}

type converter struct {
	cfg     Config
	info    *scope.Info
	reg     *types.Registry
	errs    *diag.Appender
	names   *uname.Unique
	classes []ast.Member

	closureDef, actionClosureDef types.Type
}

// contracts registers the runtime contracts implemented by closure
// classes.
func (c *converter) contracts() (err error) {
	if c.closureDef, err = c.runtimeType(ClosureName); err != nil {
		return err
	}
	c.actionClosureDef, err = c.runtimeType(ActionClosureName)
	return err
}

func (c *converter) runtimeType(name string) (types.Type, error) {
	if err := types.CheckPath(c.cfg.Runtime); err != nil {
		return nil, errors.Wrapf(err, "invalid closure runtime")
	}
	id, err := c.reg.RegisterHost(c.cfg.Runtime, name, nil)
	if err != nil {
		return nil, err
	}
	t, _ := c.reg.Lookup(id)
	return t, nil
}

// Transform replaces every lambda of a module by the construction of a
// generated closure class, and every call through a variable of
// function type by a call to its Apply method. The generated classes
// are appended to the module.
//
// info must describe the symbols of mod and its types must have been
// annotated. A module without lambda or function variable is returned
// unchanged, and so is a module when the runtime path of the
// configuration is invalid.
func Transform(mod *ast.Module, info *scope.Info, reg *types.Registry, cfg Config, errs *diag.Appender) *ast.Module {
	c := &converter{
		cfg:   cfg,
		info:  info,
		reg:   reg,
		errs:  errs,
		names: uname.New(),
	}
	if err := c.contracts(); err != nil {
		errs.AppendErr(mod, InvalidRuntime, err)
		return mod
	}
	// Generated classes are module members.
	for entry := range info.Table(mod).Entries() {
		c.names.Register(entry.Symbol.Name)
	}
	rw := &rewrite.Rewriter{Post: c.post}
	out, _ := rewrite.Node(rw, mod)
	return out
}

func (c *converter) post(orig, n ast.Node) rewrite.Result {
	switch n := n.(type) {
	case *ast.Lambda:
		return rewrite.Result{Node: c.lambda(orig.(*ast.Lambda), n)}
	case *ast.Call:
		return rewrite.Result{Node: c.call(orig.(*ast.Call), n)}
	case *ast.Module:
		if len(c.classes) == 0 {
			return rewrite.Result{Node: n}
		}
		m := *n
		m.Members = append(slices.Clone(n.Members), c.classes...)
		return rewrite.Result{Node: &m}
	}
	return rewrite.Result{Node: n}
}

// lambda generates the class of a lambda and returns its construction.
// orig is the lambda as declared in the tree described by the symbol
// tables. n is the lambda after nested lambdas have been converted.
func (c *converter) lambda(orig, n *ast.Lambda) ast.Expr {
	capture := Analyze(orig, c.info)
	Validate(capture, c.cfg.MaxParams, c.errs)
	name := c.names.Indexed(classPrefix)
	class := &ast.Class{
		Loc:   n.Loc,
		Name:  name,
		Bases: []types.Type{c.contract(n)},
	}
	args := make([]ast.Expr, len(capture.Vars))
	ctorParams := make([]*ast.Param, len(capture.Vars))
	var assigns []ast.Stmt
	for i, v := range capture.Vars {
		typ := c.fieldType(v)
		class.Members = append(class.Members, &ast.Field{
			Loc:      n.Loc,
			Name:     v.Name,
			Type:     typ,
			ReadOnly: true,
		})
		ctorParams[i] = &ast.Param{Loc: n.Loc, Name: v.Name, Type: typ}
		assigns = append(assigns, &ast.Assign{
			Loc:    n.Loc,
			Target: ah.Sel(ah.This(), v.Name),
			Value:  ah.Ident(v.Name),
		})
		args[i] = &ast.Ident{Loc: n.Loc, Name: v.Name}
	}
	if len(capture.Vars) > 0 {
		class.Members = append(class.Members, &ast.FuncDecl{
			Loc:    n.Loc,
			Name:   name,
			Params: ctorParams,
			Body:   ah.Block(assigns...),
			Ctor:   true,
		})
	}
	class.Members = append(class.Members, &ast.FuncDecl{
		Loc:    n.Loc,
		Name:   ApplyName,
		Params: n.Params,
		Result: n.Result,
		Body:   n.Body,
	})
	c.classes = append(c.classes, class)
	return &ast.New{
		Loc:   n.Loc,
		Class: &types.User{TypeName: name},
		Args:  args,
	}
}

func (c *converter) fieldType(v Var) types.Type {
	if v.Type != nil {
		return v.Type
	}
	return c.reg.Prim(types.ObjectName)
}

// contract returns the runtime interface implemented by the class of
// a lambda.
func (c *converter) contract(n *ast.Lambda) types.Type {
	ft := ast.FuncType(n.Params, n.Result)
	if ft.Result.Kind() == types.VoidKind {
		if len(ft.Params) == 0 {
			return c.actionClosureDef
		}
		return &types.GenericInstance{Def: c.actionClosureDef, Args: ft.Params}
	}
	return &types.GenericInstance{Def: c.closureDef, Args: append(ft.Params, ft.Result)}
}

// call rewrites f(args) into f.Apply(args) if f is a variable of
// function type.
func (c *converter) call(orig, n *ast.Call) ast.Expr {
	fun, ok := orig.Fun.(*ast.Ident)
	if !ok {
		return n
	}
	entry, ok := c.info.ResolveByName(orig, fun.Name)
	if !ok || !entry.Symbol.Kind.VariableLike() {
		return n
	}
	if _, isFunc := entry.Type.(*types.Func); !isFunc {
		if _, isFunc = fun.Type().(*types.Func); !isFunc {
			return n
		}
	}
	m := *n
	m.Fun = &ast.Selector{Loc: fun.Loc, X: n.Fun, Sel: ApplyName}
	return &m
}
