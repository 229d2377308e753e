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

// Package closure converts lambdas into classes.
//
// A lambda becomes an instance of a generated class storing the values
// it captures in read-only fields. The body of the lambda becomes the
// Apply method of the class. Calls through a variable of function type
// become calls to Apply.
package closure

import (
	"strings"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/scope"
	"github.com/fifthlang/fifth/build/types"
	"golang.org/x/exp/slices"
)

// Diagnostic codes reported when validating lambdas.
const (
	ShadowingNotAllowed      diag.Code = "ERR_LF_SHADOWING_NOT_ALLOWED"
	CapturedVariableAssigned diag.Code = "ERR_LF_CAPTURED_VARIABLE_ASSIGNED"
	TooManyParameters        diag.Code = "ERR_TOO_MANY_LF_PARAMETERS"
)

// Var is a variable captured by a lambda.
type Var struct {
	Name string
	// Type of the variable. Nil if it could not be inferred.
	Type types.Type
}

// Capture lists the names declared and captured by a lambda.
type Capture struct {
	Lambda *ast.Lambda
	// Declared are the names declared by the lambda, sorted.
	Declared []string
	// Shadowing are the declared names hiding a variable of an
	// enclosing scope, sorted.
	Shadowing []string
	// Vars are the captured variables sorted by name.
	Vars []Var
}

// Names returns the names of the captured variables.
func (c *Capture) Names() []string {
	names := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		names[i] = v.Name
	}
	return names
}

// Captures returns true if the lambda captures a variable given its name.
func (c *Capture) Captures(name string) bool {
	_, found := slices.BinarySearchFunc(c.Vars, name, func(v Var, name string) int {
		return strings.Compare(v.Name, name)
	})
	return found
}

func declaredNames(lambda *ast.Lambda) map[string]bool {
	declared := make(map[string]bool)
	ast.Inspect(lambda, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Param:
			declared[n.Name] = true
		case *ast.Binding:
			declared[n.Name] = true
		case *ast.VarDecl:
			declared[n.Name] = true
		case *ast.Foreach:
			declared[n.Var] = true
		case *ast.ListComp:
			declared[n.Var] = true
		}
		return true
	})
	return declared
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Analyze computes the variables captured by a lambda: the names
// referenced in the lambda but not declared in it, which resolve from
// the scope enclosing the lambda to a variable-like symbol.
// The tree containing the lambda must have been linked, its symbols
// declared, and its types annotated.
func Analyze(lambda *ast.Lambda, info *scope.Info) *Capture {
	declared := declaredNames(lambda)
	c := &Capture{Lambda: lambda, Declared: sortedKeys(declared)}
	outer := info.NearestScopeAbove(lambda)
	for _, name := range c.Declared {
		if outer == nil {
			break
		}
		if entry, ok := info.ResolveByName(outer, name); ok && entry.Symbol.Kind.VariableLike() {
			c.Shadowing = append(c.Shadowing, name)
		}
	}
	refs := make(map[string]types.Type)
	ast.Inspect(lambda.Body, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok || declared[id.Name] {
			return true
		}
		if prev, seen := refs[id.Name]; !seen || !types.IsKnown(prev) {
			refs[id.Name] = id.Type()
		}
		return true
	})
	if outer == nil {
		return c
	}
	for name, typ := range refs {
		entry, ok := info.ResolveByName(outer, name)
		if !ok || !entry.Symbol.Kind.VariableLike() {
			continue
		}
		if !types.IsKnown(typ) {
			typ = entry.Type
		}
		if !types.IsKnown(typ) {
			typ = nil
		}
		c.Vars = append(c.Vars, Var{Name: name, Type: typ})
	}
	slices.SortFunc(c.Vars, func(a, b Var) int {
		return strings.Compare(a.Name, b.Name)
	})
	return c
}

// Validate reports the errors of a lambda given its captures.
// maxParams is the maximum number of parameters of a lambda.
func Validate(c *Capture, maxParams int, errs *diag.Appender) {
	lambda := c.Lambda
	if maxParams > 0 && len(lambda.Params) > maxParams {
		errs.Errorf(lambda, TooManyParameters, "lambda declares %d parameters but at most %d are supported", len(lambda.Params), maxParams)
	}
	for _, name := range c.Shadowing {
		errs.Errorf(lambda, ShadowingNotAllowed, "lambda declares '%s', which shadows an outer variable (shadowing not allowed)", name)
	}
	if len(c.Vars) == 0 {
		return
	}
	ast.Inspect(lambda.Body, func(n ast.Node) bool {
		var target ast.Expr
		switch n := n.(type) {
		case *ast.Assign:
			target = n.Target
		case *ast.AugAssign:
			target = n.Target
		default:
			return true
		}
		if id, ok := target.(*ast.Ident); ok && c.Captures(id.Name) {
			errs.Errorf(n, CapturedVariableAssigned, "lambda assigns to captured variable '%s' (captures are read-only)", id.Name)
		}
		return true
	})
}
