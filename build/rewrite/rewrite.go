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

// Package rewrite transforms trees bottom-up.
//
// A transformation replaces a node by a new node and can introduce
// statements, the prologue, that need to be executed before the
// statement containing the node. Prologues are forwarded up the tree
// until they reach a block where they are inserted right before the
// statement they originate from.
package rewrite

import (
	"fmt"
	"reflect"

	"github.com/fifthlang/fifth/build/ast"
)

// Result of rewriting a node.
type Result struct {
	// Node replacing the rewritten node.
	// A nil node keeps the node unchanged.
	Node ast.Node
	// Prologue are statements to execute before the statement
	// containing the node.
	Prologue []ast.Stmt
}

// Rewriter rewrites a tree bottom-up.
type Rewriter struct {
	// Pre is called before the children of a node are rewritten.
	// If it returns false, the children are kept unchanged and Post is
	// called with the node itself, which can then rewrite the children
	// on its own. A nil Pre rewrites all nodes.
	Pre func(ast.Node) bool

	// Post is called after the children of a node have been rewritten.
	// orig is the node before its children were rewritten and n is the
	// node with its rewritten children. n is orig if no child changed.
	// A nil Post only rewrites the children.
	Post func(orig, n ast.Node) Result
}

// Rewrite a tree. The prologue of the result is non-empty if a
// rewritten node outside of any block introduced statements.
func (rw *Rewriter) Rewrite(n ast.Node) Result {
	if isNil(n) {
		return Result{Node: n}
	}
	return rw.rewrite(n)
}

// Node rewrites a tree and returns the new root.
// The root is kept unchanged if the rewrite returns a different kind of node.
func Node[T ast.Node](rw *Rewriter, n T) (T, []ast.Stmt) {
	r := rw.Rewrite(n)
	root, ok := r.Node.(T)
	if !ok || isNil(root) {
		return n, nil
	}
	return root, r.Prologue
}

func (rw *Rewriter) rewrite(n ast.Node) Result {
	w := &walker{rw: rw}
	res := Result{Node: n}
	if rw.Pre == nil || rw.Pre(n) {
		res.Node = w.children(n)
	}
	if rw.Post != nil {
		r := rw.Post(n, res.Node)
		if !isNil(r.Node) {
			res.Node = r.Node
		}
		res.Prologue = r.Prologue
	}
	if len(w.prologue) > 0 {
		res.Prologue = append(w.prologue, res.Prologue...)
	}
	return res
}

func isNil(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

type walker struct {
	rw       *Rewriter
	prologue []ast.Stmt
	changed  bool
}

// child rewrites a child of a node. The original child is kept if the
// rewrite does not return a node that fits in the child's slot.
func child[T ast.Node](w *walker, c T) T {
	if isNil(c) {
		return c
	}
	r := w.rw.rewrite(c)
	nc, ok := r.Node.(T)
	if !ok || isNil(nc) {
		return c
	}
	w.prologue = append(w.prologue, r.Prologue...)
	if ast.Node(nc) != ast.Node(c) {
		w.changed = true
	}
	return nc
}

func list[T ast.Node](w *walker, cs []T) []T {
	if len(cs) == 0 {
		return cs
	}
	before := w.changed
	w.changed = false
	out := make([]T, len(cs))
	for i, c := range cs {
		out[i] = child(w, c)
	}
	if !w.changed {
		out = cs
	}
	w.changed = w.changed || before
	return out
}

// stmts rewrites the statements of a block and inserts the prologue of
// each statement right before it.
func (w *walker) stmts(ss []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(ss))
	changed := false
	for _, s := range ss {
		r := w.rw.rewrite(s)
		ns, ok := r.Node.(ast.Stmt)
		if !ok || isNil(ns) {
			out = append(out, s)
			continue
		}
		if len(r.Prologue) > 0 || ns != s {
			changed = true
		}
		out = append(out, r.Prologue...)
		out = append(out, ns)
	}
	if !changed {
		return ss
	}
	w.changed = true
	return out
}

func (w *walker) children(n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.Module:
		members := list(w, n.Members)
		if !w.changed {
			return n
		}
		c := *n
		c.Members = members
		return &c
	case *ast.Class:
		members := list(w, n.Members)
		if !w.changed {
			return n
		}
		c := *n
		c.Members = members
		return &c
	case *ast.Field:
		return n
	case *ast.FuncDecl:
		params := list(w, n.Params)
		body := child(w, n.Body)
		if !w.changed {
			return n
		}
		c := *n
		c.Params, c.Body = params, body
		return &c
	case *ast.Param:
		destructure := child(w, n.Destructure)
		guard := child(w, n.Guard)
		if !w.changed {
			return n
		}
		c := *n
		c.Destructure, c.Guard = destructure, guard
		return &c
	case *ast.Destructure:
		bindings := list(w, n.Bindings)
		if !w.changed {
			return n
		}
		c := *n
		c.Bindings = bindings
		return &c
	case *ast.Binding:
		nested := child(w, n.Nested)
		if !w.changed {
			return n
		}
		c := *n
		c.Nested = nested
		return &c
	case *ast.Block:
		stmts := w.stmts(n.Stmts)
		if !w.changed {
			return n
		}
		c := *n
		c.Stmts = stmts
		return &c
	case *ast.VarDecl:
		value := child(w, n.Value)
		if !w.changed {
			return n
		}
		c := *n
		c.Value = value
		return &c
	case *ast.Assign:
		target := child(w, n.Target)
		value := child(w, n.Value)
		if !w.changed {
			return n
		}
		c := *n
		c.Target, c.Value = target, value
		return &c
	case *ast.AugAssign:
		target := child(w, n.Target)
		value := child(w, n.Value)
		if !w.changed {
			return n
		}
		c := *n
		c.Target, c.Value = target, value
		return &c
	case *ast.ExprStmt:
		x := child(w, n.X)
		if !w.changed {
			return n
		}
		c := *n
		c.X = x
		return &c
	case *ast.If:
		cond := child(w, n.Cond)
		then := child(w, n.Then)
		els := child(w, n.Else)
		if !w.changed {
			return n
		}
		c := *n
		c.Cond, c.Then, c.Else = cond, then, els
		return &c
	case *ast.While:
		cond := child(w, n.Cond)
		body := child(w, n.Body)
		if !w.changed {
			return n
		}
		c := *n
		c.Cond, c.Body = cond, body
		return &c
	case *ast.Foreach:
		over := child(w, n.Over)
		body := child(w, n.Body)
		if !w.changed {
			return n
		}
		c := *n
		c.Over, c.Body = over, body
		return &c
	case *ast.Return:
		value := child(w, n.Value)
		if !w.changed {
			return n
		}
		c := *n
		c.Value = value
		return &c
	case *ast.Ident, *ast.This, *ast.Literal:
		return n
	case *ast.Binary:
		x := child(w, n.X)
		y := child(w, n.Y)
		if !w.changed {
			return n
		}
		c := *n
		c.X, c.Y = x, y
		return &c
	case *ast.Unary:
		x := child(w, n.X)
		if !w.changed {
			return n
		}
		c := *n
		c.X = x
		return &c
	case *ast.Call:
		fun := child(w, n.Fun)
		args := list(w, n.Args)
		if !w.changed {
			return n
		}
		c := *n
		c.Fun, c.Args = fun, args
		return &c
	case *ast.Selector:
		x := child(w, n.X)
		if !w.changed {
			return n
		}
		c := *n
		c.X = x
		return &c
	case *ast.New:
		args := list(w, n.Args)
		if !w.changed {
			return n
		}
		c := *n
		c.Args = args
		return &c
	case *ast.Lambda:
		params := list(w, n.Params)
		body := child(w, n.Body)
		if !w.changed {
			return n
		}
		c := *n
		c.Params, c.Body = params, body
		return &c
	case *ast.ListLit:
		elems := list(w, n.Elems)
		if !w.changed {
			return n
		}
		c := *n
		c.Elems = elems
		return &c
	case *ast.ListComp:
		proj := child(w, n.Proj)
		over := child(w, n.Over)
		cond := child(w, n.Cond)
		if !w.changed {
			return n
		}
		c := *n
		c.Proj, c.Over, c.Cond = proj, over, cond
		return &c
	case *ast.Index:
		x := child(w, n.X)
		index := child(w, n.Index)
		if !w.changed {
			return n
		}
		c := *n
		c.X, c.Index = x, index
		return &c
	default:
		panic(fmt.Sprintf("cannot rewrite %T: node not supported", n))
	}
}
