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

package ast

import (
	"fmt"
)

// Children returns the children of a node from left to right.
// It panics if the node is not a node of this package.
func Children(n Node) []Node {
	var cs []Node
	add := func(c Node) {
		cs = append(cs, c)
	}
	addExpr := func(x Expr) {
		if x != nil {
			cs = append(cs, x)
		}
	}
	addBlock := func(b *Block) {
		if b != nil {
			cs = append(cs, b)
		}
	}
	addDestructure := func(d *Destructure) {
		if d != nil {
			cs = append(cs, d)
		}
	}
	switch n := n.(type) {
	case *Module:
		for _, m := range n.Members {
			add(m)
		}
	case *Class:
		for _, m := range n.Members {
			add(m)
		}
	case *Field:
	case *FuncDecl:
		for _, p := range n.Params {
			add(p)
		}
		addBlock(n.Body)
	case *Param:
		addDestructure(n.Destructure)
		addExpr(n.Guard)
	case *Destructure:
		for _, b := range n.Bindings {
			add(b)
		}
	case *Binding:
		addDestructure(n.Nested)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *VarDecl:
		addExpr(n.Value)
	case *Assign:
		addExpr(n.Target)
		addExpr(n.Value)
	case *AugAssign:
		addExpr(n.Target)
		addExpr(n.Value)
	case *ExprStmt:
		addExpr(n.X)
	case *If:
		addExpr(n.Cond)
		addBlock(n.Then)
		addBlock(n.Else)
	case *While:
		addExpr(n.Cond)
		addBlock(n.Body)
	case *Foreach:
		addExpr(n.Over)
		addBlock(n.Body)
	case *Return:
		addExpr(n.Value)
	case *Ident, *This, *Literal:
	case *Binary:
		addExpr(n.X)
		addExpr(n.Y)
	case *Unary:
		addExpr(n.X)
	case *Call:
		addExpr(n.Fun)
		for _, a := range n.Args {
			addExpr(a)
		}
	case *Selector:
		addExpr(n.X)
	case *New:
		for _, a := range n.Args {
			addExpr(a)
		}
	case *Lambda:
		for _, p := range n.Params {
			add(p)
		}
		addBlock(n.Body)
	case *ListLit:
		for _, e := range n.Elems {
			addExpr(e)
		}
	case *ListComp:
		addExpr(n.Proj)
		addExpr(n.Over)
		addExpr(n.Cond)
	case *Index:
		addExpr(n.X)
		addExpr(n.Index)
	default:
		panic(fmt.Sprintf("cannot enumerate the children of %T: node not supported", n))
	}
	return cs
}

// Inspect traverses a tree in depth-first order. It calls f(n) for each
// node; if f returns true, Inspect visits the children of n.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Parents maps the nodes of a tree to their parent.
type Parents struct {
	root   Node
	parent map[Node]Node
}

// Link computes the parents of all the nodes in a tree.
// Links need to be recomputed after a tree has been rewritten.
func Link(root Node) *Parents {
	ps := &Parents{root: root, parent: make(map[Node]Node)}
	var link func(n Node)
	link = func(n Node) {
		for _, c := range Children(n) {
			ps.parent[c] = n
			link(c)
		}
	}
	link(root)
	return ps
}

// Root returns the root of the tree.
func (ps *Parents) Root() Node {
	return ps.root
}

// Parent returns the parent of a node.
// Returns nil for the root or a node not in the tree.
func (ps *Parents) Parent(n Node) Node {
	return ps.parent[n]
}
