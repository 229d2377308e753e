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

package rewrite

import (
	"github.com/fifthlang/fifth/build/ast"
)

// Substitute replaces references to names by expressions.
// Each reference is replaced by its own copy of the expression.
func Substitute[T ast.Node](n T, repl map[string]ast.Expr) T {
	if len(repl) == 0 {
		return n
	}
	rw := &Rewriter{
		Post: func(_, n ast.Node) Result {
			id, ok := n.(*ast.Ident)
			if !ok {
				return Result{Node: n}
			}
			x, ok := repl[id.Name]
			if !ok {
				return Result{Node: n}
			}
			return Result{Node: ast.Clone(x)}
		},
	}
	out, _ := Node(rw, n)
	return out
}
