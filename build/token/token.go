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

// Package token defines the operators of the Fifth language.
package token

import "fmt"

// Op is a unary or binary operator.
type Op int

// Operators.
const (
	Invalid Op = iota

	// Unary operators.
	Neg // -x
	Not // !x

	// Arithmetic operators.
	Add
	Sub
	Mul
	Div
	Rem
	Mod
	Pow

	// Bitwise and logical operators.
	BitAnd
	BitOr
	LogicalAnd
	LogicalOr
	LogicalNand
	LogicalNor
	LogicalXor

	// Relational operators.
	Eq
	Ne
	Lt
	Gt
	Le
	Ge

	Shl
	Shr

	Concat

	maxOp
)

var opStrings = [...]string{
	Invalid:     "<invalid>",
	Neg:         "-",
	Not:         "!",
	Add:         "+",
	Sub:         "-",
	Mul:         "*",
	Div:         "/",
	Rem:         "%",
	Mod:         "mod",
	Pow:         "^",
	BitAnd:      "&",
	BitOr:       "|",
	LogicalAnd:  "&&",
	LogicalOr:   "||",
	LogicalNand: "!&",
	LogicalNor:  "!|",
	LogicalXor:  "~",
	Eq:          "==",
	Ne:          "!=",
	Lt:          "<",
	Gt:          ">",
	Le:          "<=",
	Ge:          ">=",
	Shl:         "<<",
	Shr:         ">>",
	Concat:      "++",
}

// String returns the operator as written in source code.
func (op Op) String() string {
	if op < 0 || op >= maxOp {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opStrings[op]
}

// IsRelational returns true for the operators whose result is always a
// boolean: logical connectives and comparisons.
func (op Op) IsRelational() bool {
	switch op {
	case Not, LogicalAnd, LogicalOr, LogicalNand, LogicalNor, LogicalXor:
		return true
	default:
		return op.IsComparison()
	}
}

// IsComparison returns true for equality and ordering comparisons.
func (op Op) IsComparison() bool {
	switch op {
	case Eq, Ne, Lt, Gt, Le, Ge:
		return true
	default:
		return false
	}
}
