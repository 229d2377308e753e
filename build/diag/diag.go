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

// Package diag collects the diagnostics reported by the middle-end passes.
//
// A diagnostic has a level, a stable code consumed by tooling for
// filtering and suppression, a message and an optional source position.
// Messages may change over time; codes must not.
package diag

import (
	"fmt"
	"strings"
)

// Level of a diagnostic.
type Level int

// Diagnostic levels, ordered by severity.
const (
	Info Level = iota
	Warning
	Error
)

// String returns the level as it appears in diagnostic messages.
func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Code is a stable diagnostic identifier.
type Code string

// Codes shared by all passes.
const (
	// Internal marks a defect in the compiler itself.
	Internal Code = "INTERNAL"
	// Note is attached to secondary explanatory diagnostics.
	Note Code = "NOTE"
)

// Pos is a location in a source file.
// The zero value is an unknown position.
type Pos struct {
	File      string
	Line, Col int
}

// IsValid returns true if the position refers to a line in a file.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// String returns the position as file:line:col.
func (p Pos) String() string {
	if !p.IsValid() {
		return p.File
	}
	s := fmt.Sprintf("%d:%d", p.Line, p.Col)
	if p.File != "" {
		s = p.File + ":" + s
	}
	return s
}

// Node is anything with a source position.
type Node interface {
	Position() Pos
}

// Diagnostic reported by a pass.
type Diagnostic struct {
	Level   Level
	Code    Code
	Message string
	Pos     Pos
}

var _ error = (*Diagnostic)(nil)

// Error returns a one line description of the diagnostic.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if pos := d.Pos.String(); pos != "" {
		b.WriteString(pos)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s: %s", d.Level, d.Code, d.Message)
	return b.String()
}
