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

package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Appender appends diagnostics at source positions.
type Appender struct {
	errs *Errors
	file string
}

// Errors returns the underlying set of diagnostics.
func (app *Appender) Errors() *Errors {
	return app.errs
}

// Push a new context in the diagnostic stack.
func (app *Appender) Push(f func(*Diagnostic)) {
	app.errs.Push(f)
}

// Pop removes the last context of the stack.
func (app *Appender) Pop() {
	app.errs.Pop()
}

func (app *Appender) pos(node Node) Pos {
	var pos Pos
	if node != nil {
		pos = node.Position()
	}
	if pos.File == "" {
		pos.File = app.file
	}
	return pos
}

// Appendf appends a diagnostic at the position of a node.
// The node can be nil.
func (app *Appender) Appendf(node Node, level Level, code Code, format string, a ...any) *Diagnostic {
	d := &Diagnostic{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		Pos:     app.pos(node),
	}
	app.errs.Append(d)
	return d
}

// Errorf appends an error at the position of a node.
func (app *Appender) Errorf(node Node, code Code, format string, a ...any) *Diagnostic {
	return app.Appendf(node, Error, code, format, a...)
}

// Warningf appends a warning at the position of a node.
func (app *Appender) Warningf(node Node, code Code, format string, a ...any) *Diagnostic {
	return app.Appendf(node, Warning, code, format, a...)
}

// Notef appends an explanatory note at the position of a node.
func (app *Appender) Notef(node Node, format string, a ...any) *Diagnostic {
	return app.Appendf(node, Info, Note, "note: "+format, a...)
}

// AppendErr appends an error value as an error-level diagnostic.
// If err is (or wraps) a diagnostic, it is appended as is.
func (app *Appender) AppendErr(node Node, code Code, err error) *Diagnostic {
	var d *Diagnostic
	if errors.As(err, &d) {
		app.errs.Append(d)
		return d
	}
	return app.Errorf(node, code, "%s", err.Error())
}

// AppendInternalf appends an internal error at a position.
func (app *Appender) AppendInternalf(node Node, format string, a ...any) *Diagnostic {
	return app.Errorf(node, Internal, "internal compiler error (please report this bug): "+format, a...)
}

// Empty returns true if no diagnostic has been appended.
func (app *Appender) Empty() bool {
	return app.errs.Empty()
}

// PrefixWith returns a context function prefixing diagnostic messages.
func PrefixWith(s string, o ...any) func(*Diagnostic) {
	prefix := fmt.Sprintf(s, o...)
	return func(d *Diagnostic) {
		d.Message = prefix + d.Message
	}
}
