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
	"strings"

	"github.com/pkg/errors"
)

type (
	contextDiags struct {
		f     func(*Diagnostic)
		diags []*Diagnostic
	}

	// Errors is an ordered set of diagnostics.
	Errors struct {
		stack []contextDiags
		diags []*Diagnostic
	}
)

// Push a new context in the diagnostic stack.
// When the context is popped, f is applied to every diagnostic
// appended while the context was active.
func (errs *Errors) Push(f func(*Diagnostic)) {
	errs.stack = append(errs.stack, contextDiags{f: f})
}

// Pop removes the last context of the stack.
func (errs *Errors) Pop() {
	last := errs.stack[len(errs.stack)-1]
	errs.stack = errs.stack[:len(errs.stack)-1]
	for _, d := range last.diags {
		if last.f != nil {
			last.f(d)
		}
		errs.Append(d)
	}
}

// Append a diagnostic to the set.
func (errs *Errors) Append(d *Diagnostic) {
	if len(errs.stack) == 0 {
		errs.diags = append(errs.diags, d)
		return
	}
	top := &errs.stack[len(errs.stack)-1]
	top.diags = append(top.diags, d)
}

// Empty returns true if no diagnostic has been appended.
func (errs *Errors) Empty() bool {
	if errs == nil {
		return true
	}
	if len(errs.diags) > 0 {
		return false
	}
	for _, st := range errs.stack {
		if len(st.diags) > 0 {
			return false
		}
	}
	return true
}

// HasErrors returns true if at least one error-level diagnostic has been appended.
func (errs *Errors) HasErrors() bool {
	for _, d := range errs.Diagnostics() {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns all the diagnostics in the order in which they were appended.
func (errs *Errors) Diagnostics() []*Diagnostic {
	if errs == nil {
		return nil
	}
	all := append([]*Diagnostic{}, errs.diags...)
	for _, st := range errs.stack {
		all = append(all, st.diags...)
	}
	return all
}

// Codes returns the code of every diagnostic, in order.
func (errs *Errors) Codes() []Code {
	var codes []Code
	for _, d := range errs.Diagnostics() {
		codes = append(codes, d.Code)
	}
	return codes
}

// WithCode returns the diagnostics with a given code.
func (errs *Errors) WithCode(code Code) []*Diagnostic {
	var ds []*Diagnostic
	for _, d := range errs.Diagnostics() {
		if d.Code == code {
			ds = append(ds, d)
		}
	}
	return ds
}

// Error returns the current set of diagnostics as a string.
func (errs *Errors) Error() string {
	var ss []string
	for _, d := range errs.Diagnostics() {
		ss = append(ss, d.Error())
	}
	return strings.Join(ss, "\n")
}

// String representation of the diagnostics.
func (errs *Errors) String() string {
	return errs.Error()
}

// ToError returns the error-level diagnostics as an error,
// or nil if there is none.
func (errs *Errors) ToError() error {
	if errs == nil || !errs.HasErrors() {
		return nil
	}
	return errors.WithStack(errs)
}

// NewAppender returns a new appender collecting diagnostics for a file.
func (errs *Errors) NewAppender(file string) *Appender {
	return &Appender{errs: errs, file: file}
}
