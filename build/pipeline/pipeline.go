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

// Package pipeline runs the passes of the middle-end in order.
//
// After parsing, a module is linked, its symbol tables built and its
// expressions annotated with types. Then the structural passes run:
// overload lowering, closure conversion, destructuring, list
// comprehensions, augmented assignments, and tail calls. The tree is
// linked, its symbols rebuilt and new expressions annotated after each
// structural pass.
package pipeline

import (
	"context"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/closure"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/infer"
	"github.com/fifthlang/fifth/build/lower"
	"github.com/fifthlang/fifth/build/overload"
	"github.com/fifthlang/fifth/build/scope"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// RootPrologue is reported when a pass introduces statements outside of
// any block, where they cannot be inserted.
const RootPrologue diag.Code = "REWRITE001"

// Result of running the pipeline.
type Result struct {
	// Module after all the passes.
	Module *ast.Module
	// Types registered while annotating the module.
	Types *types.Registry
	// Info are the symbol tables of the final module.
	Info *scope.Info
	// Diagnostics reported by the passes.
	Diagnostics *diag.Errors
}

// Err returns the error-level diagnostics as an error, or nil if there
// is none. A module with errors must not be handed to a code generator.
func (r *Result) Err() error {
	return r.Diagnostics.ToError()
}

type pass struct {
	name    string
	enabled func(Passes) bool
	run     func(*state) []ast.Stmt
}

var passes = []pass{
	{
		name:    "overloads",
		enabled: func(p Passes) bool { return p.Overloads },
		run: func(s *state) []ast.Stmt {
			s.mod = overload.Transform(s.mod, s.opts.Overload, s.app)
			return nil
		},
	},
	{
		name:    "closures",
		enabled: func(p Passes) bool { return p.Closures },
		run: func(s *state) []ast.Stmt {
			s.mod = closure.Transform(s.mod, s.info, s.reg, s.opts.Closure, s.app)
			return nil
		},
	},
	{
		name:    "destructuring",
		enabled: func(p Passes) bool { return p.Destructuring },
		run: func(s *state) []ast.Stmt {
			s.mod = lower.Destructuring(s.mod)
			return nil
		},
	},
	{
		name:    "comprehensions",
		enabled: func(p Passes) bool { return p.Comprehensions },
		run: func(s *state) (prologue []ast.Stmt) {
			s.mod, prologue = lower.Comprehensions(s.mod)
			return prologue
		},
	},
	{
		name:    "augmented assignments",
		enabled: func(p Passes) bool { return p.AugmentedAssignments },
		run: func(s *state) (prologue []ast.Stmt) {
			s.mod, prologue = lower.AugmentedAssignments(s.mod)
			return prologue
		},
	},
	{
		name:    "tail calls",
		enabled: func(p Passes) bool { return p.TailCalls },
		run: func(s *state) []ast.Stmt {
			s.mod = lower.TailCalls(s.mod)
			return nil
		},
	},
}

type state struct {
	opts Options
	mod  *ast.Module
	reg  *types.Registry
	info *scope.Info
	errs *diag.Errors
	app  *diag.Appender
}

// analyze links the module, builds its symbol tables and annotates its
// types. Diagnostics are reported to app.
func (s *state) analyze(app *diag.Appender) {
	s.info = scope.Build(s.mod, ast.Link(s.mod), app)
	infer.Annotate(s.mod, s.info, s.reg, app)
}

// reanalyze analyzes a module produced by a structural pass.
// Diagnostics are discarded: the lowered code only reports again what
// the first analysis already reported.
func (s *state) reanalyze() {
	s.analyze((&diag.Errors{}).NewAppender(s.mod.Name))
}

// recovered calls f and turns a fault of the compiler itself into an
// internal diagnostic and an error. Diagnostics reported by f are
// prefixed with the name of the step.
func (s *state) recovered(step string, f func()) (err error) {
	s.app.Push(diag.PrefixWith("%s: ", step))
	defer s.app.Pop()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.app.AppendInternalf(nil, "%v", r)
		err = errors.Errorf("%s: %v", step, r)
	}()
	f()
	return nil
}

// run executes a pass, then analyzes the module it produced.
func (s *state) run(p pass) error {
	step := p.name + " pass"
	if err := s.recovered(step, func() {
		if stranded := p.run(s); len(stranded) > 0 {
			s.app.Errorf(stranded[0], RootPrologue, "cannot lower a construct outside of any block: it is left unchanged")
		}
	}); err != nil {
		return err
	}
	return s.recovered("analysis after the "+step, s.reanalyze)
}

// Run all the passes of the middle-end on a module.
// The input module is not modified.
//
// Diagnostics are collected in the result and never stop the pipeline.
// The returned error aggregates internal faults of the passes and the
// cancellation of the context, which is checked between passes.
func Run(ctx context.Context, mod *ast.Module, opts Options) (*Result, error) {
	if mod == nil {
		return nil, errors.Errorf("cannot run the pipeline on a nil module")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	errs := &diag.Errors{}
	s := &state{
		opts: opts,
		mod:  ast.Clone(mod),
		reg:  types.NewRegistry(),
		errs: errs,
		app:  errs.NewAppender(mod.Name),
	}
	res := &Result{Types: s.reg, Diagnostics: errs}
	var faults error
	if err := s.recovered("analysis", func() { s.analyze(s.app) }); err != nil {
		faults = multierr.Append(faults, err)
	}
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			faults = multierr.Append(faults, errors.Wrapf(err, "pipeline interrupted before the %s pass", p.name))
			break
		}
		if !p.enabled(opts.Passes) {
			continue
		}
		if err := s.run(p); err != nil {
			faults = multierr.Append(faults, err)
		}
	}
	res.Module, res.Info = s.mod, s.info
	return res, faults
}
