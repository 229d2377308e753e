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

package pipeline

import (
	"strings"
	"testing"

	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/types"
)

func newState() *state {
	errs := &diag.Errors{}
	return &state{
		opts: DefaultOptions(),
		mod:  &ast.Module{Name: "m"},
		reg:  types.NewRegistry(),
		errs: errs,
		app:  errs.NewAppender("m.5th"),
	}
}

func TestFaultWhileAnalyzingAPassOutput(t *testing.T) {
	s := newState()
	malformed := pass{
		name: "malformed",
		run: func(s *state) []ast.Stmt {
			s.mod = &ast.Module{Name: "m", Members: []ast.Member{nil}}
			return nil
		},
	}
	err := s.run(malformed)
	if err == nil {
		t.Fatal("analyzing a malformed module did not fail")
	}
	if !strings.Contains(err.Error(), "analysis after the malformed pass") {
		t.Errorf("fault does not name the failing step: %v", err)
	}
	internal := s.errs.WithCode(diag.Internal)
	if len(internal) != 1 {
		t.Fatalf("got %d internal diagnostics, want 1", len(internal))
	}
	if msg := internal[0].Message; !strings.HasPrefix(msg, "analysis after the malformed pass: internal compiler error") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestPassDiagnosticsArePrefixed(t *testing.T) {
	s := newState()
	warn := pass{
		name: "warning",
		run: func(s *state) []ast.Stmt {
			s.app.Warningf(s.mod, "W1", "careful")
			return nil
		},
	}
	if err := s.run(warn); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	ds := s.errs.Diagnostics()
	if len(ds) != 1 || ds[0].Message != "warning pass: careful" {
		t.Errorf("got diagnostics %v, want a single prefixed warning", ds)
	}
}
