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

package diag_test

import (
	"strings"
	"testing"

	"github.com/fifthlang/fifth/build/diag"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

type node struct {
	pos diag.Pos
}

func (n node) Position() diag.Pos { return n.pos }

func TestAppender(t *testing.T) {
	errs := &diag.Errors{}
	app := errs.NewAppender("a.5th")
	if !errs.Empty() || errs.HasErrors() {
		t.Fatalf("new set of diagnostics is not empty")
	}
	app.Warningf(nil, "W1", "careful with %s", "x")
	at := node{pos: diag.Pos{Line: 3, Col: 7}}
	app.Errorf(at, "E1", "wrong")
	app.Notef(at, "because of %d", 42)
	if diff := cmp.Diff([]diag.Code{"W1", "E1", diag.Note}, errs.Codes()); diff != "" {
		t.Errorf("unexpected codes (-want +got):\n%s", diff)
	}
	want := []string{
		"a.5th: warning W1: careful with x",
		"a.5th:3:7: error E1: wrong",
		"a.5th:3:7: info NOTE: note: because of 42",
	}
	if diff := cmp.Diff(strings.Join(want, "\n"), errs.Error()); diff != "" {
		t.Errorf("unexpected messages (-want +got):\n%s", diff)
	}
	if !errs.HasErrors() {
		t.Errorf("HasErrors returns false with an error-level diagnostic")
	}
	if got := len(errs.WithCode("E1")); got != 1 {
		t.Errorf("got %d diagnostics with code E1, want 1", got)
	}
}

func TestWarningsAreNotErrors(t *testing.T) {
	errs := &diag.Errors{}
	errs.NewAppender("a.5th").Warningf(nil, "W1", "careful")
	if errs.HasErrors() {
		t.Errorf("warning reported as an error")
	}
	if err := errs.ToError(); err != nil {
		t.Errorf("got error %v from warnings only", err)
	}
}

func TestToError(t *testing.T) {
	errs := &diag.Errors{}
	errs.NewAppender("a.5th").Errorf(nil, "E1", "wrong")
	err := errs.ToError()
	if err == nil {
		t.Fatalf("no error returned")
	}
	var got *diag.Errors
	if !errors.As(err, &got) || got != errs {
		t.Errorf("error does not wrap the diagnostics: %v", err)
	}
}

func TestPushPop(t *testing.T) {
	errs := &diag.Errors{}
	app := errs.NewAppender("a.5th")
	app.Errorf(nil, "E1", "first")
	app.Push(diag.PrefixWith("in %s: ", "f"))
	app.Errorf(nil, "E2", "second")
	if got := len(errs.Diagnostics()); got != 2 {
		t.Errorf("got %d diagnostics while a context is pushed, want 2", got)
	}
	app.Pop()
	ds := errs.Diagnostics()
	if ds[0].Message != "first" {
		t.Errorf("diagnostic outside of the context has been modified: %q", ds[0].Message)
	}
	if ds[1].Message != "in f: second" {
		t.Errorf("got message %q but want %q", ds[1].Message, "in f: second")
	}
}

func TestAppendErr(t *testing.T) {
	errs := &diag.Errors{}
	app := errs.NewAppender("a.5th")
	d := &diag.Diagnostic{Level: diag.Warning, Code: "W1", Message: "kept"}
	app.AppendErr(nil, "E1", errors.WithStack(d))
	app.AppendErr(nil, "E2", errors.New("plain"))
	if diff := cmp.Diff([]diag.Code{"W1", "E2"}, errs.Codes()); diff != "" {
		t.Errorf("unexpected codes (-want +got):\n%s", diff)
	}
	app.AppendInternalf(nil, "bad %s", "state")
	last := errs.Diagnostics()[2]
	if last.Code != diag.Internal || !strings.Contains(last.Message, "bad state") {
		t.Errorf("unexpected internal diagnostic: %v", last)
	}
}
