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

package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fifthlang/fifth/build/pipeline"
	"github.com/google/go-cmp/cmp"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		desc string
		toml string
		want func(*pipeline.Options)
	}{
		{
			desc: "empty",
			toml: ``,
			want: func(*pipeline.Options) {},
		},
		{
			desc: "lambda",
			toml: `
[lambda]
max-params = 4
runtime = "example.com/fifth/runtime"
`,
			want: func(o *pipeline.Options) {
				o.Closure.MaxParams = 4
				o.Closure.Runtime = "example.com/fifth/runtime"
			},
		},
		{
			desc: "overload",
			toml: `
[overload]
max-clauses = 16
explosion-percent = 75
`,
			want: func(o *pipeline.Options) {
				o.Overload.MaxClauses = 16
				o.Overload.ExplosionPercent = 75
			},
		},
		{
			desc: "passes",
			toml: `
[passes]
overloads = false
augmented-assignments = false
`,
			want: func(o *pipeline.Options) {
				o.Passes.Overloads = false
				o.Passes.AugmentedAssignments = false
			},
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got, err := pipeline.ParseOptions([]byte(test.toml))
			if err != nil {
				t.Fatal(err)
			}
			want := pipeline.DefaultOptions()
			test.want(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("unexpected options (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOptionsErrors(t *testing.T) {
	for _, src := range []string{
		"[overload]\nexplosion-percent = 150\n",
		"[lambda]\nmax-params = -1\n",
		"[lambda]\nruntime = \"fifth//runtime\"\n",
		"[lambda]\nruntime = \"\"\n",
		"[lambda\n",
	} {
		if _, err := pipeline.ParseOptions([]byte(src)); err == nil {
			t.Errorf("no error when parsing %q", src)
		}
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fifth.toml")
	if err := os.WriteFile(path, []byte("[lambda]\nmax-params = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := pipeline.LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Closure.MaxParams != 2 {
		t.Errorf("got max-params %d but want 2", opts.Closure.MaxParams)
	}
	if _, err := pipeline.LoadOptions(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("no error when loading a missing file")
	}
}
