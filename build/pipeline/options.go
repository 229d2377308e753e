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
	"os"

	"github.com/fifthlang/fifth/build/closure"
	"github.com/fifthlang/fifth/build/overload"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Options of the middle-end.
type Options struct {
	// Closure conversion configuration.
	Closure closure.Config
	// Overload analysis configuration.
	Overload overload.Config
	// Passes enabled in the pipeline.
	Passes Passes
}

// Passes lists the optional passes of the pipeline.
// Linking, symbol tables and type annotation always run.
type Passes struct {
	Overloads            bool
	Closures             bool
	Destructuring        bool
	Comprehensions       bool
	AugmentedAssignments bool
	TailCalls            bool
}

// DefaultOptions returns options running every pass with the default
// configuration of each pass.
func DefaultOptions() Options {
	return Options{
		Closure:  closure.DefaultConfig(),
		Overload: overload.DefaultConfig(),
		Passes: Passes{
			Overloads:            true,
			Closures:             true,
			Destructuring:        true,
			Comprehensions:       true,
			AugmentedAssignments: true,
			TailCalls:            true,
		},
	}
}

// tomlOptions is the TOML encoding of the options.
// A missing key keeps its default value.
type tomlOptions struct {
	Lambda   *tomlLambda   `toml:"lambda"`
	Overload *tomlOverload `toml:"overload"`
	Passes   *tomlPasses   `toml:"passes"`
}

type tomlLambda struct {
	MaxParams *int    `toml:"max-params"`
	Runtime   *string `toml:"runtime"`
}

type tomlOverload struct {
	MaxClauses          *int `toml:"max-clauses"`
	ExplosionMinClauses *int `toml:"explosion-min-clauses"`
	ExplosionPercent    *int `toml:"explosion-percent"`
}

type tomlPasses struct {
	Overloads            *bool `toml:"overloads"`
	Closures             *bool `toml:"closures"`
	Destructuring        *bool `toml:"destructuring"`
	Comprehensions       *bool `toml:"comprehensions"`
	AugmentedAssignments *bool `toml:"augmented-assignments"`
	TailCalls            *bool `toml:"tail-calls"`
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// ParseOptions parses options encoded in TOML, for example:
//
//	[lambda]
//	max-params = 4
//	runtime = "example.com/fifth/runtime"
//
//	[overload]
//	max-clauses = 16
//
//	[passes]
//	tail-calls = false
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	topts := &tomlOptions{}
	if err := toml.Unmarshal(data, topts); err != nil {
		return opts, errors.Wrap(err, "cannot parse pipeline options")
	}
	if l := topts.Lambda; l != nil {
		setInt(&opts.Closure.MaxParams, l.MaxParams)
		setString(&opts.Closure.Runtime, l.Runtime)
	}
	if o := topts.Overload; o != nil {
		setInt(&opts.Overload.MaxClauses, o.MaxClauses)
		setInt(&opts.Overload.ExplosionMinClauses, o.ExplosionMinClauses)
		setInt(&opts.Overload.ExplosionPercent, o.ExplosionPercent)
	}
	if p := topts.Passes; p != nil {
		setBool(&opts.Passes.Overloads, p.Overloads)
		setBool(&opts.Passes.Closures, p.Closures)
		setBool(&opts.Passes.Destructuring, p.Destructuring)
		setBool(&opts.Passes.Comprehensions, p.Comprehensions)
		setBool(&opts.Passes.AugmentedAssignments, p.AugmentedAssignments)
		setBool(&opts.Passes.TailCalls, p.TailCalls)
	}
	return opts, opts.Validate()
}

// LoadOptions reads options from a TOML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultOptions(), errors.Wrapf(err, "cannot read pipeline options")
	}
	opts, err := ParseOptions(data)
	if err != nil {
		return opts, errors.Wrapf(err, "%s", path)
	}
	return opts, nil
}

// Validate returns an error if a threshold is out of range or if the
// closure runtime is not a valid import path.
func (opts Options) Validate() error {
	if opts.Closure.MaxParams < 0 {
		return errors.Errorf("lambda max-params cannot be negative: got %d", opts.Closure.MaxParams)
	}
	if err := types.CheckPath(opts.Closure.Runtime); err != nil {
		return errors.Wrapf(err, "invalid lambda runtime")
	}
	if opts.Overload.MaxClauses < 0 {
		return errors.Errorf("overload max-clauses cannot be negative: got %d", opts.Overload.MaxClauses)
	}
	if opts.Overload.ExplosionMinClauses < 0 {
		return errors.Errorf("overload explosion-min-clauses cannot be negative: got %d", opts.Overload.ExplosionMinClauses)
	}
	if p := opts.Overload.ExplosionPercent; p < 0 || p > 100 {
		return errors.Errorf("overload explosion-percent must be between 0 and 100: got %d", p)
	}
	return nil
}
