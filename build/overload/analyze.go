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

package overload

import (
	"fmt"

	"github.com/fifthlang/fifth/base/iter"
	"github.com/fifthlang/fifth/build/ast"
	"github.com/fifthlang/fifth/build/diag"
	"github.com/fifthlang/fifth/build/token"
)

// Diagnostic codes of the guard analysis.
const (
	Incomplete       diag.Code = "GUARD_INCOMPLETE"
	Unreachable      diag.Code = "GUARD_UNREACHABLE"
	BaseNotLast      diag.Code = "GUARD_BASE_NOT_LAST"
	MultipleBase     diag.Code = "GUARD_MULTIPLE_BASE"
	OverloadCount    diag.Code = "GUARD_OVERLOAD_COUNT"
	UnknownExplosion diag.Code = "GUARD_UNKNOWN_EXPLOSION"
)

// Class of a clause given its guards.
type Class int

const (
	// Base clauses have no guard or only tautological guards.
	Base Class = iota
	// Analyzable clauses only have guards made of comparisons and
	// conjunctions of comparisons.
	Analyzable
	// Unknown clauses have at least one guard outside of the
	// analyzable grammar.
	Unknown
)

func (c Class) String() string {
	switch c {
	case Base:
		return "base"
	case Analyzable:
		return "analyzable"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Classify returns the class of a clause.
func Classify(fn *ast.FuncDecl) Class {
	class := Base
	for _, p := range fn.Params {
		if p.Guard == nil || isTrue(p.Guard) {
			continue
		}
		if !analyzable(p.Guard) {
			return Unknown
		}
		class = Analyzable
	}
	return class
}

func isTrue(x ast.Expr) bool {
	lit, ok := x.(*ast.Literal)
	if !ok {
		return false
	}
	b, ok := lit.Value.(bool)
	return ok && b
}

func analyzable(x ast.Expr) bool {
	bin, ok := x.(*ast.Binary)
	if !ok {
		return isTrue(x)
	}
	if bin.Op == token.LogicalAnd {
		return analyzable(bin.X) && analyzable(bin.Y)
	}
	// Intervals cannot represent the complement of a value.
	return bin.Op.IsComparison() && bin.Op != token.Ne
}

// Config sets the thresholds of the scale warnings.
type Config struct {
	// MaxClauses is the number of clauses from which the precision of the
	// analysis is considered degraded.
	MaxClauses int
	// ExplosionMinClauses is the minimum number of clauses for the
	// unknown explosion warning.
	ExplosionMinClauses int
	// ExplosionPercent is the percentage of unknown clauses above which
	// a group without base clause is reported.
	ExplosionPercent int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MaxClauses:          32,
		ExplosionMinClauses: 8,
		ExplosionPercent:    50,
	}
}

// Analysis of an overload group.
type Analysis struct {
	Group   *Group
	Classes []Class
	// Bases are the indices of the base clauses.
	Bases []int
}

// Lowerable returns true if the group can be lowered into a dispatcher.
func (a *Analysis) Lowerable() bool {
	return len(a.Bases) <= 1
}

func (a *Analysis) count(c Class) int {
	return iter.Count(func(ci Class) bool { return ci == c }, a.Classes)
}

// Analyze checks the completeness and the reachability of the clauses
// of a group and reports problems as diagnostics.
func Analyze(g *Group, cfg Config, errs *diag.Appender) *Analysis {
	a := &Analysis{Group: g, Classes: make([]Class, len(g.Clauses))}
	for i, clause := range g.Clauses {
		a.Classes[i] = Classify(clause)
		if a.Classes[i] == Base {
			a.Bases = append(a.Bases, i)
		}
	}
	name := fmt.Sprintf("%s/%d", g.Name, g.Arity())
	first := g.Clauses[0]
	if len(g.Clauses) >= cfg.MaxClauses {
		errs.Warningf(first, OverloadCount,
			"GUARD_OVERLOAD_COUNT (W1101): Overload group for '%s' exceeds recommended maximum of %d (found %d). Analysis precision may degrade.",
			name, cfg.MaxClauses, len(g.Clauses))
	}
	if len(a.Bases) > 1 {
		errs.Errorf(first, MultipleBase,
			"GUARD_MULTIPLE_BASE (E1005): Multiple unguarded base overloads detected for function '%s'. Only one final base overload is permitted.",
			name)
		for _, extra := range a.Bases[1:] {
			errs.Notef(g.Clauses[extra], "extra base overload ignored; base already declared at earlier position")
		}
		return a
	}
	flagged := -1
	if len(a.Bases) == 1 && a.Bases[0] < len(g.Clauses)-1 {
		base := a.Bases[0]
		flagged = base + 1
		errs.Errorf(first, BaseNotLast,
			"GUARD_BASE_NOT_LAST (E1004): Base (unguarded) overload for function '%s' must be the final overload; subsequent overload at #%d is invalid.",
			name, flagged+1)
		errs.Notef(g.Clauses[flagged], "overload #%d invalid because base overload terminates overloading at #%d", flagged+1, base+1)
	}
	a.reportUnreachable(name, flagged, errs)
	if len(a.Bases) > 0 {
		return a
	}
	if a.count(Unknown) > 0 || a.count(Analyzable) == 0 {
		errs.Errorf(first, Incomplete,
			"GUARD_INCOMPLETE (E1001): Function '%s' has guarded overloads but no base case and guards are not exhaustive.",
			name)
	}
	if len(g.Clauses) >= cfg.ExplosionMinClauses {
		percent := a.count(Unknown) * 100 / len(g.Clauses)
		if percent > cfg.ExplosionPercent {
			errs.Warningf(first, UnknownExplosion,
				"GUARD_UNKNOWN_EXPLOSION (W1102): Overload group for '%s' has excessive UNKNOWN guards (%d%%). Refactor or add base case for clarity.",
				name, percent)
		}
	}
	return a
}

// reportUnreachable reports the clauses following a base clause.
// Only an earlier base clause makes a clause unreachable: comparing the
// ranges covered by two analyzable guards is not supported.
func (a *Analysis) reportUnreachable(name string, flagged int, errs *diag.Appender) {
	for i := range a.Classes {
		if i == flagged {
			continue
		}
		for j := range i {
			if a.Classes[j] != Base {
				continue
			}
			errs.Warningf(a.Group.Clauses[i], Unreachable,
				"GUARD_UNREACHABLE (W1002): Overload #%d for function '%s' is unreachable (covered by previous guards).",
				i+1, name)
			errs.Notef(a.Group.Clauses[i], "overload #%d unreachable due to earlier coverage by overload #%d", i+1, j+1)
			break
		}
	}
}
