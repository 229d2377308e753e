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

package types_test

import (
	"testing"

	"github.com/fifthlang/fifth/build/token"
	"github.com/fifthlang/fifth/build/types"
	"github.com/pkg/errors"
)

var numerics = []string{
	types.ByteName,
	types.ShortName,
	types.IntName,
	types.LongName,
	types.FloatName,
	types.DoubleName,
	types.DecimalName,
}

func mustID(t *testing.T, reg *types.Registry, name string) types.ID {
	t.Helper()
	id, ok := reg.ID(reg.Prim(name))
	if !ok {
		t.Fatalf("type %s not registered", name)
	}
	return id
}

func TestSeniorityOrder(t *testing.T) {
	reg := types.NewRegistry()
	prev := types.Seniority(-1)
	for _, name := range numerics {
		s, ok := types.SeniorityOf(reg.Prim(name))
		if !ok {
			t.Fatalf("%s has no seniority", name)
		}
		if s <= prev {
			t.Errorf("%s: seniority %d not greater than %d", name, s, prev)
		}
		prev = s
	}
	for _, pair := range [][2]string{
		{types.SByteName, types.ByteName},
		{types.ShortName, types.UShortName},
		{types.IntName, types.UIntName},
		{types.LongName, types.ULongName},
	} {
		a, _ := types.SeniorityOf(reg.Prim(pair[0]))
		b, _ := types.SeniorityOf(reg.Prim(pair[1]))
		if a != b {
			t.Errorf("%s and %s have different seniorities", pair[0], pair[1])
		}
	}
	for _, name := range []string{types.BoolName, types.StringName, types.DateTimeName, types.ObjectName} {
		if _, ok := types.SeniorityOf(reg.Prim(name)); ok {
			t.Errorf("%s has a seniority", name)
		}
	}
}

func TestCoercionIsSymmetric(t *testing.T) {
	reg := types.NewRegistry()
	for i, a := range numerics {
		for j, b := range numerics {
			if i == j {
				continue
			}
			aID, bID := mustID(t, reg, a), mustID(t, reg, b)
			ab, err := types.OperatorResultType(reg, token.Add, aID, bID)
			if err != nil {
				t.Fatalf("%s + %s: %v", a, b, err)
			}
			ba, err := types.OperatorResultType(reg, token.Add, bID, aID)
			if err != nil {
				t.Fatalf("%s + %s: %v", b, a, err)
			}
			senior, junior := aID, bID
			if j > i {
				senior, junior = bID, aID
			}
			if ab.Result != senior || ba.Result != senior {
				t.Errorf("%s, %s: results %d and %d, want %d", a, b, ab.Result, ba.Result, senior)
			}
			if (ab.CoerceLHS != 0) == (ab.CoerceRHS != 0) {
				t.Errorf("%s + %s: want exactly one coercion, got %+v", a, b, ab)
			}
			gotJunior := bID
			if ab.CoerceLHS != 0 {
				gotJunior = aID
			}
			if gotJunior != junior {
				t.Errorf("%s + %s: coerced %d but want %d", a, b, gotJunior, junior)
			}
			if ab.CoerceLHS != 0 && ab.CoerceLHS != senior || ab.CoerceRHS != 0 && ab.CoerceRHS != senior {
				t.Errorf("%s + %s: coerced to %+v but want %d", a, b, ab, senior)
			}
		}
	}
}

func TestSameTypeIsNotCoerced(t *testing.T) {
	reg := types.NewRegistry()
	for _, name := range append([]string{types.StringName, types.BoolName}, numerics...) {
		id := mustID(t, reg, name)
		got, err := types.OperatorResultType(reg, token.Add, id, id)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want := (types.Coercion{Result: id}); got != want {
			t.Errorf("%s: got %+v but want %+v", name, got, want)
		}
	}
}

func TestRelationalIsBool(t *testing.T) {
	reg := types.NewRegistry()
	boolID := mustID(t, reg, types.BoolName)
	all := append([]string{types.StringName, types.DateTimeName, types.ObjectName}, numerics...)
	ops := []token.Op{
		token.LogicalAnd, token.LogicalOr, token.LogicalNand, token.LogicalNor, token.LogicalXor,
		token.Eq, token.Ne, token.Lt, token.Gt, token.Le, token.Ge,
	}
	for _, op := range ops {
		for _, a := range all {
			for _, b := range all {
				got, err := types.OperatorResultType(reg, op, mustID(t, reg, a), mustID(t, reg, b))
				if err != nil {
					t.Fatalf("%s %s %s: %v", a, op, b, err)
				}
				if want := (types.Coercion{Result: boolID}); got != want {
					t.Errorf("%s %s %s: got %+v but want %+v", a, op, b, got, want)
				}
			}
		}
	}
}

func TestCoercionError(t *testing.T) {
	reg := types.NewRegistry()
	intID := mustID(t, reg, types.IntName)
	tests := []struct {
		desc     string
		lhs, rhs types.ID
	}{
		{
			desc: "string operand",
			lhs:  mustID(t, reg, types.StringName),
			rhs:  intID,
		},
		{
			desc: "unregistered operand",
			lhs:  intID,
			rhs:  types.ID(reg.Len() + 1),
		},
		{
			desc: "zero operand",
			lhs:  0,
			rhs:  intID,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := types.OperatorResultType(reg, token.Add, test.lhs, test.rhs)
			var tcErr *types.TypeCheckingError
			if !errors.As(err, &tcErr) {
				t.Fatalf("got error %v but want a type checking error", err)
			}
			if want := "could not resolve numerical types for coercion"; tcErr.Msg != want {
				t.Errorf("got message %q but want %q", tcErr.Msg, want)
			}
		})
	}
}
