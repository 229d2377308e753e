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
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/fifthlang/fifth/build/types"
	"github.com/google/go-cmp/cmp"
)

func TestUnknownAndVoidAreDistinct(t *testing.T) {
	if types.Equal(types.Unknown(), types.Void()) {
		t.Error("unknown and void types are equal")
	}
	if types.Unknown() != types.Unknown() || types.Void() != types.Void() {
		t.Error("unknown and void types are not singletons")
	}
	if types.IsKnown(types.Unknown()) {
		t.Error("unknown type is known")
	}
}

func TestString(t *testing.T) {
	reg := types.NewRegistry()
	intT := reg.Prim(types.IntName)
	boolT := reg.Prim(types.BoolName)
	closure := &types.Host{Path: types.RuntimePath, TypeName: "Closure"}
	tests := []struct {
		typ  types.Type
		want string
	}{
		{typ: types.Unknown(), want: "unknown"},
		{typ: types.Void(), want: "void"},
		{typ: intT, want: "int"},
		{typ: &types.User{TypeName: "Person"}, want: "Person"},
		{typ: &types.List{Elem: intT}, want: "[int]"},
		{typ: &types.Array{Elem: boolT}, want: "bool[]"},
		{
			typ:  &types.Func{Params: []types.Type{intT, boolT}, Result: types.Void()},
			want: "(int, bool) -> void",
		},
		{
			typ:  &types.GenericInstance{Def: closure, Args: []types.Type{intT, boolT}},
			want: "github.com/fifthlang/fifth/runtime.Closure<int, bool>",
		},
		{typ: &types.GenericParam{ParamName: "T"}, want: "T"},
	}
	for i, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	reg := types.NewRegistry()
	intT := reg.Prim(types.IntName)
	a := &types.Func{Params: []types.Type{intT}, Result: &types.List{Elem: intT}}
	b := &types.Func{Params: []types.Type{intT}, Result: &types.List{Elem: intT}}
	if !types.Equal(a, b) {
		t.Errorf("%v != %v", a, b)
	}
	c := &types.Func{Params: []types.Type{intT}, Result: &types.Array{Elem: intT}}
	if types.Equal(a, c) {
		t.Errorf("%v == %v", a, c)
	}
	if types.Equal(&types.User{TypeName: "int"}, intT) {
		t.Error("user type equal to host type with the same name")
	}
}

func TestNewHost(t *testing.T) {
	if _, err := types.NewHost("github.com/fifthlang/fifth/runtime", "Closure", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := types.NewHost("not a path!", "X", nil); err == nil {
		t.Error("expected an error for an invalid import path")
	}
	if _, err := types.NewHost("", "", nil); err == nil {
		t.Error("expected an error for an empty name")
	}
}

func TestRegistrySeed(t *testing.T) {
	reg := types.NewRegistry()
	var got []string
	for id := types.ID(1); int(id) <= reg.Len(); id++ {
		typ, ok := reg.Lookup(id)
		if !ok {
			t.Fatalf("type %d not found", id)
		}
		got = append(got, typ.String())
	}
	want := []string{
		"bool", "sbyte", "byte", "short", "ushort", "int", "uint", "long", "ulong",
		"float", "double", "decimal", "string", "datetime", "object",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected seed (-want +got):\n%s", diff)
	}
	id, ok := reg.HostID(reflect.TypeFor[time.Time]())
	if !ok {
		t.Fatal("time.Time not registered")
	}
	if typ, _ := reg.Lookup(id); typ.Name() != types.DateTimeName {
		t.Errorf("time.Time registered as %s", typ)
	}
	if _, ok := reg.Lookup(0); ok {
		t.Error("ID 0 is registered")
	}
}

func TestRegisterIsInsertIfAbsent(t *testing.T) {
	reg := types.NewRegistry()
	size := reg.Len()
	first := reg.Register(&types.User{TypeName: "Person"})
	second := reg.Register(&types.User{TypeName: "Person"})
	if first != second {
		t.Errorf("same type registered twice: %d and %d", first, second)
	}
	if got, want := int(first), size+1; got != want {
		t.Errorf("got ID %d but want %d", got, want)
	}
	intID, _ := reg.ID(reg.Prim(types.IntName))
	if got := reg.Register(reg.Prim(types.IntName)); got != intID {
		t.Errorf("primitive re-registered with ID %d instead of %d", got, intID)
	}
}

func TestRegisterConcurrently(t *testing.T) {
	reg := types.NewRegistry()
	const workers = 8
	ids := make([]types.ID, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = reg.Register(&types.List{Elem: &types.User{TypeName: "Shared"}})
		}()
	}
	wg.Wait()
	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("worker %d got ID %d but worker 0 got %d", i, id, ids[0])
		}
	}
}
