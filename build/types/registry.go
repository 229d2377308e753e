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

package types

import (
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Names of the primitive types seeded in every registry.
const (
	BoolName     = "bool"
	SByteName    = "sbyte"
	ByteName     = "byte"
	ShortName    = "short"
	UShortName   = "ushort"
	IntName      = "int"
	UIntName     = "uint"
	LongName     = "long"
	ULongName    = "ulong"
	FloatName    = "float"
	DoubleName   = "double"
	DecimalName  = "decimal"
	StringName   = "string"
	DateTimeName = "datetime"
	// ObjectName is the opaque type used when nothing more precise is known.
	ObjectName = "object"
)

// RuntimePath is the package of the host runtime providing types that
// lowered code depends on.
const RuntimePath = "github.com/fifthlang/fifth/runtime"

type seed struct {
	path string
	name string
	typ  reflect.Type
}

var primitives = []seed{
	{name: BoolName, typ: reflect.TypeFor[bool]()},
	{name: SByteName, typ: reflect.TypeFor[int8]()},
	{name: ByteName, typ: reflect.TypeFor[uint8]()},
	{name: ShortName, typ: reflect.TypeFor[int16]()},
	{name: UShortName, typ: reflect.TypeFor[uint16]()},
	{name: IntName, typ: reflect.TypeFor[int32]()},
	{name: UIntName, typ: reflect.TypeFor[uint32]()},
	{name: LongName, typ: reflect.TypeFor[int64]()},
	{name: ULongName, typ: reflect.TypeFor[uint64]()},
	{name: FloatName, typ: reflect.TypeFor[float32]()},
	{name: DoubleName, typ: reflect.TypeFor[float64]()},
	{name: DecimalName, typ: reflect.TypeFor[decimal.Decimal]()},
	{name: StringName, typ: reflect.TypeFor[string]()},
	{name: DateTimeName, typ: reflect.TypeFor[time.Time]()},
	{name: ObjectName, typ: reflect.TypeFor[any]()},
}

// ID identifies a type in a registry. The zero ID is never assigned.
type ID uint32

// Registry maps type identifiers to types.
// Entries are only ever added: the ID of a type never changes.
// A registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  []Type
	byKey  map[string]ID
	byName map[string]ID
	byHost map[reflect.Type]ID
}

// NewRegistry returns a registry seeded with the primitive types.
func NewRegistry() *Registry {
	r := &Registry{
		byKey:  make(map[string]ID),
		byName: make(map[string]ID),
		byHost: make(map[reflect.Type]ID),
	}
	if err := r.seed(primitives); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) seed(seeds []seed) error {
	var errs error
	for _, s := range seeds {
		t, err := NewHost(s.path, s.name, s.typ)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		r.Register(t)
	}
	return errs
}

// RegisterHost creates a host type and registers it.
func (r *Registry) RegisterHost(path, name string, goType reflect.Type) (ID, error) {
	t, err := NewHost(path, name, goType)
	if err != nil {
		return 0, err
	}
	return r.Register(t), nil
}

// Register a type if it is not already present and returns its ID.
// Unknown, void, and nil types cannot be registered.
func (r *Registry) Register(t Type) ID {
	if !IsKnown(t) || t.Kind() == VoidKind {
		panic(errors.Errorf("cannot register type %v", t))
	}
	k := t.key()
	r.mu.RLock()
	id, ok := r.byKey[k]
	r.mu.RUnlock()
	if ok {
		return id
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[k]; ok {
		return id
	}
	r.types = append(r.types, t)
	id = ID(len(r.types))
	r.byKey[k] = id
	if _, exists := r.byName[t.String()]; !exists {
		r.byName[t.String()] = id
	}
	if host, ok := t.(*Host); ok && host.Go != nil {
		if _, exists := r.byHost[host.Go]; !exists {
			r.byHost[host.Go] = id
		}
	}
	return id
}

// Lookup returns the type given its ID.
func (r *Registry) Lookup(id ID) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id == 0 || int(id) > len(r.types) {
		return nil, false
	}
	return r.types[id-1], true
}

// ID returns the ID of a type if it has been registered.
func (r *Registry) ID(t Type) (ID, bool) {
	if t == nil {
		return 0, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[t.key()]
	return id, ok
}

// HostID returns the ID of the type implemented by a Go type.
func (r *Registry) HostID(goType reflect.Type) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHost[goType]
	return id, ok
}

// ByName returns the first type registered with a given name.
func (r *Registry) ByName(name string) (Type, bool) {
	r.mu.RLock()
	id, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.Lookup(id)
}

// Prim returns a seeded primitive type given its name.
// It panics if the name is not a primitive.
func (r *Registry) Prim(name string) Type {
	t, ok := r.ByName(name)
	if !ok {
		panic(errors.Errorf("%s is not a primitive type", name))
	}
	return t
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
