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

// Package types defines the closed set of types of the Fifth language.
package types

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/module"
)

// Kind of a type.
type Kind int

// Type kinds.
const (
	UnknownKind Kind = iota
	VoidKind
	HostKind
	UserKind
	FuncKind
	ArrayKind
	ListKind
	GenericParamKind
	GenericInstanceKind
)

var kindToString = map[Kind]string{
	UnknownKind:         "unknown",
	VoidKind:            "void",
	HostKind:            "host",
	UserKind:            "user",
	FuncKind:            "func",
	ArrayKind:           "array",
	ListKind:            "list",
	GenericParamKind:    "generic parameter",
	GenericInstanceKind: "generic instance",
}

func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type of a value.
type Type interface {
	// Kind returns the variant of the type.
	Kind() Kind
	// Name returns the name token of the type.
	Name() string
	// String returns a readable representation of the type.
	String() string

	// key returns a string identifying the type.
	// Two types are equal if and only if their keys are equal.
	key() string
}

type unknownType struct{}

var unknownT = &unknownType{}

// Unknown returns the type of expressions whose type could not be
// determined. Often used as a placeholder when an error occurred.
func Unknown() Type { return unknownT }

func (*unknownType) Kind() Kind     { return UnknownKind }
func (*unknownType) Name() string   { return "unknown" }
func (*unknownType) String() string { return "unknown" }
func (*unknownType) key() string    { return "!unknown" }

type voidType struct{}

var voidT = &voidType{}

// Void returns the type of functions returning no value.
func Void() Type { return voidT }

func (*voidType) Kind() Kind     { return VoidKind }
func (*voidType) Name() string   { return "void" }
func (*voidType) String() string { return "void" }
func (*voidType) key() string    { return "!void" }

// Host is a nominal type provided by the host runtime.
type Host struct {
	// Path of the package defining the type. Empty for primitives.
	Path string
	// TypeName in the Fifth language.
	TypeName string
	// Go type implementing the type in the host runtime.
	// Nil if the type is only known by name.
	Go reflect.Type
}

// NewHost returns a new host type. path, if not empty, must be a valid
// import path.
func NewHost(path, name string, goType reflect.Type) (*Host, error) {
	if name == "" {
		return nil, errors.Errorf("host type in %q has no name", path)
	}
	if path != "" {
		if err := CheckPath(path); err != nil {
			return nil, errors.Wrapf(err, "invalid host type %s", name)
		}
	}
	return &Host{Path: path, TypeName: name, Go: goType}, nil
}

// CheckPath returns an error if path is not a valid import path for the
// package of a host type.
func CheckPath(path string) error {
	return module.CheckImportPath(path)
}

// Kind returns HostKind.
func (*Host) Kind() Kind { return HostKind }

// Name of the type.
func (t *Host) Name() string { return t.TypeName }

func (t *Host) String() string {
	if t.Path == "" {
		return t.TypeName
	}
	return t.Path + "." + t.TypeName
}

func (t *Host) key() string { return "host:" + t.String() }

// User is a class declared in Fifth source code.
type User struct {
	TypeName string
}

// Kind returns UserKind.
func (*User) Kind() Kind { return UserKind }

// Name of the type.
func (t *User) Name() string { return t.TypeName }

func (t *User) String() string { return t.TypeName }

func (t *User) key() string { return "user:" + t.TypeName }

// Func is the type of a function or a lambda.
type Func struct {
	Params []Type
	Result Type
}

// Kind returns FuncKind.
func (*Func) Kind() Kind { return FuncKind }

// Name returns "func".
func (*Func) Name() string { return "func" }

func (t *Func) String() string {
	return "(" + join(t.Params, Type.String) + ") -> " + str(t.Result)
}

func (t *Func) key() string {
	return "func(" + join(t.Params, keyOf) + ")" + keyOf(t.Result)
}

// Array is a fixed-size sequence of elements.
type Array struct {
	Elem Type
}

// Kind returns ArrayKind.
func (*Array) Kind() Kind { return ArrayKind }

// Name returns "array".
func (*Array) Name() string { return "array" }

func (t *Array) String() string { return str(t.Elem) + "[]" }

func (t *Array) key() string { return "array(" + keyOf(t.Elem) + ")" }

// List is a growable sequence of elements.
type List struct {
	Elem Type
}

// Kind returns ListKind.
func (*List) Kind() Kind { return ListKind }

// Name returns "list".
func (*List) Name() string { return "list" }

func (t *List) String() string { return "[" + str(t.Elem) + "]" }

func (t *List) key() string { return "list(" + keyOf(t.Elem) + ")" }

// GenericParam is a type parameter of a generic definition.
type GenericParam struct {
	ParamName   string
	Constraints []Type
}

// Kind returns GenericParamKind.
func (*GenericParam) Kind() Kind { return GenericParamKind }

// Name of the parameter.
func (t *GenericParam) Name() string { return t.ParamName }

func (t *GenericParam) String() string {
	if len(t.Constraints) == 0 {
		return t.ParamName
	}
	return t.ParamName + ": " + join(t.Constraints, Type.String)
}

func (t *GenericParam) key() string {
	return "param:" + t.ParamName + "(" + join(t.Constraints, keyOf) + ")"
}

// GenericInstance is a generic definition instantiated with type arguments.
type GenericInstance struct {
	Def  Type
	Args []Type
}

// Kind returns GenericInstanceKind.
func (*GenericInstance) Kind() Kind { return GenericInstanceKind }

// Name of the generic definition.
func (t *GenericInstance) Name() string { return str(t.Def) }

func (t *GenericInstance) String() string {
	return str(t.Def) + "<" + join(t.Args, Type.String) + ">"
}

func (t *GenericInstance) key() string {
	return "inst:" + keyOf(t.Def) + "<" + join(t.Args, keyOf) + ">"
}

// Equal returns true if two types are structurally equal.
// A nil type is only equal to another nil type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.key() == b.key()
}

// IsKnown returns true if the type is neither nil nor unknown.
func IsKnown(t Type) bool {
	return t != nil && t.Kind() != UnknownKind
}

func keyOf(t Type) string {
	if t == nil {
		return "!nil"
	}
	return t.key()
}

func str(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func join(ts []Type, f func(Type) string) string {
	ss := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			ss[i] = "<nil>"
			continue
		}
		ss[i] = f(t)
	}
	return strings.Join(ss, ", ")
}
