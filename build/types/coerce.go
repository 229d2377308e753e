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
	"fmt"
	"reflect"

	"github.com/fifthlang/fifth/build/token"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Seniority orders numeric types: the result of a binary numeric
// operator is its most senior operand.
type Seniority int

// Numeric seniorities, from the least to the most senior.
const (
	ByteSeniority Seniority = iota
	ShortSeniority
	IntSeniority
	LongSeniority
	FloatSeniority
	DoubleSeniority
	DecimalSeniority
)

var decimalType = reflect.TypeFor[decimal.Decimal]()

// SeniorityOf returns the seniority of a numeric type.
// Unsigned integers share the seniority of their signed counterpart.
// The second return value is false if the type is not numeric.
func SeniorityOf(t Type) (Seniority, bool) {
	host, ok := t.(*Host)
	if !ok || host.Go == nil {
		return 0, false
	}
	if host.Go == decimalType {
		return DecimalSeniority, true
	}
	switch host.Go.Kind() {
	case reflect.Int8, reflect.Uint8:
		return ByteSeniority, true
	case reflect.Int16, reflect.Uint16:
		return ShortSeniority, true
	case reflect.Int32, reflect.Uint32:
		return IntSeniority, true
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return LongSeniority, true
	case reflect.Float32:
		return FloatSeniority, true
	case reflect.Float64:
		return DoubleSeniority, true
	}
	return 0, false
}

// TypeCheckingError is returned when operand types are incompatible.
type TypeCheckingError struct {
	Op       token.Op
	LHS, RHS Type
	Msg      string
}

func (e *TypeCheckingError) Error() string {
	return fmt.Sprintf("%s: %s %s %s", e.Msg, str(e.LHS), e.Op, str(e.RHS))
}

// Coercion is the result of typing a binary operator.
type Coercion struct {
	// Result is the type of the operation.
	Result ID
	// CoerceLHS, if not zero, is the type the left operand is converted to.
	CoerceLHS ID
	// CoerceRHS, if not zero, is the type the right operand is converted to.
	CoerceRHS ID
}

const noCoercion = "could not resolve numerical types for coercion"

// OperatorResultType returns the type of a binary operation given the
// types of its operands.
//
// Relational and logical operators are always boolean. Operands of the
// same type yield that type. Otherwise, both operands need to be numeric
// and the least senior operand is coerced to the most senior one.
func OperatorResultType(reg *Registry, op token.Op, lhs, rhs ID) (Coercion, error) {
	if op.IsRelational() {
		boolID, _ := reg.ID(reg.Prim(BoolName))
		return Coercion{Result: boolID}, nil
	}
	if lhs == rhs {
		return Coercion{Result: lhs}, nil
	}
	// An operand missing from the registry has no seniority.
	lt, _ := reg.Lookup(lhs)
	rt, _ := reg.Lookup(rhs)
	ls, lnum := SeniorityOf(lt)
	rs, rnum := SeniorityOf(rt)
	if !lnum || !rnum {
		return Coercion{}, errors.WithStack(&TypeCheckingError{
			Op: op, LHS: lt, RHS: rt,
			Msg: noCoercion,
		})
	}
	if ls > rs {
		return Coercion{Result: lhs, CoerceRHS: lhs}, nil
	}
	return Coercion{Result: rhs, CoerceLHS: rhs}, nil
}
