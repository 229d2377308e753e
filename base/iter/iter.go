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

// Package iter provides common iterators over slices.
package iter

// All iterates over the elements of multiple slices.
func All[T any](slices ...[]T) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, slice := range slices {
			for _, el := range slice {
				if !yield(el) {
					return
				}
			}
		}
	}
}

// Filter iterates over the elements of multiple slices
// for which f returns true.
func Filter[T any](f func(T) bool, slices ...[]T) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for el := range All(slices...) {
			if f(el) && !yield(el) {
				return
			}
		}
	}
}

// OfType iterates over the elements of a slice of interfaces whose
// dynamic type is T.
func OfType[T any, E any](slice []E) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, el := range slice {
			t, ok := any(el).(T)
			if ok && !yield(t) {
				return
			}
		}
	}
}

// Count returns the number of elements of multiple slices for which f
// returns true.
func Count[T any](f func(T) bool, slices ...[]T) int {
	n := 0
	for range Filter(f, slices...) {
		n++
	}
	return n
}
