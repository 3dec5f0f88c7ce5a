/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package testutil builds capability tables for tests.
package testutil

import (
	"reflect"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/slots"
)

// Full returns a table of type T with every slot set to a stub that returns
// zero values.
func Full[T any]() T {
	var t T
	fill(reflect.ValueOf(&t).Elem())
	return t
}

func fill(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Struct:
			fill(f)
		case reflect.Func:
			typ := f.Type()
			f.Set(reflect.MakeFunc(typ, func([]reflect.Value) []reflect.Value {
				out := make([]reflect.Value, typ.NumOut())
				for j := range out {
					out[j] = reflect.Zero(typ.Out(j))
				}
				return out
			}))
		}
	}
}

// With returns a table holding only the slots of full that belong to cats.
func With[T any](table []slots.Slot[T], full *T, cats api.Opcat) T {
	var t T
	for _, s := range table {
		if s.Cat&cats != 0 {
			s.Copy(&t, full)
		}
	}
	return t
}

// WithKinds returns a table holding only the slots of full in category cat
// whose kind is in kinds.
func WithKinds[T any](table []slots.Slot[T], full *T, cat api.Opcat, kinds api.Opkind) T {
	var t T
	for _, s := range table {
		if s.Cat == cat && s.Kind&kinds != 0 {
			s.Copy(&t, full)
		}
	}
	return t
}
