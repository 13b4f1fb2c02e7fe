// Copyright 2026 The cudf-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reduction

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/invisiblepancake/cudf"
)

// signedAt returns a widened element accessor for signed integer
// arrays, or nil when the array is not signed-integral.
func signedAt(arr arrow.Array) func(int) int64 {
	switch a := arr.(type) {
	case *array.Int8:
		return func(i int) int64 { return int64(a.Value(i)) }
	case *array.Int16:
		return func(i int) int64 { return int64(a.Value(i)) }
	case *array.Int32:
		return func(i int) int64 { return int64(a.Value(i)) }
	case *array.Int64:
		return func(i int) int64 { return a.Value(i) }
	}
	return nil
}

func unsignedAt(arr arrow.Array) func(int) uint64 {
	switch a := arr.(type) {
	case *array.Uint8:
		return func(i int) uint64 { return uint64(a.Value(i)) }
	case *array.Uint16:
		return func(i int) uint64 { return uint64(a.Value(i)) }
	case *array.Uint32:
		return func(i int) uint64 { return uint64(a.Value(i)) }
	case *array.Uint64:
		return func(i int) uint64 { return a.Value(i) }
	}
	return nil
}

func floatAt(arr arrow.Array) func(int) float64 {
	switch a := arr.(type) {
	case *array.Float16:
		return func(i int) float64 { return float64(a.Value(i).Float32()) }
	case *array.Float32:
		return func(i int) float64 { return float64(a.Value(i)) }
	case *array.Float64:
		return func(i int) float64 { return a.Value(i) }
	}
	return nil
}

// numericAsFloat widens any numeric element to float64, for the kinds
// whose result is inherently floating point (MEAN, VARIANCE, STD).
func numericAsFloat(arr arrow.Array) func(int) float64 {
	if at := floatAt(arr); at != nil {
		return at
	}
	if at := signedAt(arr); at != nil {
		return func(i int) float64 { return float64(at(i)) }
	}
	if at := unsignedAt(arr); at != nil {
		return func(i int) float64 { return float64(at(i)) }
	}
	return nil
}

// truthyAt maps boolean and numeric elements to truth values, treating
// any non-zero number (including NaN) as true.
func truthyAt(arr arrow.Array) func(int) bool {
	if a, ok := arr.(*array.Boolean); ok {
		return a.Value
	}
	if at := signedAt(arr); at != nil {
		return func(i int) bool { return at(i) != 0 }
	}
	if at := unsignedAt(arr); at != nil {
		return func(i int) bool { return at(i) != 0 }
	}
	if at := floatAt(arr); at != nil {
		return func(i int) bool { return at(i) != 0 }
	}
	return nil
}

// initSigned converts an initial-value scalar into the signed
// accumulator domain. The scalar's type was already checked against the
// column, so a conversion failure here is a type mismatch on our side
// of the dispatch.
func initSigned(s scalar.Scalar) (*int64, error) {
	if s == nil {
		return nil, nil
	}
	var v int64
	switch sc := s.(type) {
	case *scalar.Int8:
		v = int64(sc.Value)
	case *scalar.Int16:
		v = int64(sc.Value)
	case *scalar.Int32:
		v = int64(sc.Value)
	case *scalar.Int64:
		v = sc.Value
	default:
		return nil, fmt.Errorf("%w: initial value %s for signed integer reduction",
			cudf.ErrTypeMismatch, s.DataType())
	}
	return &v, nil
}

func initUnsigned(s scalar.Scalar) (*uint64, error) {
	if s == nil {
		return nil, nil
	}
	var v uint64
	switch sc := s.(type) {
	case *scalar.Uint8:
		v = uint64(sc.Value)
	case *scalar.Uint16:
		v = uint64(sc.Value)
	case *scalar.Uint32:
		v = uint64(sc.Value)
	case *scalar.Uint64:
		v = sc.Value
	default:
		return nil, fmt.Errorf("%w: initial value %s for unsigned integer reduction",
			cudf.ErrTypeMismatch, s.DataType())
	}
	return &v, nil
}

func initFloat(s scalar.Scalar) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	var v float64
	switch sc := s.(type) {
	case *scalar.Float16:
		v = float64(sc.Value.Float32())
	case *scalar.Float32:
		v = float64(sc.Value)
	case *scalar.Float64:
		v = sc.Value
	default:
		return nil, fmt.Errorf("%w: initial value %s for floating-point reduction",
			cudf.ErrTypeMismatch, s.DataType())
	}
	return &v, nil
}

func scalarTruthy(s scalar.Scalar) (bool, error) {
	switch sc := s.(type) {
	case *scalar.Boolean:
		return sc.Value, nil
	case *scalar.Int8:
		return sc.Value != 0, nil
	case *scalar.Int16:
		return sc.Value != 0, nil
	case *scalar.Int32:
		return sc.Value != 0, nil
	case *scalar.Int64:
		return sc.Value != 0, nil
	case *scalar.Uint8:
		return sc.Value != 0, nil
	case *scalar.Uint16:
		return sc.Value != 0, nil
	case *scalar.Uint32:
		return sc.Value != 0, nil
	case *scalar.Uint64:
		return sc.Value != 0, nil
	case *scalar.Float32:
		return sc.Value != 0, nil
	case *scalar.Float64:
		return sc.Value != 0, nil
	}
	return false, fmt.Errorf("%w: initial value %s for ANY/ALL reduction",
		cudf.ErrTypeMismatch, s.DataType())
}
