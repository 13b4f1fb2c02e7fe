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

// Package reduction applies aggregations over contiguous sub-ranges of
// a column. Each aggregation kind routes through a single dispatch
// switch to a specialized kernel; user logic enters only through the
// HostUDF descriptor, never by extending the kind registry.
package reduction

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/invisiblepancake/cudf"
)

// SegmentedReduce reduces each contiguous segment of values delimited
// by offsets to a single output element, producing a column of
// len(offsets)-1 elements of outType. offsets must be non-decreasing
// with every value inside [0, values.Len()].
//
// nullHandling decides whether null elements are skipped (ExcludeNulls)
// or poison their segment's result to null (IncludeNulls). init, when
// non-nil, seeds the accumulator of the associative-with-identity kinds
// (Sum, Product, Min, Max, Any, All) and is passed through to HostUDF;
// its type must match the column's element type.
func SegmentedReduce(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, agg *cudf.Aggregation, outType arrow.DataType,
	nullHandling cudf.NullPolicy, init scalar.Scalar) (arrow.Array, error) {
	if agg == nil {
		return nil, fmt.Errorf("%w: nil aggregation", cudf.ErrInvalidArgument)
	}
	if init != nil {
		if !init.IsValid() {
			return nil, fmt.Errorf("%w: initial value must be a valid scalar", cudf.ErrInvalidArgument)
		}
		if !arrow.TypeEqual(init.DataType(), values.DataType()) {
			return nil, fmt.Errorf("%w: column and initial value must be the same type: %s vs %s",
				cudf.ErrTypeMismatch, values.DataType(), init.DataType())
		}
		if !agg.Kind().SupportsInit() {
			return nil, fmt.Errorf("%w: initial value is not supported for %s",
				cudf.ErrInvalidArgument, agg.Kind())
		}
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: offsets must have at least 1 element", cudf.ErrInvalidArgument)
	}
	if err := validateOffsets(offsets, values.Len()); err != nil {
		return nil, err
	}

	switch agg.Kind() {
	case cudf.AggSum:
		return reduceArithmeticDispatch(ctx, mem, values, offsets, outType, nullHandling, init, opSum)
	case cudf.AggProduct:
		return reduceArithmeticDispatch(ctx, mem, values, offsets, outType, nullHandling, init, opProduct)
	case cudf.AggMin:
		return reduceArithmeticDispatch(ctx, mem, values, offsets, outType, nullHandling, init, opMin)
	case cudf.AggMax:
		return reduceArithmeticDispatch(ctx, mem, values, offsets, outType, nullHandling, init, opMax)
	case cudf.AggSumOfSquares:
		return reduceArithmeticDispatch(ctx, mem, values, offsets, outType, nullHandling, nil, opSumOfSquares)
	case cudf.AggAny:
		return reduceBool(ctx, mem, values, offsets, outType, nullHandling, init, false)
	case cudf.AggAll:
		return reduceBool(ctx, mem, values, offsets, outType, nullHandling, init, true)
	case cudf.AggMean:
		return reduceMean(ctx, mem, values, offsets, outType, nullHandling)
	case cudf.AggVariance:
		return reduceVariance(ctx, mem, values, offsets, outType, nullHandling, agg.Ddof(), false)
	case cudf.AggStd:
		return reduceVariance(ctx, mem, values, offsets, outType, nullHandling, agg.Ddof(), true)
	case cudf.AggNUnique:
		return reduceNUnique(ctx, mem, values, offsets, nullHandling)
	case cudf.AggHostUDF:
		return reduceHostUDF(ctx, mem, values, offsets, agg, outType, nullHandling, init)
	}
	return nil, fmt.Errorf("%w: %s has no segmented implementation",
		cudf.ErrUnsupportedAggregation, agg.Kind())
}

// validateOffsets checks monotonicity and bounds; offsets arrive
// caller-sorted by contract.
func validateOffsets(offsets []int32, n int) error {
	if offsets[0] < 0 {
		return fmt.Errorf("%w: offsets[0] = %d is negative", cudf.ErrInvalidArgument, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offsets must be non-decreasing: offsets[%d]=%d < offsets[%d]=%d",
				cudf.ErrInvalidArgument, i, offsets[i], i-1, offsets[i-1])
		}
	}
	if last := offsets[len(offsets)-1]; int(last) > n {
		return fmt.Errorf("%w: offsets[%d]=%d exceeds column length %d",
			cudf.ErrInvalidArgument, len(offsets)-1, last, n)
	}
	return nil
}

// reduceHostUDF assembles the input bundle a host-callable declared it
// needs and invokes it once for the whole column; the callable iterates
// segments internally.
func reduceHostUDF(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, agg *cudf.Aggregation, outType arrow.DataType,
	nullHandling cudf.NullPolicy, init scalar.Scalar) (arrow.Array, error) {
	udf := agg.UDF()
	if udf == nil {
		return nil, fmt.Errorf("%w: HOST_UDF aggregation carries no callable", cudf.ErrInvalidArgument)
	}

	attrs := udf.RequiredData()
	if len(attrs) == 0 { // empty means everything
		attrs = []cudf.UDFAttribute{
			cudf.UDFInputValues, cudf.UDFOutputType, cudf.UDFInitValue,
			cudf.UDFNullPolicy, cudf.UDFOffsets,
		}
	}

	// The bundle is rebuilt on every call; the attribute values change
	// from run to run.
	var in cudf.UDFInput
	for _, attr := range attrs {
		switch attr {
		case cudf.UDFInputValues:
			in.Values = values
		case cudf.UDFOutputType:
			in.OutputType = outType
		case cudf.UDFInitValue:
			in.Init = init
		case cudf.UDFNullPolicy:
			in.NullHandling = nullHandling
		case cudf.UDFOffsets:
			in.Offsets = offsets
		default:
			return nil, fmt.Errorf("%w: invalid data attribute %d for HOST_UDF segmented reduction",
				cudf.ErrInvalidArgument, attr)
		}
	}

	out, err := udf.Call(ctx, mem, in)
	if err != nil {
		return nil, err
	}
	numSegments := len(offsets) - 1
	if out == nil {
		return nil, fmt.Errorf("%w: HOST_UDF segmented reduction returned no column", cudf.ErrInvalidResult)
	}
	if n := out.Len(); n != numSegments {
		out.Release()
		return nil, fmt.Errorf("%w: HOST_UDF segmented reduction returned %d elements, want %d",
			cudf.ErrInvalidResult, n, numSegments)
	}
	if dt := out.DataType(); !arrow.TypeEqual(dt, outType) {
		out.Release()
		return nil, fmt.Errorf("%w: HOST_UDF segmented reduction returned type %s, want %s",
			cudf.ErrInvalidResult, dt, outType)
	}
	return out, nil
}
