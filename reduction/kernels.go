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
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/invisiblepancake/cudf"
	"github.com/invisiblepancake/cudf/rows"
)

type arithOp int8

const (
	opSum arithOp = iota
	opProduct
	opMin
	opMax
	opSumOfSquares
)

// segmentChunk is the number of segments reduced per parallel task.
const segmentChunk = 256

// forEachSegment fans fn out over segment-index chunks. Segments are
// mutually independent, so completion order never affects results.
func forEachSegment(ctx context.Context, numSegments int, fn func(seg int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < numSegments; start += segmentChunk {
		start, end := start, min(start+segmentChunk, numSegments)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for s := start; s < end; s++ {
				if err := fn(s); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// reduceArithmeticDispatch classifies the input element type into a
// signed, unsigned or floating accumulator and runs the generic kernel.
func reduceArithmeticDispatch(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, outType arrow.DataType, nullHandling cudf.NullPolicy,
	init scalar.Scalar, op arithOp) (arrow.Array, error) {
	include := nullHandling == cudf.IncludeNulls
	isNull := values.IsNull

	if at := signedAt(values); at != nil {
		iv, err := initSigned(init)
		if err != nil {
			return nil, err
		}
		vals, valid, err := reduceArithmetic(ctx, offsets, at, isNull, op, iv, include)
		if err != nil {
			return nil, err
		}
		return emitNumeric(mem, outType, vals, valid)
	}
	if at := unsignedAt(values); at != nil {
		iv, err := initUnsigned(init)
		if err != nil {
			return nil, err
		}
		vals, valid, err := reduceArithmetic(ctx, offsets, at, isNull, op, iv, include)
		if err != nil {
			return nil, err
		}
		return emitNumeric(mem, outType, vals, valid)
	}
	if at := floatAt(values); at != nil {
		iv, err := initFloat(init)
		if err != nil {
			return nil, err
		}
		vals, valid, err := reduceArithmetic(ctx, offsets, at, isNull, op, iv, include)
		if err != nil {
			return nil, err
		}
		return emitNumeric(mem, outType, vals, valid)
	}
	return nil, fmt.Errorf("%w: arithmetic reduction over input type %s",
		cudf.ErrUnsupportedAggregation, values.DataType())
}

// reduceArithmetic computes one accumulator per segment. A segment
// yields null when it is poisoned by a null under IncludeNulls, or when
// nothing (neither init nor a non-null element) ever seeded the
// accumulator.
func reduceArithmetic[W constraints.Integer | constraints.Float](ctx context.Context,
	offsets []int32, at func(int) W, isNull func(int) bool,
	op arithOp, init *W, include bool) ([]W, []bool, error) {
	numSegments := len(offsets) - 1
	vals := make([]W, numSegments)
	valid := make([]bool, numSegments)
	err := forEachSegment(ctx, numSegments, func(s int) error {
		var acc W
		got := true
		if init != nil {
			acc = *init
		} else {
			got = false
		}
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if isNull(i) {
				if include {
					got = false
					break
				}
				continue
			}
			v := at(i)
			if op == opSumOfSquares {
				v = v * v
			}
			if !got {
				acc, got = v, true
				continue
			}
			switch op {
			case opSum, opSumOfSquares:
				acc += v
			case opProduct:
				acc *= v
			case opMin:
				if v < acc {
					acc = v
				}
			case opMax:
				if v > acc {
					acc = v
				}
			}
		}
		vals[s], valid[s] = acc, got
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return vals, valid, nil
}

// reduceBool implements ANY (disjunction) and ALL (conjunction) over
// boolean or numeric input, treating non-zero numbers as true.
func reduceBool(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, outType arrow.DataType, nullHandling cudf.NullPolicy,
	init scalar.Scalar, isAll bool) (arrow.Array, error) {
	truthy := truthyAt(values)
	if truthy == nil {
		return nil, fmt.Errorf("%w: ANY/ALL reduction over input type %s",
			cudf.ErrUnsupportedAggregation, values.DataType())
	}
	if outType.ID() != arrow.BOOL {
		return nil, fmt.Errorf("%w: ANY/ALL require boolean output, got %s",
			cudf.ErrTypeMismatch, outType)
	}
	var initB *bool
	if init != nil {
		b, err := scalarTruthy(init)
		if err != nil {
			return nil, err
		}
		initB = &b
	}
	include := nullHandling == cudf.IncludeNulls

	numSegments := len(offsets) - 1
	vals := make([]bool, numSegments)
	valid := make([]bool, numSegments)
	err := forEachSegment(ctx, numSegments, func(s int) error {
		var acc bool
		got := initB != nil
		if got {
			acc = *initB
		}
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if values.IsNull(i) {
				if include {
					got = false
					break
				}
				continue
			}
			v := truthy(i)
			if !got {
				acc, got = v, true
				continue
			}
			if isAll {
				acc = acc && v
			} else {
				acc = acc || v
			}
		}
		vals[s], valid[s] = acc, got
		return nil
	})
	if err != nil {
		return nil, err
	}

	bldr := array.NewBooleanBuilder(mem)
	defer bldr.Release()
	bldr.Reserve(numSegments)
	for i, v := range vals {
		if valid[i] {
			bldr.Append(v)
		} else {
			bldr.AppendNull()
		}
	}
	return bldr.NewArray(), nil
}

func reduceMean(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, outType arrow.DataType, nullHandling cudf.NullPolicy) (arrow.Array, error) {
	at := numericAsFloat(values)
	if at == nil {
		return nil, fmt.Errorf("%w: MEAN reduction over input type %s",
			cudf.ErrUnsupportedAggregation, values.DataType())
	}
	if outType.ID() != arrow.FLOAT32 && outType.ID() != arrow.FLOAT64 {
		return nil, fmt.Errorf("%w: MEAN requires floating-point output, got %s",
			cudf.ErrTypeMismatch, outType)
	}
	include := nullHandling == cudf.IncludeNulls

	numSegments := len(offsets) - 1
	vals := make([]float64, numSegments)
	valid := make([]bool, numSegments)
	err := forEachSegment(ctx, numSegments, func(s int) error {
		var sum float64
		var count int
		poisoned := false
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if values.IsNull(i) {
				if include {
					poisoned = true
					break
				}
				continue
			}
			sum += at(i)
			count++
		}
		if poisoned || count == 0 {
			return nil
		}
		vals[s], valid[s] = sum/float64(count), true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emitNumeric(mem, outType, vals, valid)
}

// reduceVariance computes the ddof-adjusted variance of each segment,
// or its square root for STD. A segment with fewer than ddof+1 usable
// elements yields null.
func reduceVariance(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, outType arrow.DataType, nullHandling cudf.NullPolicy,
	ddof int, sqrtOut bool) (arrow.Array, error) {
	at := numericAsFloat(values)
	if at == nil {
		return nil, fmt.Errorf("%w: VARIANCE/STD reduction over input type %s",
			cudf.ErrUnsupportedAggregation, values.DataType())
	}
	if outType.ID() != arrow.FLOAT32 && outType.ID() != arrow.FLOAT64 {
		return nil, fmt.Errorf("%w: VARIANCE/STD require floating-point output, got %s",
			cudf.ErrTypeMismatch, outType)
	}
	include := nullHandling == cudf.IncludeNulls

	numSegments := len(offsets) - 1
	vals := make([]float64, numSegments)
	valid := make([]bool, numSegments)
	err := forEachSegment(ctx, numSegments, func(s int) error {
		var sum float64
		var count int
		poisoned := false
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if values.IsNull(i) {
				if include {
					poisoned = true
					break
				}
				continue
			}
			sum += at(i)
			count++
		}
		if poisoned || count < ddof+1 {
			return nil
		}
		mean := sum / float64(count)
		var ss float64
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if values.IsNull(i) {
				continue
			}
			d := at(i) - mean
			ss += d * d
		}
		v := ss / float64(count-ddof)
		if sqrtOut {
			v = math.Sqrt(v)
		}
		vals[s], valid[s] = v, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emitNumeric(mem, outType, vals, valid)
}

// reduceNUnique counts the exact number of distinct elements per
// segment, reusing the row hasher and equality comparator over a
// single-column view so nested element types count correctly. Under
// ExcludeNulls nulls are skipped; under IncludeNulls all nulls of a
// segment count as one distinct value. The output is always int32
// counts, every segment valid.
func reduceNUnique(ctx context.Context, mem memory.Allocator, values arrow.Array,
	offsets []int32, nullHandling cudf.NullPolicy) (arrow.Array, error) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "values", Type: values.DataType(), Nullable: true},
	}, nil)
	rec := array.NewRecord(schema, []arrow.Array{values}, int64(values.Len()))
	defer rec.Release()

	hasher, err := rows.NewHasher(rec, []int{0}, cudf.NanAllEqual)
	if err != nil {
		return nil, err
	}
	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	if err != nil {
		return nil, err
	}
	include := nullHandling == cudf.IncludeNulls

	numSegments := len(offsets) - 1
	counts := make([]int32, numSegments)
	err = forEachSegment(ctx, numSegments, func(s int) error {
		seen := make(map[uint64][]int)
		var count int32
		sawNull := false
		for i := int(offsets[s]); i < int(offsets[s+1]); i++ {
			if values.IsNull(i) {
				sawNull = true
				continue
			}
			h := hasher.HashRow(i)
			reps := seen[h]
			dup := false
			for _, r := range reps {
				if eq.RowsEqual(r, i) {
					dup = true
					break
				}
			}
			if !dup {
				seen[h] = append(reps, i)
				count++
			}
		}
		if include && sawNull {
			count++
		}
		counts[s] = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	bldr := array.NewInt32Builder(mem)
	defer bldr.Release()
	bldr.AppendValues(counts, nil)
	return bldr.NewArray(), nil
}

// emitNumeric materializes per-segment accumulators into a column of
// the requested numeric output type, converting with Go's numeric
// conversion rules (integral narrowing truncates, as the source engine
// does on cast).
func emitNumeric[W constraints.Integer | constraints.Float](mem memory.Allocator,
	outType arrow.DataType, vals []W, valid []bool) (arrow.Array, error) {
	bldr := array.NewBuilder(mem, outType)
	defer bldr.Release()

	var app func(W)
	switch b := bldr.(type) {
	case *array.Int8Builder:
		app = func(v W) { b.Append(int8(v)) }
	case *array.Int16Builder:
		app = func(v W) { b.Append(int16(v)) }
	case *array.Int32Builder:
		app = func(v W) { b.Append(int32(v)) }
	case *array.Int64Builder:
		app = func(v W) { b.Append(int64(v)) }
	case *array.Uint8Builder:
		app = func(v W) { b.Append(uint8(v)) }
	case *array.Uint16Builder:
		app = func(v W) { b.Append(uint16(v)) }
	case *array.Uint32Builder:
		app = func(v W) { b.Append(uint32(v)) }
	case *array.Uint64Builder:
		app = func(v W) { b.Append(uint64(v)) }
	case *array.Float32Builder:
		app = func(v W) { b.Append(float32(v)) }
	case *array.Float64Builder:
		app = func(v W) { b.Append(float64(v)) }
	default:
		return nil, fmt.Errorf("%w: output type %s is not numeric", cudf.ErrTypeMismatch, outType)
	}

	bldr.Reserve(len(vals))
	for i, v := range vals {
		if valid[i] {
			app(v)
		} else {
			bldr.AppendNull()
		}
	}
	return bldr.NewArray(), nil
}
