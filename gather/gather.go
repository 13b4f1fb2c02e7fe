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

// Package gather materializes a row-index gather map against Arrow
// arrays and records. The output is always newly allocated and shares
// no mutable storage with the input; dictionary columns are gathered by
// index so the dictionary itself is reused rather than copied.
package gather

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/invisiblepancake/cudf"
)

// Array returns a new array holding arr's elements at the given row
// indices, in order. It fails with ErrOutOfRange if any index falls
// outside the array and with ErrTypeMismatch for element types the
// engine cannot copy.
func Array(mem memory.Allocator, arr arrow.Array, indices []int32) (arrow.Array, error) {
	for _, ri := range indices {
		if ri < 0 || int(ri) >= arr.Len() {
			return nil, fmt.Errorf("%w: gather index %d for column of length %d",
				cudf.ErrOutOfRange, ri, arr.Len())
		}
	}

	// Dictionary columns: gather the indices, keep the dictionary.
	if d, ok := arr.(*array.Dictionary); ok {
		idx, err := Array(mem, d.Indices(), indices)
		if err != nil {
			return nil, err
		}
		defer idx.Release()
		return array.NewDictionaryArray(d.DataType(), idx, d.Dictionary()), nil
	}

	bldr := array.NewBuilder(mem, arr.DataType())
	defer bldr.Release()
	bldr.Reserve(len(indices))
	for _, ri := range indices {
		if err := appendValue(bldr, arr, int(ri)); err != nil {
			return nil, err
		}
	}
	return bldr.NewArray(), nil
}

// Record gathers every column of rec by the same index map, producing a
// record of len(indices) rows with rec's schema.
func Record(mem memory.Allocator, rec arrow.Record, indices []int32) (arrow.Record, error) {
	cols := make([]arrow.Array, rec.NumCols())
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()
	for i := range cols {
		col, err := Array(mem, rec.Column(i), indices)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return array.NewRecord(rec.Schema(), cols, int64(len(indices))), nil
}

// appendValue copies one element of src into bldr, recursing through
// nested children. A null element appends a null regardless of type
// (struct builders cascade the null into their field builders).
func appendValue(bldr array.Builder, src arrow.Array, row int) error {
	if src.IsNull(row) {
		bldr.AppendNull()
		return nil
	}

	switch s := src.(type) {
	case *array.Boolean:
		bldr.(*array.BooleanBuilder).Append(s.Value(row))
	case *array.Int8:
		bldr.(*array.Int8Builder).Append(s.Value(row))
	case *array.Int16:
		bldr.(*array.Int16Builder).Append(s.Value(row))
	case *array.Int32:
		bldr.(*array.Int32Builder).Append(s.Value(row))
	case *array.Int64:
		bldr.(*array.Int64Builder).Append(s.Value(row))
	case *array.Uint8:
		bldr.(*array.Uint8Builder).Append(s.Value(row))
	case *array.Uint16:
		bldr.(*array.Uint16Builder).Append(s.Value(row))
	case *array.Uint32:
		bldr.(*array.Uint32Builder).Append(s.Value(row))
	case *array.Uint64:
		bldr.(*array.Uint64Builder).Append(s.Value(row))
	case *array.Float16:
		bldr.(*array.Float16Builder).Append(s.Value(row))
	case *array.Float32:
		bldr.(*array.Float32Builder).Append(s.Value(row))
	case *array.Float64:
		bldr.(*array.Float64Builder).Append(s.Value(row))
	case *array.String:
		bldr.(*array.StringBuilder).Append(s.Value(row))
	case *array.LargeString:
		bldr.(*array.LargeStringBuilder).Append(s.Value(row))
	case *array.Binary:
		bldr.(*array.BinaryBuilder).Append(s.Value(row))
	case *array.LargeBinary:
		bldr.(*array.BinaryBuilder).Append(s.Value(row))
	case *array.Decimal128:
		bldr.(*array.Decimal128Builder).Append(s.Value(row))
	case *array.Date32:
		bldr.(*array.Date32Builder).Append(s.Value(row))
	case *array.Date64:
		bldr.(*array.Date64Builder).Append(s.Value(row))
	case *array.Timestamp:
		bldr.(*array.TimestampBuilder).Append(s.Value(row))
	case *array.Time32:
		bldr.(*array.Time32Builder).Append(s.Value(row))
	case *array.Time64:
		bldr.(*array.Time64Builder).Append(s.Value(row))
	case *array.Duration:
		bldr.(*array.DurationBuilder).Append(s.Value(row))
	case *array.List:
		lb := bldr.(*array.ListBuilder)
		lb.Append(true)
		start, end := s.ValueOffsets(row)
		return appendRange(lb.ValueBuilder(), s.ListValues(), start, end)
	case *array.LargeList:
		lb := bldr.(*array.LargeListBuilder)
		lb.Append(true)
		start, end := s.ValueOffsets(row)
		return appendRange(lb.ValueBuilder(), s.ListValues(), start, end)
	case *array.FixedSizeList:
		lb := bldr.(*array.FixedSizeListBuilder)
		lb.Append(true)
		n := int64(s.DataType().(*arrow.FixedSizeListType).Len())
		start := (int64(s.Data().Offset()) + int64(row)) * n
		return appendRange(lb.ValueBuilder(), s.ListValues(), start, start+n)
	case *array.Struct:
		sb := bldr.(*array.StructBuilder)
		sb.Append(true)
		for i := 0; i < s.NumField(); i++ {
			if err := appendValue(sb.FieldBuilder(i), s.Field(i), row); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: cannot gather elements of type %s",
			cudf.ErrTypeMismatch, src.DataType())
	}
	return nil
}

func appendRange(bldr array.Builder, values arrow.Array, start, end int64) error {
	for k := start; k < end; k++ {
		if err := appendValue(bldr, values, int(k)); err != nil {
			return err
		}
	}
	return nil
}
