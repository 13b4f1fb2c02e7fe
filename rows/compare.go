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

// Package rows implements row-level equality, ordering and hashing over
// Arrow records, recursing through nested (list/struct) columns and
// honoring configurable null/NaN semantics. It is the foundation the
// distinct, sort, groupby and join operators share: two rows that
// compare equal under a given policy always hash equal under the same
// policy.
package rows

import (
	"bytes"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/invisiblepancake/cudf"
)

// keyColumns resolves the key column indices of rec, reporting
// ErrOutOfRange for any index outside the schema.
func keyColumns(rec arrow.Record, keyIndices []int) ([]arrow.Array, error) {
	cols := make([]arrow.Array, len(keyIndices))
	for i, k := range keyIndices {
		if k < 0 || k >= int(rec.NumCols()) {
			return nil, fmt.Errorf("%w: key column %d for table with %d columns",
				cudf.ErrOutOfRange, k, rec.NumCols())
		}
		cols[i] = rec.Column(k)
	}
	return cols, nil
}

// checkComparable verifies that a column type participates in row
// comparison, recursing into nested children.
func checkComparable(colIdx int, dt arrow.DataType) error {
	switch dt.ID() {
	case arrow.BOOL,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY,
		arrow.DECIMAL128,
		arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP,
		arrow.TIME32, arrow.TIME64, arrow.DURATION:
		return nil
	case arrow.LIST:
		return checkComparable(colIdx, dt.(*arrow.ListType).Elem())
	case arrow.LARGE_LIST:
		return checkComparable(colIdx, dt.(*arrow.LargeListType).Elem())
	case arrow.FIXED_SIZE_LIST:
		return checkComparable(colIdx, dt.(*arrow.FixedSizeListType).Elem())
	case arrow.STRUCT:
		st := dt.(*arrow.StructType)
		for i := 0; i < st.NumFields(); i++ {
			if err := checkComparable(colIdx, st.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	case arrow.DICTIONARY:
		return checkComparable(colIdx, dt.(*arrow.DictionaryType).ValueType)
	}
	return fmt.Errorf("%w: column %d has non-comparable type %s",
		cudf.ErrTypeMismatch, colIdx, dt)
}

// pairKeyColumns resolves and type-checks the key columns of a record
// pair. Both sides must carry identical types for every key.
func pairKeyColumns(left, right arrow.Record, keyIndices []int) (lcols, rcols []arrow.Array, err error) {
	if lcols, err = keyColumns(left, keyIndices); err != nil {
		return nil, nil, err
	}
	if rcols, err = keyColumns(right, keyIndices); err != nil {
		return nil, nil, err
	}
	for i, k := range keyIndices {
		lt, rt := lcols[i].DataType(), rcols[i].DataType()
		if !arrow.TypeEqual(lt, rt) {
			return nil, nil, fmt.Errorf("%w: column %d: expected %s, got %s",
				cudf.ErrTypeMismatch, k, lt, rt)
		}
		if err = checkComparable(k, lt); err != nil {
			return nil, nil, err
		}
	}
	return lcols, rcols, nil
}

// EqualityComparator decides whether a row of a left record and a row
// of a right record carry equal key tuples. Comparing rows within one
// table is the special case of passing the same record twice. The
// comparator holds non-owning views only; it is safe for concurrent
// use by any number of goroutines.
type EqualityComparator struct {
	left, right []arrow.Array
	nullsEqual  bool
	nansEqual   bool
}

// NewEqualityComparator validates the key columns of both records and
// returns a comparator bound to the given null/NaN policies. It fails
// with ErrOutOfRange for a key index outside either schema and with
// ErrTypeMismatch for non-identical or non-comparable key types.
func NewEqualityComparator(left, right arrow.Record, keyIndices []int,
	nullEq cudf.NullEquality, nanEq cudf.NanEquality) (*EqualityComparator, error) {
	lcols, rcols, err := pairKeyColumns(left, right, keyIndices)
	if err != nil {
		return nil, err
	}
	return &EqualityComparator{
		left:       lcols,
		right:      rcols,
		nullsEqual: nullEq == cudf.NullEqual,
		nansEqual:  nanEq == cudf.NanAllEqual,
	}, nil
}

// RowsEqual reports whether row lhs of the left record equals row rhs
// of the right record across every key column.
func (c *EqualityComparator) RowsEqual(lhs, rhs int) bool {
	for i := range c.left {
		if !valueEqual(c.left[i], lhs, c.right[i], rhs, c.nullsEqual, c.nansEqual) {
			return false
		}
	}
	return true
}

func floatEqual(l, r float64, nansEqual bool) bool {
	if math.IsNaN(l) || math.IsNaN(r) {
		return nansEqual && math.IsNaN(l) && math.IsNaN(r) &&
			math.Signbit(l) == math.Signbit(r)
	}
	return l == r
}

// valueEqual compares one element of each array. The arrays are known
// to carry identical types; row indices are relative to each array's
// own view, so sliced inputs need no special handling here.
func valueEqual(left arrow.Array, lrow int, right arrow.Array, rrow int, nullsEqual, nansEqual bool) bool {
	lNull, rNull := left.IsNull(lrow), right.IsNull(rrow)
	if lNull || rNull {
		return lNull && rNull && nullsEqual
	}

	switch l := left.(type) {
	case *array.Boolean:
		return l.Value(lrow) == right.(*array.Boolean).Value(rrow)
	case *array.Int8:
		return l.Value(lrow) == right.(*array.Int8).Value(rrow)
	case *array.Int16:
		return l.Value(lrow) == right.(*array.Int16).Value(rrow)
	case *array.Int32:
		return l.Value(lrow) == right.(*array.Int32).Value(rrow)
	case *array.Int64:
		return l.Value(lrow) == right.(*array.Int64).Value(rrow)
	case *array.Uint8:
		return l.Value(lrow) == right.(*array.Uint8).Value(rrow)
	case *array.Uint16:
		return l.Value(lrow) == right.(*array.Uint16).Value(rrow)
	case *array.Uint32:
		return l.Value(lrow) == right.(*array.Uint32).Value(rrow)
	case *array.Uint64:
		return l.Value(lrow) == right.(*array.Uint64).Value(rrow)
	case *array.Float16:
		return floatEqual(float64(l.Value(lrow).Float32()),
			float64(right.(*array.Float16).Value(rrow).Float32()), nansEqual)
	case *array.Float32:
		return floatEqual(float64(l.Value(lrow)),
			float64(right.(*array.Float32).Value(rrow)), nansEqual)
	case *array.Float64:
		return floatEqual(l.Value(lrow), right.(*array.Float64).Value(rrow), nansEqual)
	case *array.String:
		return l.Value(lrow) == right.(*array.String).Value(rrow)
	case *array.LargeString:
		return l.Value(lrow) == right.(*array.LargeString).Value(rrow)
	case *array.Binary:
		return bytes.Equal(l.Value(lrow), right.(*array.Binary).Value(rrow))
	case *array.LargeBinary:
		return bytes.Equal(l.Value(lrow), right.(*array.LargeBinary).Value(rrow))
	case *array.Decimal128:
		return l.Value(lrow) == right.(*array.Decimal128).Value(rrow)
	case *array.Date32:
		return l.Value(lrow) == right.(*array.Date32).Value(rrow)
	case *array.Date64:
		return l.Value(lrow) == right.(*array.Date64).Value(rrow)
	case *array.Timestamp:
		return l.Value(lrow) == right.(*array.Timestamp).Value(rrow)
	case *array.Time32:
		return l.Value(lrow) == right.(*array.Time32).Value(rrow)
	case *array.Time64:
		return l.Value(lrow) == right.(*array.Time64).Value(rrow)
	case *array.Duration:
		return l.Value(lrow) == right.(*array.Duration).Value(rrow)
	case *array.List:
		r := right.(*array.List)
		lStart, lEnd := l.ValueOffsets(lrow)
		rStart, rEnd := r.ValueOffsets(rrow)
		return rangesEqual(l.ListValues(), lStart, lEnd, r.ListValues(), rStart, rEnd, nullsEqual, nansEqual)
	case *array.LargeList:
		r := right.(*array.LargeList)
		lStart, lEnd := l.ValueOffsets(lrow)
		rStart, rEnd := r.ValueOffsets(rrow)
		return rangesEqual(l.ListValues(), lStart, lEnd, r.ListValues(), rStart, rEnd, nullsEqual, nansEqual)
	case *array.FixedSizeList:
		r := right.(*array.FixedSizeList)
		n := int64(l.DataType().(*arrow.FixedSizeListType).Len())
		lStart := (int64(l.Data().Offset()) + int64(lrow)) * n
		rStart := (int64(r.Data().Offset()) + int64(rrow)) * n
		return rangesEqual(l.ListValues(), lStart, lStart+n, r.ListValues(), rStart, rStart+n, nullsEqual, nansEqual)
	case *array.Struct:
		r := right.(*array.Struct)
		for i := 0; i < l.NumField(); i++ {
			if !valueEqual(l.Field(i), lrow, r.Field(i), rrow, nullsEqual, nansEqual) {
				return false
			}
		}
		return true
	case *array.Dictionary:
		r := right.(*array.Dictionary)
		return valueEqual(l.Dictionary(), l.GetValueIndex(lrow),
			r.Dictionary(), r.GetValueIndex(rrow), nullsEqual, nansEqual)
	}
	panic(fmt.Sprintf("rows: unhandled array type %T", left))
}

// rangesEqual compares two child ranges elementwise. An empty range is
// only equal to another empty range; list nullity was already decided
// by the caller, so an empty list is never confused with a null list.
func rangesEqual(left arrow.Array, lStart, lEnd int64, right arrow.Array, rStart, rEnd int64, nullsEqual, nansEqual bool) bool {
	if lEnd-lStart != rEnd-rStart {
		return false
	}
	for k := int64(0); k < lEnd-lStart; k++ {
		if !valueEqual(left, int(lStart+k), right, int(rStart+k), nullsEqual, nansEqual) {
			return false
		}
	}
	return true
}
