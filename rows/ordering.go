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

package rows

import (
	"bytes"
	"cmp"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/invisiblepancake/cudf"
)

// OrderingComparator imposes a strict weak ordering on row key tuples:
// key columns compare lexicographically, nulls sort before or after all
// non-null values per the configured NullOrder, and floating-point NaNs
// sort after every non-null number (but before nulls under NullsAfter).
// Sort-based consumers use it where the distinct engine uses the
// equality comparator; both walk nested columns the same way.
type OrderingComparator struct {
	left, right []arrow.Array
	nullsFirst  bool
}

// NewOrderingComparator validates the key columns of both records the
// same way NewEqualityComparator does.
func NewOrderingComparator(left, right arrow.Record, keyIndices []int, nullOrder cudf.NullOrder) (*OrderingComparator, error) {
	lcols, rcols, err := pairKeyColumns(left, right, keyIndices)
	if err != nil {
		return nil, err
	}
	return &OrderingComparator{
		left:       lcols,
		right:      rcols,
		nullsFirst: nullOrder == cudf.NullsBefore,
	}, nil
}

// RowsCompare returns a negative, zero or positive value as row lhs of
// the left record orders before, the same as, or after row rhs of the
// right record.
func (c *OrderingComparator) RowsCompare(lhs, rhs int) int {
	for i := range c.left {
		if r := valueCompare(c.left[i], lhs, c.right[i], rhs, c.nullsFirst); r != 0 {
			return r
		}
	}
	return 0
}

// RowsLess reports whether row lhs orders strictly before row rhs.
func (c *OrderingComparator) RowsLess(lhs, rhs int) bool {
	return c.RowsCompare(lhs, rhs) < 0
}

func floatCompare(l, r float64) int {
	lNaN, rNaN := math.IsNaN(l), math.IsNaN(r)
	switch {
	case lNaN && rNaN:
		return 0
	case lNaN:
		return 1
	case rNaN:
		return -1
	}
	return cmp.Compare(l, r)
}

func boolCompare(l, r bool) int {
	switch {
	case l == r:
		return 0
	case !l:
		return -1
	}
	return 1
}

func valueCompare(left arrow.Array, lrow int, right arrow.Array, rrow int, nullsFirst bool) int {
	lNull, rNull := left.IsNull(lrow), right.IsNull(rrow)
	switch {
	case lNull && rNull:
		return 0
	case lNull:
		if nullsFirst {
			return -1
		}
		return 1
	case rNull:
		if nullsFirst {
			return 1
		}
		return -1
	}

	switch l := left.(type) {
	case *array.Boolean:
		return boolCompare(l.Value(lrow), right.(*array.Boolean).Value(rrow))
	case *array.Int8:
		return cmp.Compare(l.Value(lrow), right.(*array.Int8).Value(rrow))
	case *array.Int16:
		return cmp.Compare(l.Value(lrow), right.(*array.Int16).Value(rrow))
	case *array.Int32:
		return cmp.Compare(l.Value(lrow), right.(*array.Int32).Value(rrow))
	case *array.Int64:
		return cmp.Compare(l.Value(lrow), right.(*array.Int64).Value(rrow))
	case *array.Uint8:
		return cmp.Compare(l.Value(lrow), right.(*array.Uint8).Value(rrow))
	case *array.Uint16:
		return cmp.Compare(l.Value(lrow), right.(*array.Uint16).Value(rrow))
	case *array.Uint32:
		return cmp.Compare(l.Value(lrow), right.(*array.Uint32).Value(rrow))
	case *array.Uint64:
		return cmp.Compare(l.Value(lrow), right.(*array.Uint64).Value(rrow))
	case *array.Float16:
		return floatCompare(float64(l.Value(lrow).Float32()),
			float64(right.(*array.Float16).Value(rrow).Float32()))
	case *array.Float32:
		return floatCompare(float64(l.Value(lrow)), float64(right.(*array.Float32).Value(rrow)))
	case *array.Float64:
		return floatCompare(l.Value(lrow), right.(*array.Float64).Value(rrow))
	case *array.String:
		return cmp.Compare(l.Value(lrow), right.(*array.String).Value(rrow))
	case *array.LargeString:
		return cmp.Compare(l.Value(lrow), right.(*array.LargeString).Value(rrow))
	case *array.Binary:
		return bytes.Compare(l.Value(lrow), right.(*array.Binary).Value(rrow))
	case *array.LargeBinary:
		return bytes.Compare(l.Value(lrow), right.(*array.LargeBinary).Value(rrow))
	case *array.Decimal128:
		lv, rv := l.Value(lrow), right.(*array.Decimal128).Value(rrow)
		switch {
		case lv.Less(rv):
			return -1
		case rv.Less(lv):
			return 1
		}
		return 0
	case *array.Date32:
		return cmp.Compare(l.Value(lrow), right.(*array.Date32).Value(rrow))
	case *array.Date64:
		return cmp.Compare(l.Value(lrow), right.(*array.Date64).Value(rrow))
	case *array.Timestamp:
		return cmp.Compare(l.Value(lrow), right.(*array.Timestamp).Value(rrow))
	case *array.Time32:
		return cmp.Compare(l.Value(lrow), right.(*array.Time32).Value(rrow))
	case *array.Time64:
		return cmp.Compare(l.Value(lrow), right.(*array.Time64).Value(rrow))
	case *array.Duration:
		return cmp.Compare(l.Value(lrow), right.(*array.Duration).Value(rrow))
	case *array.List:
		r := right.(*array.List)
		lStart, lEnd := l.ValueOffsets(lrow)
		rStart, rEnd := r.ValueOffsets(rrow)
		return rangesCompare(l.ListValues(), lStart, lEnd, r.ListValues(), rStart, rEnd, nullsFirst)
	case *array.LargeList:
		r := right.(*array.LargeList)
		lStart, lEnd := l.ValueOffsets(lrow)
		rStart, rEnd := r.ValueOffsets(rrow)
		return rangesCompare(l.ListValues(), lStart, lEnd, r.ListValues(), rStart, rEnd, nullsFirst)
	case *array.FixedSizeList:
		r := right.(*array.FixedSizeList)
		n := int64(l.DataType().(*arrow.FixedSizeListType).Len())
		lStart := (int64(l.Data().Offset()) + int64(lrow)) * n
		rStart := (int64(r.Data().Offset()) + int64(rrow)) * n
		return rangesCompare(l.ListValues(), lStart, lStart+n, r.ListValues(), rStart, rStart+n, nullsFirst)
	case *array.Struct:
		r := right.(*array.Struct)
		for i := 0; i < l.NumField(); i++ {
			if c := valueCompare(l.Field(i), lrow, r.Field(i), rrow, nullsFirst); c != 0 {
				return c
			}
		}
		return 0
	case *array.Dictionary:
		r := right.(*array.Dictionary)
		return valueCompare(l.Dictionary(), l.GetValueIndex(lrow),
			r.Dictionary(), r.GetValueIndex(rrow), nullsFirst)
	}
	panic(fmt.Sprintf("rows: unhandled array type %T", left))
}

// rangesCompare orders two child ranges lexicographically; a strict
// prefix orders before the longer list.
func rangesCompare(left arrow.Array, lStart, lEnd int64, right arrow.Array, rStart, rEnd int64, nullsFirst bool) int {
	lLen, rLen := lEnd-lStart, rEnd-rStart
	for k := int64(0); k < min(lLen, rLen); k++ {
		if c := valueCompare(left, int(lStart+k), right, int(rStart+k), nullsFirst); c != 0 {
			return c
		}
	}
	return cmp.Compare(lLen, rLen)
}
