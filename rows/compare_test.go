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

package rows_test

import (
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisiblepancake/cudf"
	"github.com/invisiblepancake/cudf/rows"
)

func fromJSON(t *testing.T, mem memory.Allocator, dt arrow.DataType, data string) arrow.Array {
	t.Helper()
	arr, _, err := array.FromJSON(mem, dt, strings.NewReader(data))
	require.NoError(t, err)
	return arr
}

// recordOf builds a record from the given columns, releasing the
// caller's column references. Field names are c0, c1, ...
func recordOf(cols ...arrow.Array) arrow.Record {
	fields := make([]arrow.Field, len(cols))
	names := []string{"c0", "c1", "c2", "c3"}
	for i, c := range cols {
		fields[i] = arrow.Field{Name: names[i], Type: c.DataType(), Nullable: true}
	}
	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(cols[0].Len()))
	for _, c := range cols {
		c.Release()
	}
	return rec
}

func TestEqualityPrimitivesAndNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := recordOf(fromJSON(t, mem, arrow.PrimitiveTypes.Int32, `[20, 20, null, null, 19]`))
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 1))
	assert.False(t, eq.RowsEqual(0, 4))
	assert.True(t, eq.RowsEqual(2, 3), "two nulls compare equal under EQUAL")
	assert.False(t, eq.RowsEqual(0, 2), "null never equals a value")

	neq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullUnequal, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.False(t, neq.RowsEqual(2, 3), "nulls are distinct under UNEQUAL")
	assert.False(t, neq.RowsEqual(2, 2), "a null is not even equal to itself")
	assert.True(t, neq.RowsEqual(0, 1), "null policy does not affect values")
}

func TestEqualityFloatNaN(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	nan := math.NaN()
	negNaN := math.Float64frombits(math.Float64bits(nan) | (1 << 63))
	// NaNs at 1, 2 and 4; index 4 carries the opposite sign bit and a
	// different payload.
	oddPayload := math.Float64frombits(math.Float64bits(nan) ^ 0x1)

	b := array.NewFloat64Builder(mem)
	b.AppendValues([]float64{20., nan, oddPayload, 19., negNaN, 0.}, nil)
	col := b.NewArray()
	b.Release()
	rec := recordOf(col)
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(1, 2), "same-sign NaNs equal regardless of payload")
	assert.False(t, eq.RowsEqual(1, 4), "NaNs of opposite sign classes stay distinct")
	assert.False(t, eq.RowsEqual(0, 1))

	neq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanUnequal)
	require.NoError(t, err)
	assert.False(t, neq.RowsEqual(1, 2))
	assert.False(t, neq.RowsEqual(1, 1), "under UNEQUAL a NaN is not equal to itself")
	assert.True(t, neq.RowsEqual(0, 0))
}

func TestEqualityNegativeZero(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	b := array.NewFloat64Builder(mem)
	b.AppendValues([]float64{0., math.Copysign(0, -1)}, nil)
	rec := recordOf(b.NewArray())
	b.Release()
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 1))
}

func TestEqualityStrings(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := recordOf(fromJSON(t, mem, arrow.BinaryTypes.String, `["all", "new", "new", "all", null, "", "the"]`))
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(1, 2))
	assert.True(t, eq.RowsEqual(0, 3))
	assert.False(t, eq.RowsEqual(0, 1))
	assert.False(t, eq.RowsEqual(4, 5), "null string is not the empty string")
	assert.True(t, eq.RowsEqual(4, 4))
}

func TestEqualityLists(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := recordOf(fromJSON(t, mem, arrow.ListOf(arrow.PrimitiveTypes.Int32),
		`[[], [], [1], [1, 1], [1], null, [1, 2], [1, null], [1, null], null]`))
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 1))
	assert.True(t, eq.RowsEqual(2, 4))
	assert.False(t, eq.RowsEqual(2, 3), "[1] != [1,1]")
	assert.False(t, eq.RowsEqual(3, 6))
	assert.False(t, eq.RowsEqual(0, 5), "an empty list is not a null list")
	assert.True(t, eq.RowsEqual(5, 9), "null lists follow the null policy")
	assert.True(t, eq.RowsEqual(7, 8), "null elements inside lists follow the null policy")

	neq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullUnequal, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.False(t, neq.RowsEqual(5, 9))
	assert.False(t, neq.RowsEqual(7, 8))
	assert.True(t, neq.RowsEqual(0, 1))
}

func TestEqualityStructsNested(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	// struct<a: int32, s: list<struct<b: string>>>: three levels deep.
	dt := arrow.StructOf(
		arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		arrow.Field{Name: "s", Type: arrow.ListOf(arrow.StructOf(
			arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
		)), Nullable: true},
	)
	rec := recordOf(fromJSON(t, mem, dt, `[
		{"a": 1, "s": [{"b": "x"}, {"b": "y"}]},
		{"a": 1, "s": [{"b": "x"}, {"b": "y"}]},
		{"a": 1, "s": [{"b": "y"}, {"b": "x"}]},
		{"a": 2, "s": [{"b": "x"}, {"b": "y"}]},
		{"a": 1, "s": [{"b": "x"}]},
		null,
		null,
		{"a": null, "s": [{"b": "x"}, {"b": "y"}]}
	]`))
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 1))
	assert.False(t, eq.RowsEqual(0, 2), "list order matters")
	assert.False(t, eq.RowsEqual(0, 3))
	assert.False(t, eq.RowsEqual(0, 4))
	assert.True(t, eq.RowsEqual(5, 6), "null struct rows follow the null policy")
	assert.False(t, eq.RowsEqual(5, 7), "a null struct differs from a struct with a null member")
}

func TestEqualitySlicedInput(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := recordOf(fromJSON(t, mem, arrow.PrimitiveTypes.Int64, `[90, 91, 7, 8, 7, 92]`))
	defer rec.Release()
	sliced := rec.NewSlice(2, 5) // [7, 8, 7]
	defer sliced.Release()

	eq, err := rows.NewEqualityComparator(sliced, sliced, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 2))
	assert.False(t, eq.RowsEqual(0, 1))
}

func TestEqualityDictionary(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int16, ValueType: arrow.BinaryTypes.String}
	rec := recordOf(fromJSON(t, mem, dt, `["all", "new", "all", null, "new"]`))
	defer rec.Release()

	eq, err := rows.NewEqualityComparator(rec, rec, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	require.NoError(t, err)
	assert.True(t, eq.RowsEqual(0, 2))
	assert.True(t, eq.RowsEqual(1, 4))
	assert.False(t, eq.RowsEqual(0, 1))
	assert.True(t, eq.RowsEqual(3, 3))
}

func TestComparatorErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	ints := recordOf(fromJSON(t, mem, arrow.PrimitiveTypes.Int32, `[1, 2]`))
	defer ints.Release()
	strs := recordOf(fromJSON(t, mem, arrow.BinaryTypes.String, `["1", "2"]`))
	defer strs.Release()

	_, err := rows.NewEqualityComparator(ints, ints, []int{1}, cudf.NullEqual, cudf.NanAllEqual)
	assert.ErrorIs(t, err, cudf.ErrOutOfRange)

	_, err = rows.NewEqualityComparator(ints, strs, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	assert.ErrorIs(t, err, cudf.ErrTypeMismatch)

	nulls := recordOf(array.NewNull(2))
	defer nulls.Release()
	_, err = rows.NewEqualityComparator(nulls, nulls, []int{0}, cudf.NullEqual, cudf.NanAllEqual)
	assert.ErrorIs(t, err, cudf.ErrTypeMismatch)
}

func TestOrderingComparator(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	nan := math.NaN()
	b := array.NewFloat64Builder(mem)
	b.AppendValues([]float64{20., nan, 19., 0.}, []bool{true, true, true, false})
	rec := recordOf(b.NewArray())
	b.Release()
	defer rec.Release()

	before, err := rows.NewOrderingComparator(rec, rec, []int{0}, cudf.NullsBefore)
	require.NoError(t, err)
	assert.True(t, before.RowsLess(2, 0), "19 < 20")
	assert.True(t, before.RowsLess(0, 1), "numbers order before NaN")
	assert.True(t, before.RowsLess(3, 2), "nulls first")
	assert.True(t, before.RowsLess(3, 1), "nulls order before NaN too")
	assert.False(t, before.RowsLess(1, 1))
	assert.Zero(t, before.RowsCompare(1, 1))

	after, err := rows.NewOrderingComparator(rec, rec, []int{0}, cudf.NullsAfter)
	require.NoError(t, err)
	assert.True(t, after.RowsLess(1, 3), "NaN orders before nulls when nulls are last")
	assert.True(t, after.RowsLess(0, 3))
}

func TestOrderingLists(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec := recordOf(fromJSON(t, mem, arrow.ListOf(arrow.PrimitiveTypes.Int32),
		`[[], [1], [1, 1], [1, 2], [2]]`))
	defer rec.Release()

	oc, err := rows.NewOrderingComparator(rec, rec, []int{0}, cudf.NullsBefore)
	require.NoError(t, err)
	assert.True(t, oc.RowsLess(0, 1), "empty list is a prefix of any list")
	assert.True(t, oc.RowsLess(1, 2), "[1] < [1,1]")
	assert.True(t, oc.RowsLess(2, 3), "[1,1] < [1,2]")
	assert.True(t, oc.RowsLess(3, 4))
	assert.False(t, oc.RowsLess(4, 3))
}
