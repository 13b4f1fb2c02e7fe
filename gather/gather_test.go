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

package gather_test

import (
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisiblepancake/cudf"
	"github.com/invisiblepancake/cudf/gather"
)

func fromJSON(t *testing.T, mem memory.Allocator, dt arrow.DataType, data string) arrow.Array {
	t.Helper()
	arr, _, err := array.FromJSON(mem, dt, strings.NewReader(data))
	require.NoError(t, err)
	return arr
}

func checkGather(t *testing.T, dt arrow.DataType, src string, idx []int32, want string) {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	in := fromJSON(t, mem, dt, src)
	defer in.Release()
	exp := fromJSON(t, mem, dt, want)
	defer exp.Release()

	got, err := gather.Array(mem, in, idx)
	require.NoError(t, err)
	defer got.Release()
	assert.True(t, array.Equal(exp, got), "got %v, want %v", got, exp)
}

func TestGatherPrimitive(t *testing.T) {
	checkGather(t, arrow.PrimitiveTypes.Int32,
		`[10, 11, null, 13, 14]`, []int32{4, 2, 0, 0}, `[14, null, 10, 10]`)
	checkGather(t, arrow.PrimitiveTypes.Float64,
		`[0.5, null, 2.5]`, []int32{1, 2}, `[null, 2.5]`)
	checkGather(t, arrow.FixedWidthTypes.Boolean,
		`[true, false, null]`, []int32{2, 1, 0}, `[null, false, true]`)
}

func TestGatherStrings(t *testing.T) {
	checkGather(t, arrow.BinaryTypes.String,
		`["all", null, "the", "new", "strings"]`, []int32{3, 1, 0}, `["new", null, "all"]`)
}

func TestGatherLists(t *testing.T) {
	checkGather(t, arrow.ListOf(arrow.PrimitiveTypes.Int32),
		`[[1, 2], [], null, [3, null, 5]]`, []int32{3, 2, 0}, `[[3, null, 5], null, [1, 2]]`)
}

func TestGatherStructs(t *testing.T) {
	dt := arrow.StructOf(
		arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
	)
	checkGather(t, dt,
		`[{"a": 1, "b": "x"}, null, {"a": null, "b": "z"}]`,
		[]int32{2, 1, 0},
		`[{"a": null, "b": "z"}, null, {"a": 1, "b": "x"}]`)
}

func TestGatherEmptyMap(t *testing.T) {
	checkGather(t, arrow.PrimitiveTypes.Int32, `[1, 2, 3]`, nil, `[]`)
}

func TestGatherDictionaryReusesDictionary(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int16, ValueType: arrow.BinaryTypes.String}
	in := fromJSON(t, mem, dt, `["all", "new", null, "all"]`)
	defer in.Release()

	got, err := gather.Array(mem, in, []int32{3, 2, 1})
	require.NoError(t, err)
	defer got.Release()

	out := got.(*array.Dictionary)
	assert.True(t, array.Equal(in.(*array.Dictionary).Dictionary(), out.Dictionary()),
		"dictionary values carry over untouched")
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "all", out.Dictionary().(*array.String).Value(out.GetValueIndex(0)))
	assert.True(t, out.IsNull(1))
	assert.Equal(t, "new", out.Dictionary().(*array.String).Value(out.GetValueIndex(2)))
}

func TestGatherRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "k", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "v", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, nil)
	rec, _, err := array.RecordFromJSON(mem, schema, strings.NewReader(`[
		{"k": "a", "v": 1},
		{"k": "b", "v": null},
		{"k": null, "v": 3}
	]`))
	require.NoError(t, err)
	defer rec.Release()
	want, _, err := array.RecordFromJSON(mem, schema, strings.NewReader(`[
		{"k": null, "v": 3},
		{"k": "a", "v": 1}
	]`))
	require.NoError(t, err)
	defer want.Release()

	got, err := gather.Record(mem, rec, []int32{2, 0})
	require.NoError(t, err)
	defer got.Release()
	assert.True(t, array.RecordEqual(want, got))
}

func TestGatherOutOfRange(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	in := fromJSON(t, mem, arrow.PrimitiveTypes.Int32, `[1, 2, 3]`)
	defer in.Release()

	_, err := gather.Array(mem, in, []int32{0, 3})
	assert.ErrorIs(t, err, cudf.ErrOutOfRange)
	_, err = gather.Array(mem, in, []int32{-1})
	assert.ErrorIs(t, err, cudf.ErrOutOfRange)
}
