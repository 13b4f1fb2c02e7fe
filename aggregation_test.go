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

package cudf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invisiblepancake/cudf"
)

func TestAggregationKinds(t *testing.T) {
	tests := []struct {
		agg          *cudf.Aggregation
		kind         cudf.AggregationKind
		name         string
		supportsInit bool
	}{
		{cudf.NewSumAggregation(), cudf.AggSum, "SUM", true},
		{cudf.NewProductAggregation(), cudf.AggProduct, "PRODUCT", true},
		{cudf.NewMinAggregation(), cudf.AggMin, "MIN", true},
		{cudf.NewMaxAggregation(), cudf.AggMax, "MAX", true},
		{cudf.NewAnyAggregation(), cudf.AggAny, "ANY", true},
		{cudf.NewAllAggregation(), cudf.AggAll, "ALL", true},
		{cudf.NewSumOfSquaresAggregation(), cudf.AggSumOfSquares, "SUM_OF_SQUARES", false},
		{cudf.NewMeanAggregation(), cudf.AggMean, "MEAN", false},
		{cudf.NewNUniqueAggregation(), cudf.AggNUnique, "NUNIQUE", false},
		{cudf.NewVarianceAggregation(1), cudf.AggVariance, "VARIANCE", false},
		{cudf.NewStdAggregation(1), cudf.AggStd, "STD", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.kind, tc.agg.Kind())
		assert.Equal(t, tc.name, tc.agg.String())
		assert.Equal(t, tc.supportsInit, tc.agg.Kind().SupportsInit(), tc.name)
	}
}

func TestVarianceDdof(t *testing.T) {
	assert.Equal(t, 0, cudf.NewVarianceAggregation(0).Ddof())
	assert.Equal(t, 2, cudf.NewStdAggregation(2).Ddof())
}

func TestOptionStrings(t *testing.T) {
	assert.Equal(t, "EQUAL", cudf.NullEqual.String())
	assert.Equal(t, "UNEQUAL", cudf.NullUnequal.String())
	assert.Equal(t, "ALL_EQUAL", cudf.NanAllEqual.String())
	assert.Equal(t, "KEEP_ANY", cudf.KeepAny.String())
	assert.Equal(t, "KEEP_FIRST", cudf.KeepFirst.String())
	assert.Equal(t, "KEEP_LAST", cudf.KeepLast.String())
	assert.Equal(t, "KEEP_NONE", cudf.KeepNone.String())
	assert.Equal(t, "EXCLUDE", cudf.ExcludeNulls.String())
	assert.Equal(t, "INCLUDE", cudf.IncludeNulls.String())
}
