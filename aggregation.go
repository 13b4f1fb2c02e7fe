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

package cudf

// AggregationKind identifies one member of the closed set of reduction
// operations. Dispatch on the kind is a single switch per consumer so
// that adding a kind is a compile-visible change, never open
// subclassing.
type AggregationKind int8

const (
	AggSum AggregationKind = iota
	AggProduct
	AggMin
	AggMax
	AggAny
	AggAll
	AggSumOfSquares
	AggMean
	AggVariance
	AggStd
	AggNUnique
	AggHostUDF
)

func (k AggregationKind) String() string {
	switch k {
	case AggSum:
		return "SUM"
	case AggProduct:
		return "PRODUCT"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggAny:
		return "ANY"
	case AggAll:
		return "ALL"
	case AggSumOfSquares:
		return "SUM_OF_SQUARES"
	case AggMean:
		return "MEAN"
	case AggVariance:
		return "VARIANCE"
	case AggStd:
		return "STD"
	case AggNUnique:
		return "NUNIQUE"
	case AggHostUDF:
		return "HOST_UDF"
	}
	return "AggregationKind(unknown)"
}

// SupportsInit reports whether the kind accepts a caller-supplied
// initial accumulator value. Only kinds that are associative with an
// identity do, plus the host-callable escape hatch which receives the
// value verbatim.
func (k AggregationKind) SupportsInit() bool {
	switch k {
	case AggSum, AggProduct, AggMin, AggMax, AggAny, AggAll, AggHostUDF:
		return true
	}
	return false
}

// Aggregation is a tagged descriptor of one reduction operation along
// with its kind-specific parameters. Descriptors are immutable once
// constructed.
type Aggregation struct {
	kind AggregationKind
	ddof int
	udf  HostUDF
}

// Kind returns the aggregation's tag.
func (a *Aggregation) Kind() AggregationKind { return a.kind }

// Ddof returns the delta degrees of freedom carried by Variance and Std
// descriptors; zero for every other kind.
func (a *Aggregation) Ddof() int { return a.ddof }

// UDF returns the host-callable carried by a HostUDF descriptor, or nil.
func (a *Aggregation) UDF() HostUDF { return a.udf }

func (a *Aggregation) String() string { return a.kind.String() }

func NewSumAggregation() *Aggregation          { return &Aggregation{kind: AggSum} }
func NewProductAggregation() *Aggregation      { return &Aggregation{kind: AggProduct} }
func NewMinAggregation() *Aggregation          { return &Aggregation{kind: AggMin} }
func NewMaxAggregation() *Aggregation          { return &Aggregation{kind: AggMax} }
func NewAnyAggregation() *Aggregation          { return &Aggregation{kind: AggAny} }
func NewAllAggregation() *Aggregation          { return &Aggregation{kind: AggAll} }
func NewSumOfSquaresAggregation() *Aggregation { return &Aggregation{kind: AggSumOfSquares} }
func NewMeanAggregation() *Aggregation         { return &Aggregation{kind: AggMean} }
func NewNUniqueAggregation() *Aggregation      { return &Aggregation{kind: AggNUnique} }

// NewVarianceAggregation returns a VARIANCE descriptor. ddof is the
// delta degrees of freedom: the divisor is N - ddof, where N is the
// number of non-null elements considered.
func NewVarianceAggregation(ddof int) *Aggregation {
	return &Aggregation{kind: AggVariance, ddof: ddof}
}

// NewStdAggregation returns a STD descriptor with the given delta
// degrees of freedom.
func NewStdAggregation(ddof int) *Aggregation {
	return &Aggregation{kind: AggStd, ddof: ddof}
}

// NewHostUDFAggregation wraps a caller-supplied host-callable reduction
// in a descriptor so that it routes through the same dispatch as the
// built-in kinds.
func NewHostUDFAggregation(udf HostUDF) *Aggregation {
	return &Aggregation{kind: AggHostUDF, udf: udf}
}
