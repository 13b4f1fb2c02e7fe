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

import (
	"context"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
)

// UDFAttribute names one piece of data a host-callable aggregation may
// declare it needs from the segmented-reduction dispatcher.
type UDFAttribute int8

const (
	UDFInputValues UDFAttribute = iota
	UDFOutputType
	UDFInitValue
	UDFNullPolicy
	UDFOffsets
)

func (a UDFAttribute) String() string {
	switch a {
	case UDFInputValues:
		return "INPUT_VALUES"
	case UDFOutputType:
		return "OUTPUT_DTYPE"
	case UDFInitValue:
		return "INIT_VALUE"
	case UDFNullPolicy:
		return "NULL_POLICY"
	case UDFOffsets:
		return "OFFSETS"
	}
	return "UDFAttribute(unknown)"
}

// UDFInput is the bundle assembled by the dispatcher for one host-UDF
// invocation. Only the fields matching the callable's RequiredData are
// populated; the rest stay zero. Values and Offsets are read-only views
// into the caller's data and must not be mutated or retained past the
// call.
type UDFInput struct {
	// Values is the full segmented input column (UDFInputValues).
	Values arrow.Array
	// OutputType is the requested result element type (UDFOutputType).
	OutputType arrow.DataType
	// Init is the caller's initial value, nil when absent (UDFInitValue).
	Init scalar.Scalar
	// NullHandling is the active null policy (UDFNullPolicy).
	NullHandling NullPolicy
	// Offsets delimits the segments (UDFOffsets).
	Offsets []int32
}

// HostUDF is a user-supplied reduction injected into the dispatcher
// without extending the closed aggregation registry. The callable is
// invoked once per reduction with read-only inputs, iterates segments
// internally, and must return a freshly allocated column with exactly
// one element per segment. It executes synchronously and must be free
// of side effects on shared state.
type HostUDF interface {
	// RequiredData lists the attributes the callable needs. An empty
	// slice requests everything.
	RequiredData() []UDFAttribute
	// Call computes the whole result column, allocating from mem.
	Call(ctx context.Context, mem memory.Allocator, in UDFInput) (arrow.Array, error)
}
