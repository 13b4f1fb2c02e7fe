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

// NullEquality controls whether two null elements compare equal.
// The chosen value applies uniformly to every key column and at every
// nesting depth of a single operation.
type NullEquality int8

const (
	// NullEqual treats two nulls as equal. A null never equals a
	// non-null value regardless of this setting.
	NullEqual NullEquality = iota
	// NullUnequal treats every null as distinct, even from itself.
	NullUnequal
)

func (n NullEquality) String() string {
	switch n {
	case NullEqual:
		return "EQUAL"
	case NullUnequal:
		return "UNEQUAL"
	}
	return "NullEquality(unknown)"
}

// NanEquality controls whether floating-point NaN values compare equal.
type NanEquality int8

const (
	// NanAllEqual treats any two NaNs of the same sign class as equal,
	// regardless of payload bits.
	NanAllEqual NanEquality = iota
	// NanUnequal treats every NaN as distinct, even from itself.
	NanUnequal
)

func (n NanEquality) String() string {
	switch n {
	case NanAllEqual:
		return "ALL_EQUAL"
	case NanUnequal:
		return "UNEQUAL"
	}
	return "NanEquality(unknown)"
}

// KeepOption selects which representative row(s) of a duplicate
// equivalence class survive deduplication.
type KeepOption int8

const (
	// KeepAny keeps an unspecified member of each class. It permits the
	// fastest reduction; callers needing a deterministic representative
	// must use KeepFirst or KeepLast.
	KeepAny KeepOption = iota
	// KeepFirst keeps the lowest row index of each class.
	KeepFirst
	// KeepLast keeps the highest row index of each class.
	KeepLast
	// KeepNone drops every class that has more than one member,
	// retaining strictly unique rows only.
	KeepNone
)

func (k KeepOption) String() string {
	switch k {
	case KeepAny:
		return "KEEP_ANY"
	case KeepFirst:
		return "KEEP_FIRST"
	case KeepLast:
		return "KEEP_LAST"
	case KeepNone:
		return "KEEP_NONE"
	}
	return "KeepOption(unknown)"
}

// NullPolicy controls how null elements participate in a reduction.
type NullPolicy int8

const (
	// ExcludeNulls skips null elements; a segment left empty after
	// exclusion yields a null output unless an initial value was given.
	ExcludeNulls NullPolicy = iota
	// IncludeNulls poisons a segment's result to null if the segment
	// contains any null element.
	IncludeNulls
)

func (p NullPolicy) String() string {
	switch p {
	case ExcludeNulls:
		return "EXCLUDE"
	case IncludeNulls:
		return "INCLUDE"
	}
	return "NullPolicy(unknown)"
}

// NullOrder controls where nulls sort relative to non-null values when
// using the ordering comparator.
type NullOrder int8

const (
	NullsBefore NullOrder = iota
	NullsAfter
)

func (o NullOrder) String() string {
	switch o {
	case NullsBefore:
		return "BEFORE"
	case NullsAfter:
		return "AFTER"
	}
	return "NullOrder(unknown)"
}
