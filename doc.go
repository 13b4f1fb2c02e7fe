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

// Package cudf provides relational-style operations over Apache Arrow
// columnar data: row-level equality, ordering and hashing that honor
// SQL-like null/NaN semantics through arbitrarily nested types, a
// distinct-row (deduplication) engine, and segmented reductions with a
// closed aggregation registry plus a host-callable escape hatch.
//
// Columns are arrow.Array values and tables are arrow.Record values;
// inputs are always treated as read-only views and every operation
// allocates its results from a caller-supplied memory.Allocator.
//
// The root package holds the vocabulary shared by the subpackages:
// comparison policies, the aggregation descriptors, the host-callable
// aggregation interface, and the error kinds every operation reports.
package cudf
