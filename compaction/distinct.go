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

// Package compaction removes rows from tables: its distinct engine
// partitions rows into key-equivalence classes by hashing then
// comparator-verified bucketing, and keeps one (or no) representative
// per class according to a keep policy.
package compaction

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/invisiblepancake/cudf"
	"github.com/invisiblepancake/cudf/gather"
	"github.com/invisiblepancake/cudf/rows"
)

// rowClass tracks one key-equivalence class while scanning rows in
// ascending index order, so first/last/count fall out of the scan.
type rowClass struct {
	first, last int32
	count       int32
}

// DistinctIndices computes the gather map of surviving rows for a
// distinct operation: one row index per key-equivalence class under
// keep (no index at all for duplicated classes under KeepNone). The map
// is ordered by each class's first occurrence; callers wanting a
// particular row order must sort.
//
// An empty keyIndices yields an empty map: with no keys, nothing is
// distinct. Key indices are validated against the schema even when the
// table has no rows, failing with ErrOutOfRange; non-comparable or
// mismatched key types fail with ErrTypeMismatch.
func DistinctIndices(ctx context.Context, rec arrow.Record, keyIndices []int,
	keep cudf.KeepOption, nullEq cudf.NullEquality, nanEq cudf.NanEquality) ([]int32, error) {
	switch keep {
	case cudf.KeepAny, cudf.KeepFirst, cudf.KeepLast, cudf.KeepNone:
	default:
		return nil, fmt.Errorf("%w: unknown keep option %d", cudf.ErrInvalidArgument, keep)
	}
	// No keys: no row is distinct. Deliberate policy, not a no-op.
	if len(keyIndices) == 0 {
		return []int32{}, nil
	}

	hasher, err := rows.NewHasher(rec, keyIndices, nanEq)
	if err != nil {
		return nil, err
	}
	eq, err := rows.NewEqualityComparator(rec, rec, keyIndices, nullEq, nanEq)
	if err != nil {
		return nil, err
	}

	numRows := int(rec.NumRows())
	if numRows == 0 {
		return []int32{}, nil
	}

	hashes, err := hasher.HashAll(ctx)
	if err != nil {
		return nil, err
	}

	// Bucket rows by hash; rows that hash together but compare unequal
	// stay in distinct classes.
	classes := make([]rowClass, 0, numRows/2+1)
	buckets := make(map[uint64][]int32, numRows)
	for i := 0; i < numRows; i++ {
		ids := buckets[hashes[i]]
		matched := false
		for _, id := range ids {
			c := &classes[id]
			if eq.RowsEqual(int(c.first), i) {
				c.last = int32(i)
				c.count++
				matched = true
				break
			}
		}
		if !matched {
			classes = append(classes, rowClass{first: int32(i), last: int32(i), count: 1})
			buckets[hashes[i]] = append(ids, int32(len(classes)-1))
		}
	}

	out := make([]int32, 0, len(classes))
	for _, c := range classes {
		switch keep {
		case cudf.KeepAny, cudf.KeepFirst:
			// KeepAny promises nothing about the representative; the
			// sequential scan happens to surface the first occurrence.
			out = append(out, c.first)
		case cudf.KeepLast:
			out = append(out, c.last)
		case cudf.KeepNone:
			if c.count == 1 {
				out = append(out, c.first)
			}
		}
	}
	return out, nil
}

// Distinct returns a new table holding one surviving row per
// key-equivalence class of rec, with all non-key columns carried along.
// The input is read-only; the result owns freshly allocated storage.
// Row order of the result is unspecified unless the caller sorts it.
func Distinct(ctx context.Context, mem memory.Allocator, rec arrow.Record, keyIndices []int,
	keep cudf.KeepOption, nullEq cudf.NullEquality, nanEq cudf.NanEquality) (arrow.Record, error) {
	indices, err := DistinctIndices(ctx, rec, keyIndices, keep, nullEq, nanEq)
	if err != nil {
		return nil, err
	}
	return gather.Record(mem, rec, indices)
}
