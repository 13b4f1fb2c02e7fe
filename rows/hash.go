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
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/invisiblepancake/cudf"
)

const (
	// rowHashSeed is the initial accumulator for every row hash.
	rowHashSeed uint64 = 0x880355f21e6d1965
	// nullHash is the fixed contribution of a null element; no
	// representable value hashes to it by construction of valueHash.
	nullHash uint64 = 0x7ef02ad1fe439f21
	// hashAllChunk is the number of rows hashed per parallel task.
	hashAllChunk = 2048
)

// Hasher computes a 64-bit hash per row over a record's key columns,
// consistent with EqualityComparator: rows that compare equal under a
// given NaN policy hash identically under the same policy. Null
// equality needs no hash-side handling since every null contributes the
// same sentinel. The hash is deterministic for identical inputs but not
// stable across versions of this package.
type Hasher struct {
	cols      []arrow.Array
	numRows   int
	nansEqual bool
}

// NewHasher validates the key columns of rec and returns a hasher bound
// to the given NaN policy. It fails with ErrOutOfRange for a key index
// outside the schema and ErrTypeMismatch for non-hashable key types
// (the hashable set is exactly the comparable set).
func NewHasher(rec arrow.Record, keyIndices []int, nanEq cudf.NanEquality) (*Hasher, error) {
	cols, err := keyColumns(rec, keyIndices)
	if err != nil {
		return nil, err
	}
	for i, k := range keyIndices {
		if err := checkComparable(k, cols[i].DataType()); err != nil {
			return nil, err
		}
	}
	return &Hasher{
		cols:      cols,
		numRows:   int(rec.NumRows()),
		nansEqual: nanEq == cudf.NanAllEqual,
	}, nil
}

// HashRow hashes one row. Safe for concurrent use.
func (h *Hasher) HashRow(row int) uint64 {
	acc := rowHashSeed
	for _, col := range h.cols {
		acc = hashCombine(acc, valueHash(col, row, h.nansEqual))
	}
	return acc
}

// HashAll hashes every row of the record, fanning the work out over
// fixed-size row chunks. Each chunk is independent, so the result does
// not depend on scheduling order.
func (h *Hasher) HashAll(ctx context.Context) ([]uint64, error) {
	out := make([]uint64, h.numRows)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < h.numRows; start += hashAllChunk {
		start, end := start, min(start+hashAllChunk, h.numRows)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = h.HashRow(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// hashCombine folds one element hash into the accumulator. The mix is
// order sensitive, which is what makes list and struct hashing respect
// element/field order.
func hashCombine(seed, h uint64) uint64 {
	return seed ^ (h + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}

func hashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxh3.Hash(b[:])
}

// floatHash hashes a floating-point value such that values comparing
// equal hash equal: +0.0 and -0.0 collapse, and when NaNs compare equal
// all NaNs of a sign class collapse to one canonical bit pattern.
func floatHash(v float64, nansEqual bool) uint64 {
	if v == 0 {
		return hashUint64(0)
	}
	bits := math.Float64bits(v)
	if nansEqual && math.IsNaN(v) {
		const canonicalNaN = uint64(0x7ff8000000000000)
		const signMask = uint64(1) << 63
		bits = canonicalNaN | (bits & signMask)
	}
	return hashUint64(bits)
}

func valueHash(arr arrow.Array, row int, nansEqual bool) uint64 {
	if arr.IsNull(row) {
		return nullHash
	}

	switch a := arr.(type) {
	case *array.Boolean:
		if a.Value(row) {
			return hashUint64(1)
		}
		return hashUint64(0)
	case *array.Int8:
		return hashUint64(uint64(a.Value(row)))
	case *array.Int16:
		return hashUint64(uint64(a.Value(row)))
	case *array.Int32:
		return hashUint64(uint64(a.Value(row)))
	case *array.Int64:
		return hashUint64(uint64(a.Value(row)))
	case *array.Uint8:
		return hashUint64(uint64(a.Value(row)))
	case *array.Uint16:
		return hashUint64(uint64(a.Value(row)))
	case *array.Uint32:
		return hashUint64(uint64(a.Value(row)))
	case *array.Uint64:
		return hashUint64(a.Value(row))
	case *array.Float16:
		return floatHash(float64(a.Value(row).Float32()), nansEqual)
	case *array.Float32:
		return floatHash(float64(a.Value(row)), nansEqual)
	case *array.Float64:
		return floatHash(a.Value(row), nansEqual)
	case *array.String:
		return xxh3.HashString(a.Value(row))
	case *array.LargeString:
		return xxh3.HashString(a.Value(row))
	case *array.Binary:
		return xxh3.Hash(a.Value(row))
	case *array.LargeBinary:
		return xxh3.Hash(a.Value(row))
	case *array.Decimal128:
		v := a.Value(row)
		return hashCombine(hashUint64(uint64(v.HighBits())), hashUint64(v.LowBits()))
	case *array.Date32:
		return hashUint64(uint64(a.Value(row)))
	case *array.Date64:
		return hashUint64(uint64(a.Value(row)))
	case *array.Timestamp:
		return hashUint64(uint64(a.Value(row)))
	case *array.Time32:
		return hashUint64(uint64(a.Value(row)))
	case *array.Time64:
		return hashUint64(uint64(a.Value(row)))
	case *array.Duration:
		return hashUint64(uint64(a.Value(row)))
	case *array.List:
		start, end := a.ValueOffsets(row)
		return rangeHash(a.ListValues(), start, end, nansEqual)
	case *array.LargeList:
		start, end := a.ValueOffsets(row)
		return rangeHash(a.ListValues(), start, end, nansEqual)
	case *array.FixedSizeList:
		n := int64(a.DataType().(*arrow.FixedSizeListType).Len())
		start := (int64(a.Data().Offset()) + int64(row)) * n
		return rangeHash(a.ListValues(), start, start+n, nansEqual)
	case *array.Struct:
		acc := hashUint64(uint64(a.NumField()))
		for i := 0; i < a.NumField(); i++ {
			acc = hashCombine(acc, valueHash(a.Field(i), row, nansEqual))
		}
		return acc
	case *array.Dictionary:
		return valueHash(a.Dictionary(), a.GetValueIndex(row), nansEqual)
	}
	panic(fmt.Sprintf("rows: unhandled array type %T", arr))
}

// rangeHash hashes a child range, seeding with the length so that an
// empty list hashes to a fixed value distinct from the null sentinel.
func rangeHash(values arrow.Array, start, end int64, nansEqual bool) uint64 {
	acc := hashUint64(uint64(end - start))
	for k := start; k < end; k++ {
		acc = hashCombine(acc, valueHash(values, int(k), nansEqual))
	}
	return acc
}
