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

import "errors"

var (
	// ErrTypeMismatch is the base error for operands whose types are not
	// identical or not comparable/reducible.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange is the base error for column or row indices that
	// exceed the bounds of their table or column.
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidArgument is the base error for malformed configuration,
	// such as empty segment offsets or an initial value supplied for an
	// aggregation kind that does not accept one.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedAggregation is the base error for aggregation kinds
	// with no implementation for the requested element type or mode.
	ErrUnsupportedAggregation = errors.New("unsupported aggregation")
	// ErrInvalidResult is the base error for host-callable aggregations
	// returning a result of the wrong shape or type.
	ErrInvalidResult = errors.New("invalid result")
)
