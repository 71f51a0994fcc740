/*
 * Copyright 2026 cemrehancavdar.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "time"

// Filter is a declarative query criterion. Filters compose by conjunction
// and are interpreted by the repository; a filter type the repository does
// not recognize is an error, never silently dropped.
//
// The set of filters is closed: only the types in this package satisfy the
// interface in a way the repository understands.
type Filter interface {
	filter()
}

// PaginationFilter marks filters that only constrain the page window.
// Count queries skip them so totals reflect the whole collection.
type PaginationFilter interface {
	Filter
	pagination()
}

// LimitOffset restricts a query to a page of rows.
type LimitOffset struct {
	Limit  int
	Offset int
}

func (LimitOffset) filter()     {}
func (LimitOffset) pagination() {}

// NewLimitOffset creates a pagination filter for the given page window.
func NewLimitOffset(limit, offset int) LimitOffset {
	return LimitOffset{Limit: limit, Offset: offset}
}

// OrderBy sorts results by a single column.
type OrderBy struct {
	Field string
	Desc  bool
}

func (OrderBy) filter() {}

// CollectionFilter restricts a column to a set of values (IN).
type CollectionFilter struct {
	Field  string
	Values []any
}

func (CollectionFilter) filter() {}

// NotInCollectionFilter excludes rows whose column matches any value (NOT IN).
type NotInCollectionFilter struct {
	Field  string
	Values []any
}

func (NotInCollectionFilter) filter() {}

// BeforeAfter bounds a temporal column with strict comparisons. Either bound
// may be nil.
type BeforeAfter struct {
	Field  string
	Before *time.Time
	After  *time.Time
}

func (BeforeAfter) filter() {}

// SearchFilter matches a string column with a substring search.
type SearchFilter struct {
	Field      string
	Value      string
	IgnoreCase bool
}

func (SearchFilter) filter() {}
