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

// OffsetPagination holds one page of items along with the total number of
// rows ignoring the page window.
type OffsetPagination[T any] struct {
	Items  []*T `json:"items"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
	Total  int  `json:"total"`
}

// NewOffsetPagination packages a page of items with its window and total.
func NewOffsetPagination[T any](items []*T, limit, offset, total int) *OffsetPagination[T] {
	if items == nil {
		items = make([]*T, 0)
	}
	return &OffsetPagination[T]{Items: items, Limit: limit, Offset: offset, Total: total}
}
