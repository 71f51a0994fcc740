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

package repository

import (
	"context"

	"github.com/cemrehancavdar/advanced-alchemy/database"
	"github.com/cemrehancavdar/advanced-alchemy/types"
)

// ReadRepository defines the query operations over a single entity type.
type ReadRepository[T any] interface {
	// Session returns the unit-of-work session the repository operates on.
	Session() *database.Session

	// Count returns the number of rows matching the filters.
	Count(ctx context.Context, filters []types.Filter, opts ...Option) (int, error)

	// Exists reports whether at least one row matches the filters.
	Exists(ctx context.Context, filters []types.Filter, opts ...Option) (bool, error)

	// Get returns the single row identified by itemID.
	Get(ctx context.Context, itemID any, opts ...Option) (*T, error)

	// GetOne returns exactly one row matching the field/value pairs.
	GetOne(ctx context.Context, match map[string]any, opts ...Option) (*T, error)

	// GetOneOrNone returns at most one matching row, or nil when none match.
	GetOneOrNone(ctx context.Context, match map[string]any, opts ...Option) (*T, error)

	// List returns all rows matching the filters.
	List(ctx context.Context, filters []types.Filter, opts ...Option) ([]*T, error)

	// ListAndCount returns matching rows together with the total count
	// ignoring pagination.
	ListAndCount(ctx context.Context, filters []types.Filter, opts ...Option) ([]*T, int, error)
}

// WriteRepository defines the mutation operations over a single entity type.
type WriteRepository[T any] interface {
	// Add inserts the entity and returns it with generated values populated.
	Add(ctx context.Context, entity *T, opts ...Option) (*T, error)

	// AddMany inserts the entities in one statement.
	AddMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error)

	// Update applies the entity's non-id attributes to the row identified
	// by its id attribute.
	Update(ctx context.Context, entity *T, opts ...Option) (*T, error)

	// UpdateMany updates each entity by its id attribute.
	UpdateMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error)

	// Upsert inserts the entity or updates the existing conflicting row.
	Upsert(ctx context.Context, entity *T, opts ...Option) (*T, error)

	// UpsertMany inserts or updates the entities, in a single statement
	// where the dialect supports it.
	UpsertMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error)

	// GetOrUpsert returns the row matching the given attributes, creating
	// it when none exists and, unless disabled, updating an existing row
	// whose attributes differ. The boolean reports whether a row was
	// created.
	GetOrUpsert(ctx context.Context, kwargs map[string]any, opts ...Option) (*T, bool, error)

	// Delete removes the row identified by itemID and returns it.
	Delete(ctx context.Context, itemID any, opts ...Option) (*T, error)

	// DeleteMany removes the rows identified by itemIDs in chunks and
	// returns the deleted entities.
	DeleteMany(ctx context.Context, itemIDs []any, opts ...Option) ([]*T, error)
}

// Repository combines read and write operations over one entity type bound
// to one session.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
}
