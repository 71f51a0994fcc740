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

package alchemy

import (
	"context"

	"github.com/cemrehancavdar/advanced-alchemy/database"
	"github.com/cemrehancavdar/advanced-alchemy/repository"
	"github.com/cemrehancavdar/advanced-alchemy/types"
)

// Service wraps a repository with a business-facing surface: every write
// accepts loose input (an entity, an entity value, or a string-keyed map)
// and is normalized through ToModel before reaching the repository.
type Service[T any] interface {
	// Repository returns the underlying repository.
	Repository() repository.Repository[T]

	// Session returns the unit-of-work session the service operates on.
	Session() *database.Session

	// ToModel normalizes data into an entity. Accepted shapes are *T, T,
	// and map[string]any keyed by column or Go field name.
	ToModel(data any) (*T, error)

	// Count returns the number of rows matching the filters.
	Count(ctx context.Context, filters []types.Filter, opts ...repository.Option) (int, error)

	// Exists reports whether at least one row matches the filters.
	Exists(ctx context.Context, filters []types.Filter, opts ...repository.Option) (bool, error)

	// Get returns the single entity identified by itemID.
	Get(ctx context.Context, itemID any, opts ...repository.Option) (*T, error)

	// GetOne returns exactly one entity matching the field/value pairs.
	GetOne(ctx context.Context, match map[string]any, opts ...repository.Option) (*T, error)

	// GetOneOrNone returns at most one matching entity, or nil.
	GetOneOrNone(ctx context.Context, match map[string]any, opts ...repository.Option) (*T, error)

	// List returns all entities matching the filters.
	List(ctx context.Context, filters []types.Filter, opts ...repository.Option) ([]*T, error)

	// ListAndCount returns matching entities with the total count ignoring
	// pagination.
	ListAndCount(ctx context.Context, filters []types.Filter, opts ...repository.Option) ([]*T, int, error)

	// Paginate returns one page of entities together with pagination
	// metadata derived from the filters.
	Paginate(ctx context.Context, filters []types.Filter, opts ...repository.Option) (*types.OffsetPagination[T], error)

	// Create inserts a new entity built from data.
	Create(ctx context.Context, data any, opts ...repository.Option) (*T, error)

	// CreateMany inserts entities built from each element of data.
	CreateMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error)

	// Update applies data to the row identified by its id attribute.
	Update(ctx context.Context, data any, opts ...repository.Option) (*T, error)

	// UpdateMany updates each entity built from data by its id attribute.
	UpdateMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error)

	// Upsert inserts or updates the entity built from data.
	Upsert(ctx context.Context, data any, opts ...repository.Option) (*T, error)

	// UpsertMany inserts or updates the entities built from data.
	UpsertMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error)

	// GetOrUpsert returns the entity matching kwargs, creating it when
	// none exists. Kwargs values are normalized through ToModel before the
	// lookup. The boolean reports whether a row was created.
	GetOrUpsert(ctx context.Context, kwargs map[string]any, opts ...repository.Option) (*T, bool, error)

	// Delete removes the row identified by itemID and returns it.
	Delete(ctx context.Context, itemID any, opts ...repository.Option) (*T, error)

	// DeleteMany removes the rows identified by itemIDs and returns them.
	DeleteMany(ctx context.Context, itemIDs []any, opts ...repository.Option) ([]*T, error)
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
}

// NewService returns a Service bound to the given session. Options set
// repository-level defaults.
func NewService[T any](session *database.Session, opts ...repository.Option) Service[T] {
	return &baseServiceImpl[T]{repo: repository.NewRepository[T](session, opts...)}
}

// NewServiceWithRepository returns a Service over an existing repository.
func NewServiceWithRepository[T any](repo repository.Repository[T]) Service[T] {
	return &baseServiceImpl[T]{repo: repo}
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] { return s.repo }

func (s *baseServiceImpl[T]) Session() *database.Session { return s.repo.Session() }

func (s *baseServiceImpl[T]) ToModel(data any) (*T, error) {
	switch v := data.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	case map[string]any:
		return repository.ModelFromMap[T](s.Session().Bun(), v)
	default:
		return nil, repository.Errorf("cannot build a model from %T", data)
	}
}

func (s *baseServiceImpl[T]) toModels(data []any) ([]*T, error) {
	entities := make([]*T, 0, len(data))
	for _, item := range data {
		entity, err := s.ToModel(item)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, filters []types.Filter, opts ...repository.Option) (int, error) {
	return s.repo.Count(ctx, filters, opts...)
}

func (s *baseServiceImpl[T]) Exists(ctx context.Context, filters []types.Filter, opts ...repository.Option) (bool, error) {
	return s.repo.Exists(ctx, filters, opts...)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, itemID any, opts ...repository.Option) (*T, error) {
	return s.repo.Get(ctx, itemID, opts...)
}

func (s *baseServiceImpl[T]) GetOne(ctx context.Context, match map[string]any, opts ...repository.Option) (*T, error) {
	return s.repo.GetOne(ctx, match, opts...)
}

func (s *baseServiceImpl[T]) GetOneOrNone(ctx context.Context, match map[string]any, opts ...repository.Option) (*T, error) {
	return s.repo.GetOneOrNone(ctx, match, opts...)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filters []types.Filter, opts ...repository.Option) ([]*T, error) {
	return s.repo.List(ctx, filters, opts...)
}

func (s *baseServiceImpl[T]) ListAndCount(ctx context.Context, filters []types.Filter, opts ...repository.Option) ([]*T, int, error) {
	return s.repo.ListAndCount(ctx, filters, opts...)
}

func (s *baseServiceImpl[T]) Paginate(ctx context.Context, filters []types.Filter, opts ...repository.Option) (*types.OffsetPagination[T], error) {
	entities, total, err := s.repo.ListAndCount(ctx, filters, opts...)
	if err != nil {
		return nil, err
	}
	window, ok := FindFilter[types.LimitOffset](filters...)
	if !ok {
		window = types.LimitOffset{Limit: len(entities)}
	}
	return types.NewOffsetPagination(entities, window.Limit, window.Offset, total), nil
}

func (s *baseServiceImpl[T]) Create(ctx context.Context, data any, opts ...repository.Option) (*T, error) {
	entity, err := s.ToModel(data)
	if err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, entity, opts...)
}

func (s *baseServiceImpl[T]) CreateMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error) {
	entities, err := s.toModels(data)
	if err != nil {
		return nil, err
	}
	return s.repo.AddMany(ctx, entities, opts...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, data any, opts ...repository.Option) (*T, error) {
	entity, err := s.ToModel(data)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, entity, opts...)
}

func (s *baseServiceImpl[T]) UpdateMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error) {
	entities, err := s.toModels(data)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateMany(ctx, entities, opts...)
}

func (s *baseServiceImpl[T]) Upsert(ctx context.Context, data any, opts ...repository.Option) (*T, error) {
	entity, err := s.ToModel(data)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, entity, opts...)
}

func (s *baseServiceImpl[T]) UpsertMany(ctx context.Context, data []any, opts ...repository.Option) ([]*T, error) {
	entities, err := s.toModels(data)
	if err != nil {
		return nil, err
	}
	return s.repo.UpsertMany(ctx, entities, opts...)
}

// GetOrUpsert funnels kwargs through ToModel so that the lookup and the
// write both see typed, converted attribute values.
func (s *baseServiceImpl[T]) GetOrUpsert(ctx context.Context, kwargs map[string]any, opts ...repository.Option) (*T, bool, error) {
	if len(kwargs) == 0 {
		return s.repo.GetOrUpsert(ctx, kwargs, opts...)
	}
	entity, err := s.ToModel(kwargs)
	if err != nil {
		return nil, false, err
	}
	attrs := make([]string, 0, len(kwargs))
	for attr := range kwargs {
		attrs = append(attrs, attr)
	}
	normalized, err := repository.ModelToMap(s.Session().Bun(), entity, false, attrs...)
	if err != nil {
		return nil, false, err
	}
	// Explicit nils stay nil so the lookup still matches NULL.
	for attr, value := range kwargs {
		if value == nil {
			normalized[attr] = nil
		}
	}
	return s.repo.GetOrUpsert(ctx, normalized, opts...)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, itemID any, opts ...repository.Option) (*T, error) {
	return s.repo.Delete(ctx, itemID, opts...)
}

func (s *baseServiceImpl[T]) DeleteMany(ctx context.Context, itemIDs []any, opts ...repository.Option) ([]*T, error) {
	return s.repo.DeleteMany(ctx, itemIDs, opts...)
}

// FindFilter returns the first filter of the requested concrete type.
func FindFilter[F types.Filter](filters ...types.Filter) (F, bool) {
	for _, f := range filters {
		if match, ok := f.(F); ok {
			return match, true
		}
	}
	var zero F
	return zero, false
}
