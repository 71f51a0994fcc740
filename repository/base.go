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
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/cemrehancavdar/advanced-alchemy/database"
	"github.com/cemrehancavdar/advanced-alchemy/types"
)

const defaultIDAttribute = "id"

// auditCreatedColumn is the creation timestamp column of audited models.
const auditCreatedColumn = "created_at"

type baseRepositoryImpl[T any] struct {
	session  *database.Session
	defaults callOptions
}

// NewRepository returns a generic repository bound to the given session.
// Options set repository-level defaults that individual calls may override.
func NewRepository[T any](session *database.Session, opts ...Option) Repository[T] {
	r := &baseRepositoryImpl[T]{session: session}
	for _, opt := range opts {
		opt(&r.defaults)
	}
	return r
}

func (r *baseRepositoryImpl[T]) Session() *database.Session { return r.session }

func (r *baseRepositoryImpl[T]) table() *schema.Table {
	return tableOf[T](r.session.Bun())
}

// resolve merges per-call options over the repository defaults, which in
// turn sit over the session configuration.
func (r *baseRepositoryImpl[T]) resolve(opts []Option) resolved {
	co := r.defaults
	for _, opt := range opts {
		opt(&co)
	}

	cfg := r.session.Config()
	res := resolved{
		autoCommit:  cfg.AutoCommit,
		autoExpunge: cfg.AutoExpunge,
		autoRefresh: cfg.AutoRefresh,
		idAttribute: defaultIDAttribute,
		chunkSize:   cfg.DeleteChunkSize,
		upsert:      true,
	}
	if co.autoCommit != nil {
		res.autoCommit = *co.autoCommit
	}
	if co.autoExpunge != nil {
		res.autoExpunge = *co.autoExpunge
	}
	if co.autoRefresh != nil {
		res.autoRefresh = *co.autoRefresh
	}
	if co.idAttribute != nil {
		res.idAttribute = *co.idAttribute
	}
	if co.chunkSize != nil && *co.chunkSize > 0 {
		res.chunkSize = *co.chunkSize
	}
	if co.hasStatement {
		res.statement = co.statement
	}
	if co.upsert != nil {
		res.upsert = *co.upsert
	}
	if res.chunkSize <= 0 {
		res.chunkSize = database.DefaultDeleteChunkSize
	}
	res.attributeNames = co.attributeNames
	res.matchFields = co.matchFields
	res.itemID = co.itemID
	res.hasItemID = co.hasItemID
	res.noMerge = co.noMerge
	res.forceBasic = co.forceBasic
	return res
}

func (r *baseRepositoryImpl[T]) idField(attr string) (*schema.Field, error) {
	field, ok := lookupField(r.table(), attr)
	if !ok {
		return nil, Errorf("model %s has no attribute %q to use as identifier", r.table().TypeName, attr)
	}
	return field, nil
}

func (r *baseRepositoryImpl[T]) columnsFor(attrs []string) ([]string, error) {
	table := r.table()
	columns := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		field, ok := lookupField(table, attr)
		if !ok {
			return nil, Errorf("unknown attribute %q for model %s", attr, table.TypeName)
		}
		columns = append(columns, field.Name)
	}
	return columns, nil
}

func fieldValue[T any](field *schema.Field, entity *T) (any, bool) {
	fv := field.Value(reflect.ValueOf(entity).Elem())
	return fv.Interface(), !fv.IsZero()
}

func (r *baseRepositoryImpl[T]) newSelect(idb bun.IDB, res resolved, model any) *bun.SelectQuery {
	q := idb.NewSelect().Model(model)
	if res.statement != nil {
		q = res.statement(q)
	}
	return q
}

func (r *baseRepositoryImpl[T]) applyFilters(q *bun.SelectQuery, filters []types.Filter, counting bool) (*bun.SelectQuery, error) {
	for _, f := range filters {
		switch f := f.(type) {
		case types.LimitOffset:
			if counting {
				continue
			}
			if f.Limit > 0 {
				q = q.Limit(f.Limit)
			}
			if f.Offset > 0 {
				q = q.Offset(f.Offset)
			}
		case types.OrderBy:
			if counting {
				continue
			}
			if f.Desc {
				q = q.OrderExpr("? DESC", bun.Ident(f.Field))
			} else {
				q = q.OrderExpr("? ASC", bun.Ident(f.Field))
			}
		case types.CollectionFilter:
			if len(f.Values) == 0 {
				// Empty collections match nothing.
				q = q.Where("1 = 0")
			} else {
				q = q.Where("? IN (?)", bun.Ident(f.Field), bun.In(f.Values))
			}
		case types.NotInCollectionFilter:
			if len(f.Values) > 0 {
				q = q.Where("? NOT IN (?)", bun.Ident(f.Field), bun.In(f.Values))
			}
		case types.BeforeAfter:
			if f.Before != nil {
				q = q.Where("? < ?", bun.Ident(f.Field), *f.Before)
			}
			if f.After != nil {
				q = q.Where("? > ?", bun.Ident(f.Field), *f.After)
			}
		case types.SearchFilter:
			pattern := "%" + f.Value + "%"
			if f.IgnoreCase {
				q = q.Where("LOWER(?) LIKE LOWER(?)", bun.Ident(f.Field), pattern)
			} else {
				q = q.Where("? LIKE ?", bun.Ident(f.Field), pattern)
			}
		default:
			return nil, Errorf("unsupported filter type %T", f)
		}
	}
	return q, nil
}

func (r *baseRepositoryImpl[T]) applyMatch(q *bun.SelectQuery, match map[string]any) (*bun.SelectQuery, error) {
	table := r.table()
	for attr, value := range match {
		field, ok := lookupField(table, attr)
		if !ok {
			return nil, Errorf("unknown attribute %q for model %s", attr, table.TypeName)
		}
		if value == nil {
			q = q.Where("? IS NULL", bun.Ident(field.Name))
		} else {
			q = q.Where("? = ?", bun.Ident(field.Name), value)
		}
	}
	return q, nil
}

// track records returned entities with the session, or detaches them when
// auto-expunge is in effect.
func (r *baseRepositoryImpl[T]) track(res resolved, entities ...*T) {
	for _, entity := range entities {
		if entity == nil {
			continue
		}
		if res.autoExpunge {
			r.session.Expunge(entity)
		} else {
			r.session.Attach(entity)
		}
	}
}

func (r *baseRepositoryImpl[T]) finishWrite(res resolved, entities ...*T) error {
	r.track(res, entities...)
	if res.autoCommit {
		return r.session.Commit()
	}
	return nil
}

// refresh reloads the entity so server-computed columns become visible.
// A no-op when the identifier is not yet populated.
func (r *baseRepositoryImpl[T]) refresh(ctx context.Context, idb bun.IDB, field *schema.Field, entity *T) error {
	id, ok := fieldValue(field, entity)
	if !ok {
		return nil
	}
	return idb.NewSelect().Model(entity).Where("? = ?", bun.Ident(field.Name), id).Scan(ctx)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filters []types.Filter, opts ...Option) (int, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}
	q := r.newSelect(idb, res, (*T)(nil))
	q, err = r.applyFilters(q, filters, true)
	if err != nil {
		return 0, err
	}
	return q.Count(ctx)
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, filters []types.Filter, opts ...Option) (bool, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return false, err
	}
	q := r.newSelect(idb, res, (*T)(nil))
	q, err = r.applyFilters(q, filters, true)
	if err != nil {
		return false, err
	}
	return q.Exists(ctx)
}

func (r *baseRepositoryImpl[T]) getByID(ctx context.Context, idb bun.IDB, res resolved, field *schema.Field, itemID any) (*T, error) {
	var entities []*T
	q := r.newSelect(idb, res, &entities).
		Where("? = ?", bun.Ident(field.Name), itemID).
		Limit(2)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return entities[0], nil
	default:
		return nil, ErrMultipleResults
	}
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, itemID any, opts ...Option) (*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	entity, err := r.getByID(ctx, idb, res, field, itemID)
	if err != nil {
		return nil, err
	}
	r.track(res, entity)
	return entity, nil
}

func (r *baseRepositoryImpl[T]) getOneOrNone(ctx context.Context, idb bun.IDB, res resolved, match map[string]any) (*T, error) {
	var entities []*T
	q := r.newSelect(idb, res, &entities).Limit(2)
	q, err := r.applyMatch(q, match)
	if err != nil {
		return nil, err
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return entities[0], nil
	default:
		return nil, ErrMultipleResults
	}
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, match map[string]any, opts ...Option) (*T, error) {
	entity, err := r.GetOneOrNone(ctx, match, opts...)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) GetOneOrNone(ctx context.Context, match map[string]any, opts ...Option) (*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := r.getOneOrNone(ctx, idb, res, match)
	if err != nil || entity == nil {
		return nil, err
	}
	r.track(res, entity)
	return entity, nil
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filters []types.Filter, opts ...Option) ([]*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	var entities []*T
	q := r.newSelect(idb, res, &entities)
	q, err = r.applyFilters(q, filters, false)
	if err != nil {
		return nil, err
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []*T{}
	}
	r.track(res, entities...)
	return entities, nil
}

func (r *baseRepositoryImpl[T]) ListAndCount(ctx context.Context, filters []types.Filter, opts ...Option) ([]*T, int, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, 0, err
	}

	if res.forceBasic {
		total, err := r.Count(ctx, filters, opts...)
		if err != nil {
			return nil, 0, err
		}
		entities, err := r.List(ctx, filters, opts...)
		if err != nil {
			return nil, 0, err
		}
		return entities, total, nil
	}

	var entities []*T
	q := r.newSelect(idb, res, &entities)
	q, err = r.applyFilters(q, filters, false)
	if err != nil {
		return nil, 0, err
	}
	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	if entities == nil {
		entities = []*T{}
	}
	r.track(res, entities...)
	return entities, total, nil
}

func (r *baseRepositoryImpl[T]) Add(ctx context.Context, entity *T, opts ...Option) (*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	if res.hasItemID {
		if _, err := setFieldValue(field, reflect.ValueOf(entity).Elem(), res.itemID); err != nil {
			return nil, err
		}
	}
	if _, err := idb.NewInsert().Model(entity).Exec(ctx); err != nil {
		return nil, err
	}
	if res.autoRefresh {
		if err := r.refresh(ctx, idb, field, entity); err != nil {
			return nil, err
		}
	}
	if err := r.finishWrite(res, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) AddMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error) {
	res := r.resolve(opts)
	if len(entities) == 0 {
		return []*T{}, nil
	}
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	if _, err := idb.NewInsert().Model(&entities).Exec(ctx); err != nil {
		return nil, err
	}
	if res.autoRefresh {
		for _, entity := range entities {
			if err := r.refresh(ctx, idb, field, entity); err != nil {
				return nil, err
			}
		}
	}
	if err := r.finishWrite(res, entities...); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) updateOne(ctx context.Context, idb bun.IDB, res resolved, field *schema.Field, entity *T) error {
	id, ok := fieldValue(field, entity)
	if !ok {
		return Errorf("cannot resolve the %q attribute required to update %s", res.idAttribute, r.table().TypeName)
	}
	q := idb.NewUpdate().Model(entity).Where("? = ?", bun.Ident(field.Name), id)
	if len(res.attributeNames) > 0 {
		columns, err := r.columnsFor(res.attributeNames)
		if err != nil {
			return err
		}
		q = q.Column(columns...)
	}
	sqlRes, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := sqlRes.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	if res.autoRefresh {
		return r.refresh(ctx, idb, field, entity)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T, opts ...Option) (*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	if res.hasItemID {
		if _, err := setFieldValue(field, reflect.ValueOf(entity).Elem(), res.itemID); err != nil {
			return nil, err
		}
	}
	if err := r.updateOne(ctx, idb, res, field, entity); err != nil {
		return nil, err
	}
	if err := r.finishWrite(res, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) UpdateMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error) {
	res := r.resolve(opts)
	if len(entities) == 0 {
		return []*T{}, nil
	}
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	for _, entity := range entities {
		if err := r.updateOne(ctx, idb, res, field, entity); err != nil {
			return nil, err
		}
	}
	if err := r.finishWrite(res, entities...); err != nil {
		return nil, err
	}
	return entities, nil
}

// updateColumns returns the columns a merge upsert rewrites on conflict:
// the restricted attribute set when given, otherwise every non-pk column
// except the audit creation timestamp, which keeps its original value.
func (r *baseRepositoryImpl[T]) updateColumns(res resolved) ([]string, error) {
	if len(res.attributeNames) > 0 {
		return r.columnsFor(res.attributeNames)
	}
	table := r.table()
	columns := make([]string, 0, len(table.DataFields))
	for _, field := range table.DataFields {
		if field.Name == auditCreatedColumn {
			continue
		}
		columns = append(columns, field.Name)
	}
	if len(columns) == 0 {
		for _, field := range table.DataFields {
			columns = append(columns, field.Name)
		}
	}
	return columns, nil
}

func (r *baseRepositoryImpl[T]) conflictColumns(res resolved) ([]string, error) {
	if len(res.matchFields) > 0 {
		return r.columnsFor(res.matchFields)
	}
	table := r.table()
	if len(table.PKs) == 0 {
		return nil, Errorf("model %s has no primary key to upsert on", table.TypeName)
	}
	columns := make([]string, 0, len(table.PKs))
	for _, field := range table.PKs {
		columns = append(columns, field.Name)
	}
	return columns, nil
}

// upsertRow falls back to insert-then-update when the dialect cannot merge
// in a single statement or the caller opted out of merging.
func (r *baseRepositoryImpl[T]) upsertRow(ctx context.Context, idb bun.IDB, res resolved, field *schema.Field, entity *T) error {
	_, err := idb.NewInsert().Model(entity).Exec(ctx)
	if err == nil {
		return nil
	}
	if !database.IsDuplicateKeyError(err) {
		return err
	}
	q := idb.NewUpdate().Model(entity)
	if id, ok := fieldValue(field, entity); ok {
		q = q.Where("? = ?", bun.Ident(field.Name), id)
	} else if len(res.matchFields) > 0 {
		table := r.table()
		for _, attr := range res.matchFields {
			mf, ok := lookupField(table, attr)
			if !ok {
				return Errorf("unknown attribute %q for model %s", attr, table.TypeName)
			}
			value, _ := fieldValue(mf, entity)
			q = q.Where("? = ?", bun.Ident(mf.Name), value)
		}
		q = q.OmitZero()
	} else {
		return Errorf("cannot resolve the conflicting row to update for model %s", r.table().TypeName)
	}
	_, err = q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertAll(ctx context.Context, idb bun.IDB, res resolved, field *schema.Field, entities []*T) error {
	db := r.session.Bun()
	merge := !res.noMerge &&
		(db.HasFeature(feature.InsertOnConflict) || db.HasFeature(feature.InsertOnDuplicateKey))

	if !merge {
		for _, entity := range entities {
			if err := r.upsertRow(ctx, idb, res, field, entity); err != nil {
				return err
			}
		}
		return nil
	}

	columns, err := r.updateColumns(res)
	if err != nil {
		return err
	}

	if db.HasFeature(feature.InsertOnConflict) {
		conflict, err := r.conflictColumns(res)
		if err != nil {
			return err
		}
		keys := make([]string, len(conflict))
		set := make([]string, len(columns))
		for i, col := range conflict {
			keys[i] = string(bun.Ident(col))
		}
		for i, col := range columns {
			set[i] = fmt.Sprintf("%s = EXCLUDED.%s", bun.Ident(col), bun.Ident(col))
		}
		_, err = idb.NewInsert().
			Model(&entities).
			On("CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE").
			Set(strings.Join(set, ", ")).
			Exec(ctx)
		return err
	}

	set := make([]string, len(columns))
	for i, col := range columns {
		set[i] = fmt.Sprintf("%s = VALUES(%s)", bun.Ident(col), bun.Ident(col))
	}
	_, err = idb.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(set, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, entity *T, opts ...Option) (*T, error) {
	entities, err := r.UpsertMany(ctx, []*T{entity}, opts...)
	if err != nil {
		return nil, err
	}
	return entities[0], nil
}

func (r *baseRepositoryImpl[T]) UpsertMany(ctx context.Context, entities []*T, opts ...Option) ([]*T, error) {
	res := r.resolve(opts)
	if len(entities) == 0 {
		return []*T{}, nil
	}
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	if res.hasItemID && len(entities) == 1 {
		if _, err := setFieldValue(field, reflect.ValueOf(entities[0]).Elem(), res.itemID); err != nil {
			return nil, err
		}
	}
	if err := r.upsertAll(ctx, idb, res, field, entities); err != nil {
		return nil, err
	}
	if res.autoRefresh {
		for _, entity := range entities {
			if err := r.refresh(ctx, idb, field, entity); err != nil {
				return nil, err
			}
		}
	}
	if err := r.finishWrite(res, entities...); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) GetOrUpsert(ctx context.Context, kwargs map[string]any, opts ...Option) (*T, bool, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, false, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, false, err
	}

	matchAttrs := res.matchFields
	if len(matchAttrs) == 0 {
		matchAttrs = make([]string, 0, len(kwargs))
		for attr := range kwargs {
			matchAttrs = append(matchAttrs, attr)
		}
	}
	// Match fields absent from kwargs are left out of the lookup.
	match := make(map[string]any, len(matchAttrs))
	for _, attr := range matchAttrs {
		if value, ok := kwargs[attr]; ok {
			match[attr] = value
		}
	}

	existing, err := r.getOneOrNone(ctx, idb, res, match)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		entity, err := ModelFromMap[T](r.session.Bun(), kwargs)
		if err != nil {
			return nil, false, err
		}
		if _, err := idb.NewInsert().Model(entity).Exec(ctx); err != nil {
			return nil, false, err
		}
		if res.autoRefresh {
			if err := r.refresh(ctx, idb, field, entity); err != nil {
				return nil, false, err
			}
		}
		if err := r.finishWrite(res, entity); err != nil {
			return nil, false, err
		}
		return entity, true, nil
	}

	if res.upsert {
		table := r.table()
		strct := reflect.ValueOf(existing).Elem()
		changed := false
		for attr, value := range kwargs {
			f, ok := lookupField(table, attr)
			if !ok {
				return nil, false, Errorf("unknown attribute %q for model %s", attr, table.TypeName)
			}
			fieldChanged, err := setFieldValue(f, strct, value)
			if err != nil {
				return nil, false, err
			}
			changed = changed || fieldChanged
		}
		if changed {
			if err := r.updateOne(ctx, idb, res, field, existing); err != nil {
				return nil, false, err
			}
		}
	}

	if err := r.finishWrite(res, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, itemID any, opts ...Option) (*T, error) {
	res := r.resolve(opts)
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}
	entity, err := r.getByID(ctx, idb, res, field, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := idb.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(field.Name), itemID).
		Exec(ctx); err != nil {
		return nil, err
	}
	if err := r.finishWrite(res, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) DeleteMany(ctx context.Context, itemIDs []any, opts ...Option) ([]*T, error) {
	res := r.resolve(opts)
	if len(itemIDs) == 0 {
		return []*T{}, nil
	}
	idb, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	field, err := r.idField(res.idAttribute)
	if err != nil {
		return nil, err
	}

	deleted := make([]*T, 0, len(itemIDs))
	for start := 0; start < len(itemIDs); start += res.chunkSize {
		end := start + res.chunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		chunk := itemIDs[start:end]

		var batch []*T
		q := r.newSelect(idb, res, &batch).
			Where("? IN (?)", bun.Ident(field.Name), bun.In(chunk))
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}
		if _, err := idb.NewDelete().
			Model((*T)(nil)).
			Where("? IN (?)", bun.Ident(field.Name), bun.In(chunk)).
			Exec(ctx); err != nil {
			return nil, err
		}
		deleted = append(deleted, batch...)
	}

	if err := r.finishWrite(res, deleted...); err != nil {
		return nil, err
	}
	return deleted, nil
}
