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

import "github.com/uptrace/bun"

// StatementFn customizes the select statement a read is built from, e.g. to
// add relations or extra predicates.
type StatementFn func(*bun.SelectQuery) *bun.SelectQuery

// Option overrides a repository default for one call (or, passed to
// NewRepository, sets the repository-level default). An omitted option means
// "use the default", which is distinct from explicitly passing false.
type Option func(*callOptions)

type callOptions struct {
	autoCommit     *bool
	autoExpunge    *bool
	autoRefresh    *bool
	idAttribute    *string
	chunkSize      *int
	statement      StatementFn
	hasStatement   bool
	attributeNames []string
	matchFields    []string
	itemID         any
	hasItemID      bool
	upsert         *bool
	noMerge        bool
	forceBasic     bool
}

// WithAutoCommit overrides whether the session is committed immediately
// after the operation.
func WithAutoCommit(v bool) Option {
	return func(o *callOptions) { o.autoCommit = &v }
}

// WithAutoExpunge overrides whether returned entities are detached from the
// session.
func WithAutoExpunge(v bool) Option {
	return func(o *callOptions) { o.autoExpunge = &v }
}

// WithAutoRefresh overrides whether entities are reloaded after writes so
// server-computed columns become visible.
func WithAutoRefresh(v bool) Option {
	return func(o *callOptions) { o.autoRefresh = &v }
}

// WithIDAttribute selects the unique identifier attribute used for fetching
// and mutation. Accepts the column name or the Go field name; defaults to
// "id".
func WithIDAttribute(attr string) Option {
	return func(o *callOptions) { o.idAttribute = &attr }
}

// WithChunkSize bounds how many identifiers a single bulk-delete statement
// carries.
func WithChunkSize(n int) Option {
	return func(o *callOptions) { o.chunkSize = &n }
}

// WithStatement customizes the underlying select query.
func WithStatement(fn StatementFn) Option {
	return func(o *callOptions) { o.statement = fn; o.hasStatement = true }
}

// WithAttributeNames restricts which attributes an update writes.
func WithAttributeNames(names ...string) Option {
	return func(o *callOptions) { o.attributeNames = names }
}

// WithMatchFields sets the attributes used to match an existing row in
// GetOrUpsert. When absent, all given fields are matched.
func WithMatchFields(fields ...string) Option {
	return func(o *callOptions) { o.matchFields = fields }
}

// WithItemID supplies an explicit identifier, overwriting the identifier
// attribute on the entity before the operation is issued.
func WithItemID(id any) Option {
	return func(o *callOptions) { o.itemID = id; o.hasItemID = true }
}

// WithUpsert controls whether GetOrUpsert updates an existing row whose
// fields differ. Defaults to true.
func WithUpsert(v bool) Option {
	return func(o *callOptions) { o.upsert = &v }
}

// WithNoMerge disables the merge-statement path of UpsertMany in favor of
// per-row upserts, trading throughput for store compatibility.
func WithNoMerge() Option {
	return func(o *callOptions) { o.noMerge = true }
}

// WithForceBasicQueryMode makes ListAndCount issue two sequential queries
// instead of the engine-combined form.
func WithForceBasicQueryMode() Option {
	return func(o *callOptions) { o.forceBasic = true }
}

// resolved carries the options for one call after merging per-call
// overrides against the repository defaults.
type resolved struct {
	autoCommit     bool
	autoExpunge    bool
	autoRefresh    bool
	idAttribute    string
	chunkSize      int
	statement      StatementFn
	attributeNames []string
	matchFields    []string
	itemID         any
	hasItemID      bool
	upsert         bool
	noMerge        bool
	forceBasic     bool
}
