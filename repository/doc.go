// Package repository provides a generic, session-bound repository built on
// Bun: CRUD and query operations over one entity type, filter types for
// pagination and predicates, merge upserts with per-dialect fallbacks, and
// chunked bulk deletes, all scoped to a unit-of-work session.
package repository
