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

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Session is a unit-of-work: a transactional scope over one engine
// connection. The underlying transaction begins lazily on first use and is
// resolved with Commit or Rollback; Close discards any open transaction and
// releases the session. A session has exactly one logical owner at a time
// and is not safe for concurrent use.
type Session struct {
	db       *bun.DB
	cfg      SessionConfig
	tx       *bun.Tx
	closed   bool
	attached map[any]struct{}
}

// NewSession creates a session over the given Bun database using the
// provided behavioral defaults.
func NewSession(db *bun.DB, cfg SessionConfig) *Session {
	return &Session{
		db:       db,
		cfg:      cfg.withDefaults(),
		attached: make(map[any]struct{}),
	}
}

// Config returns the behavioral defaults this session was built with.
func (s *Session) Config() SessionConfig { return s.cfg }

// Bun exposes the underlying database for schema metadata and dialect
// feature checks. Queries belonging to the unit-of-work must go through DB.
func (s *Session) Bun() *bun.DB { return s.db }

// Begin opens the underlying transaction. Calling Begin on a session whose
// transaction is already open is a no-op.
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("session is closed")
	}
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = &tx
	return nil
}

// DB returns the handle queries should run against, lazily beginning the
// transaction on first use.
func (s *Session) DB(ctx context.Context) (bun.IDB, error) {
	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	return s.tx, nil
}

// InTx reports whether a transaction is currently open.
func (s *Session) InTx() bool { return s.tx != nil }

// Commit persists pending changes. A session with no open transaction has
// nothing pending and commits trivially. After Commit the next operation
// begins a fresh transaction.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Rollback discards pending changes. Trivially succeeds when no transaction
// is open.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back session: %w", err)
	}
	return nil
}

// Close releases the session. Any open transaction is rolled back, attached
// entities are detached, and further operations fail. Close is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.attached = make(map[any]struct{})
	if s.tx != nil {
		tx := s.tx
		s.tx = nil
		if err := tx.Rollback(); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
	}
	return nil
}

// Closed reports whether the session has been released.
func (s *Session) Closed() bool { return s.closed }

// Attach records an entity as owned by this unit-of-work.
func (s *Session) Attach(entity any) {
	if s.closed || entity == nil {
		return
	}
	s.attached[entity] = struct{}{}
}

// Expunge detaches an entity from the unit-of-work.
func (s *Session) Expunge(entity any) {
	delete(s.attached, entity)
}

// Contains reports whether the entity is attached to this unit-of-work.
func (s *Session) Contains(entity any) bool {
	_, ok := s.attached[entity]
	return ok
}

// SessionMaker is a session factory bound to one engine and one set of
// session defaults. It is cheap to copy around and safe for concurrent use;
// the sessions it produces are not.
type SessionMaker struct {
	engine *Engine
	cfg    SessionConfig
}

// NewSessionMaker builds a session factory for the engine.
func NewSessionMaker(engine *Engine, cfg SessionConfig) *SessionMaker {
	return &SessionMaker{engine: engine, cfg: cfg.withDefaults()}
}

// Session produces a new unit-of-work.
func (m *SessionMaker) Session() *Session {
	return NewSession(m.engine.DB(), m.cfg)
}

// Engine returns the engine the factory is bound to.
func (m *SessionMaker) Engine() *Engine { return m.engine }
