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

package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/cemrehancavdar/advanced-alchemy/database"
	"github.com/cemrehancavdar/advanced-alchemy/utils"
)

var logger = utils.NewLogger("WEB")

// Plugin binds one database session to each request: handlers obtain the
// session lazily through ProvideSession, and once the handler chain has run
// the session is committed or rolled back from the response status and then
// closed unconditionally.
type Plugin struct {
	maker *database.SessionMaker
	cfg   Config

	commitStatuses   map[int]struct{}
	rollbackStatuses map[int]struct{}
	commitMax        int

	mu    sync.RWMutex
	state map[string]any
}

// New builds a Plugin over the engine. Configurations whose extra commit
// and rollback status sets overlap are rejected.
func New(engine *database.Engine, sessionCfg database.SessionConfig, cfg Config) (*Plugin, error) {
	cfg = cfg.withDefaults()

	commit := make(map[int]struct{}, len(cfg.ExtraCommitStatuses))
	for _, status := range cfg.ExtraCommitStatuses {
		commit[status] = struct{}{}
	}
	rollback := make(map[int]struct{}, len(cfg.ExtraRollbackStatuses))
	for _, status := range cfg.ExtraRollbackStatuses {
		rollback[status] = struct{}{}
	}
	for status := range commit {
		if _, ok := rollback[status]; ok {
			return nil, fmt.Errorf("status %d is configured for both commit and rollback", status)
		}
	}

	commitMax := http.StatusMultipleChoices
	if cfg.CommitOnRedirect {
		commitMax = http.StatusBadRequest
	}

	maker := database.NewSessionMaker(engine, sessionCfg)
	p := &Plugin{
		maker:            maker,
		cfg:              cfg,
		commitStatuses:   commit,
		rollbackStatuses: rollback,
		commitMax:        commitMax,
		state:            make(map[string]any),
	}
	// The engine and session maker resolve from application state under the
	// configured keys.
	p.state[cfg.EngineKey] = engine
	p.state[cfg.SessionMakerKey] = maker
	return p, nil
}

// SessionMaker returns the per-request session factory.
func (p *Plugin) SessionMaker() *database.SessionMaker { return p.maker }

// Engine returns the engine the plugin serves sessions from.
func (p *Plugin) Engine() *database.Engine { return p.maker.Engine() }

// SessionMiddleware publishes the engine and session maker into the request
// scope and guarantees that any session opened during the request is closed
// when the handler chain returns. Nothing is committed implicitly; an open
// transaction is rolled back by the close.
func (p *Plugin) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(p.cfg.EngineKey, p.Engine())
		c.Set(p.cfg.SessionMakerKey, p.maker)

		defer p.closeSession(c)

		c.Next()
	}
}

// AutocommitMiddleware behaves like SessionMiddleware but additionally
// commits or rolls back the session from the response status before the
// close.
func (p *Plugin) AutocommitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(p.cfg.EngineKey, p.Engine())
		c.Set(p.cfg.SessionMakerKey, p.maker)

		// Close runs after finalize, and runs even when finalize fails.
		defer p.closeSession(c)
		defer p.finalizeSession(c)

		c.Next()
	}
}

// ProvideSession returns the request's session, opening one on first use.
func (p *Plugin) ProvideSession(c *gin.Context) *database.Session {
	if session := sessionFrom(c, p.cfg.SessionKey); session != nil {
		return session
	}
	session := p.maker.Session()
	c.Set(p.cfg.SessionKey, session)
	return session
}

// ProvideEngine returns the engine from the request scope, falling back to
// the plugin's own engine.
func (p *Plugin) ProvideEngine(c *gin.Context) *database.Engine {
	if value, ok := c.Get(p.cfg.EngineKey); ok {
		if engine, ok := value.(*database.Engine); ok && engine != nil {
			return engine
		}
	}
	return p.Engine()
}

// UpdateAppState stores a value in the plugin's shared application state.
func (p *Plugin) UpdateAppState(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state[key] = value
}

// AppState returns a value from the plugin's shared application state.
func (p *Plugin) AppState(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.state[key]
	return value, ok
}

// OnShutdown disposes the engine. Safe to call more than once.
func (p *Plugin) OnShutdown() error {
	return p.Engine().Dispose()
}

// shouldCommit decides commit versus rollback for a response status. The
// extra rollback set wins over the extra commit set only by construction:
// the two sets never overlap.
func (p *Plugin) shouldCommit(status int) bool {
	if _, ok := p.rollbackStatuses[status]; ok {
		return false
	}
	if _, ok := p.commitStatuses[status]; ok {
		return true
	}
	return status >= http.StatusOK && status < p.commitMax
}

func (p *Plugin) finalizeSession(c *gin.Context) {
	session := sessionFrom(c, p.cfg.SessionKey)
	if session == nil || session.Closed() {
		return
	}

	status := c.Writer.Status()
	if p.shouldCommit(status) {
		if err := session.Commit(); err != nil {
			logger.WithField("status", status).WithError(err).Error("session commit failed")
			_ = c.Error(err)
		}
		return
	}
	if err := session.Rollback(); err != nil {
		logger.WithField("status", status).WithError(err).Error("session rollback failed")
		_ = c.Error(err)
	}
}

func (p *Plugin) closeSession(c *gin.Context) {
	session := sessionFrom(c, p.cfg.SessionKey)
	if session == nil {
		return
	}
	if err := session.Close(); err != nil {
		logger.WithError(err).Error("session close failed")
		_ = c.Error(err)
	}
	c.Set(p.cfg.SessionKey, (*database.Session)(nil))
}

func sessionFrom(c *gin.Context, key string) *database.Session {
	value, ok := c.Get(key)
	if !ok {
		return nil
	}
	session, ok := value.(*database.Session)
	if !ok {
		return nil
	}
	return session
}
