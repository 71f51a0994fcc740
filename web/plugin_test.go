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
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/cemrehancavdar/advanced-alchemy/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Title string `bun:"title,notnull"`
}

func newTestPlugin(t *testing.T, cfg Config) *Plugin {
	t.Helper()

	engineCfg := database.DefaultEngineConfig()
	engineCfg.Type = "sqlite"
	engineCfg.DSN = "file:" + filepath.Join(t.TempDir(), "test.db")
	engineCfg.EnableReconnect = false

	engine := database.NewEngine(engineCfg)
	require.NoError(t, engine.Connect(context.Background()))
	t.Cleanup(func() { _ = engine.Dispose() })

	_, err := engine.DB().NewCreateTable().
		Model((*ticket)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	plugin, err := New(engine, database.DefaultSessionConfig(), cfg)
	require.NoError(t, err)
	return plugin
}

func newTestRouter(p *Plugin) *gin.Engine {
	router := gin.New()
	router.Use(p.AutocommitMiddleware())
	return router
}

// insertHandler writes one row through the request session and responds
// with the given status.
func insertHandler(p *Plugin, status int, captured **database.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := p.ProvideSession(c)
		if captured != nil {
			*captured = session
		}
		idb, err := session.DB(c.Request.Context())
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if _, err := idb.NewInsert().
			Model(&ticket{Title: "from-request"}).
			Exec(c.Request.Context()); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(status)
	}
}

func countTickets(t *testing.T, p *Plugin) int {
	t.Helper()
	count, err := p.Engine().DB().NewSelect().
		Model((*ticket)(nil)).
		Count(context.Background())
	require.NoError(t, err)
	return count
}

func perform(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestNewRejectsOverlappingStatusSets(t *testing.T) {
	engineCfg := database.DefaultEngineConfig()
	engineCfg.Type = "sqlite"
	engineCfg.DSN = "file:" + filepath.Join(t.TempDir(), "test.db")
	engine := database.NewEngine(engineCfg)
	require.NoError(t, engine.Connect(context.Background()))
	t.Cleanup(func() { _ = engine.Dispose() })

	_, err := New(engine, database.DefaultSessionConfig(), Config{
		ExtraCommitStatuses:   []int{418},
		ExtraRollbackStatuses: []int{418},
	})
	assert.Error(t, err)
}

func TestCommitOnSuccessStatus(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	var session *database.Session
	router := newTestRouter(p)
	router.POST("/tickets", insertHandler(p, http.StatusCreated, &session))

	w := perform(router, http.MethodPost, "/tickets")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, countTickets(t, p))
	require.NotNil(t, session)
	assert.True(t, session.Closed())
}

func TestRollbackOnErrorStatus(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	var session *database.Session
	router := newTestRouter(p)
	router.POST("/tickets", insertHandler(p, http.StatusNotFound, &session))

	w := perform(router, http.MethodPost, "/tickets")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, countTickets(t, p))
	require.NotNil(t, session)
	assert.True(t, session.Closed())
}

func TestRedirectStatus(t *testing.T) {
	t.Run("rolls back by default", func(t *testing.T) {
		p := newTestPlugin(t, DefaultConfig())
		router := newTestRouter(p)
		router.POST("/tickets", insertHandler(p, http.StatusMovedPermanently, nil))

		perform(router, http.MethodPost, "/tickets")
		assert.Equal(t, 0, countTickets(t, p))
	})

	t.Run("commits with CommitOnRedirect", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CommitOnRedirect = true
		p := newTestPlugin(t, cfg)
		router := newTestRouter(p)
		router.POST("/tickets", insertHandler(p, http.StatusMovedPermanently, nil))

		perform(router, http.MethodPost, "/tickets")
		assert.Equal(t, 1, countTickets(t, p))
	})
}

func TestExtraStatusSets(t *testing.T) {
	t.Run("extra commit status commits an error response", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExtraCommitStatuses = []int{http.StatusConflict}
		p := newTestPlugin(t, cfg)
		router := newTestRouter(p)
		router.POST("/tickets", insertHandler(p, http.StatusConflict, nil))

		perform(router, http.MethodPost, "/tickets")
		assert.Equal(t, 1, countTickets(t, p))
	})

	t.Run("extra rollback status discards a success response", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExtraRollbackStatuses = []int{http.StatusOK}
		p := newTestPlugin(t, cfg)
		router := newTestRouter(p)
		router.POST("/tickets", insertHandler(p, http.StatusOK, nil))

		perform(router, http.MethodPost, "/tickets")
		assert.Equal(t, 0, countTickets(t, p))
	})
}

func TestAutocommitClosesWhenCommitFails(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	var session *database.Session
	var finalizeErr error
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		if last := c.Errors.Last(); last != nil {
			finalizeErr = last.Err
		}
	})
	router.Use(p.AutocommitMiddleware())
	router.POST("/tickets", func(c *gin.Context) {
		session = p.ProvideSession(c)
		idb, err := session.DB(c.Request.Context())
		require.NoError(t, err)
		_, err = idb.NewInsert().
			Model(&ticket{Title: "doomed"}).
			Exec(c.Request.Context())
		require.NoError(t, err)
		// Resolve the transaction out-of-band so the commit at the end of
		// the request cannot succeed.
		require.NoError(t, idb.(*bun.Tx).Rollback())
		c.Status(http.StatusCreated)
	})

	w := perform(router, http.MethodPost, "/tickets")

	// The commit failure surfaces on the context, and the session still
	// ends up closed.
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Error(t, finalizeErr)
	require.NotNil(t, session)
	assert.True(t, session.Closed())
	assert.Equal(t, 0, countTickets(t, p))
}

func TestSessionMiddlewareClosesWithoutCommit(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	var session *database.Session
	router := gin.New()
	router.Use(p.SessionMiddleware())
	router.POST("/tickets", insertHandler(p, http.StatusCreated, &session))

	w := perform(router, http.MethodPost, "/tickets")

	// Nothing is committed implicitly; the close rolls the write back.
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, countTickets(t, p))
	require.NotNil(t, session)
	assert.True(t, session.Closed())
}

func TestSessionIsLazy(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	router := newTestRouter(p)
	router.GET("/ping", func(c *gin.Context) {
		_, opened := c.Get(DefaultSessionKey)
		assert.False(t, opened)
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProvideSessionReturnsSameSession(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	router := newTestRouter(p)
	router.GET("/twice", func(c *gin.Context) {
		first := p.ProvideSession(c)
		second := p.ProvideSession(c)
		assert.Same(t, first, second)
		c.Status(http.StatusOK)
	})

	perform(router, http.MethodGet, "/twice")
}

func TestProvideEngineAndRequestScopeKeys(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())
	router := newTestRouter(p)
	router.GET("/engine", func(c *gin.Context) {
		assert.Same(t, p.Engine(), p.ProvideEngine(c))

		maker, ok := c.Get(DefaultSessionMakerKey)
		assert.True(t, ok)
		assert.Same(t, p.SessionMaker(), maker)
		c.Status(http.StatusOK)
	})

	perform(router, http.MethodGet, "/engine")
}

func TestCustomSessionKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SessionKey = "tenant_session"
	p := newTestPlugin(t, cfg)
	router := newTestRouter(p)
	router.GET("/custom", func(c *gin.Context) {
		session := p.ProvideSession(c)
		stored, ok := c.Get("tenant_session")
		assert.True(t, ok)
		assert.Same(t, session, stored)
		c.Status(http.StatusOK)
	})

	perform(router, http.MethodGet, "/custom")
}

func TestAppState(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())

	engine, ok := p.AppState(DefaultEngineKey)
	assert.True(t, ok)
	assert.Same(t, p.Engine(), engine)
	maker, ok := p.AppState(DefaultSessionMakerKey)
	assert.True(t, ok)
	assert.Same(t, p.SessionMaker(), maker)

	p.UpdateAppState("version", "1.2.3")
	value, ok := p.AppState("version")
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", value)

	_, ok = p.AppState("missing")
	assert.False(t, ok)
}

func TestOnShutdownIsIdempotent(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())

	require.NoError(t, p.OnShutdown())
	require.NoError(t, p.OnShutdown())
}

func TestShouldCommitRanges(t *testing.T) {
	p := newTestPlugin(t, DefaultConfig())

	assert.True(t, p.shouldCommit(http.StatusOK))
	assert.True(t, p.shouldCommit(http.StatusCreated))
	assert.True(t, p.shouldCommit(299))
	assert.False(t, p.shouldCommit(http.StatusMovedPermanently))
	assert.False(t, p.shouldCommit(http.StatusBadRequest))
	assert.False(t, p.shouldCommit(http.StatusInternalServerError))

	cfg := DefaultConfig()
	cfg.CommitOnRedirect = true
	redirecting := newTestPlugin(t, cfg)
	assert.True(t, redirecting.shouldCommit(http.StatusMovedPermanently))
	assert.False(t, redirecting.shouldCommit(http.StatusBadRequest))
}
