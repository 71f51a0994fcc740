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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEngineLifecycle(t *testing.T) {
	cfg := &Config{
		Engine:  *DefaultEngineConfig(),
		Session: SessionConfig{AutoCommit: true},
	}
	cfg.Engine.Type = "sqlite"
	cfg.Engine.DSN = "file:" + filepath.Join(t.TempDir(), "test.db")
	cfg.Engine.EnableReconnect = false

	engine, err := InitEngine(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = DisposeEngine() })

	assert.Same(t, engine, GetEngine())
	assert.Same(t, engine.DB(), GetDB())

	maker := DefaultSessionMaker()
	require.NotNil(t, maker)
	assert.Same(t, engine, maker.Engine())
	session := maker.Session()
	defer session.Close()
	assert.True(t, session.Config().AutoCommit)

	status := GetHealthStatus(context.Background())
	assert.True(t, status.Healthy)
	assert.NotNil(t, GetEngineStats())

	require.NoError(t, DisposeEngine())
}
