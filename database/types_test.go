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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := `
engine:
  type: postgres
  host: db.internal
  port: 5433
  username: app
  dbname: app
session:
  auto_commit: true
  delete_chunk_size: 100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Engine.Type)
	assert.Equal(t, "db.internal", cfg.Engine.Host)
	assert.Equal(t, 5433, cfg.Engine.Port)
	// Unset engine fields keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Engine.ConnectTimeout)
	assert.Equal(t, 100, cfg.Engine.MaxOpenConns)

	assert.True(t, cfg.Session.AutoCommit)
	assert.False(t, cfg.Session.AutoExpunge)
	assert.Equal(t, 100, cfg.Session.DeleteChunkSize)
}

func TestLoadConfigFillsChunkSizeDefault(t *testing.T) {
	content := `
engine:
  type: sqlite
  dbname: app
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDeleteChunkSize, cfg.Session.DeleteChunkSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
