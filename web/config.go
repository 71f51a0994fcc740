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

// Default request-scope keys the plugin stores its state under.
const (
	DefaultSessionKey      = "db_session"
	DefaultEngineKey       = "db_engine"
	DefaultSessionMakerKey = "session_maker"
)

// Config controls how the plugin binds sessions to requests and how the
// response status decides between commit and rollback.
type Config struct {
	// SessionKey is the request-scope key the session is stored under.
	SessionKey string `json:"session_key" yaml:"session_key"`
	// EngineKey is the request-scope key the engine is stored under.
	EngineKey string `json:"engine_key" yaml:"engine_key"`
	// SessionMakerKey is the request-scope key the session maker is
	// stored under.
	SessionMakerKey string `json:"session_maker_key" yaml:"session_maker_key"`

	// CommitOnRedirect extends the auto-commit status range to include
	// 3xx responses.
	CommitOnRedirect bool `json:"commit_on_redirect" yaml:"commit_on_redirect"`
	// ExtraCommitStatuses always commit, regardless of the status range.
	ExtraCommitStatuses []int `json:"extra_commit_statuses" yaml:"extra_commit_statuses"`
	// ExtraRollbackStatuses always roll back, regardless of the status
	// range. Must not overlap ExtraCommitStatuses.
	ExtraRollbackStatuses []int `json:"extra_rollback_statuses" yaml:"extra_rollback_statuses"`
}

// DefaultConfig returns the plugin configuration with the standard
// request-scope keys and status-in-2xx commit behavior.
func DefaultConfig() Config {
	return Config{
		SessionKey:      DefaultSessionKey,
		EngineKey:       DefaultEngineKey,
		SessionMakerKey: DefaultSessionMakerKey,
	}
}

func (c Config) withDefaults() Config {
	if c.SessionKey == "" {
		c.SessionKey = DefaultSessionKey
	}
	if c.EngineKey == "" {
		c.EngineKey = DefaultEngineKey
	}
	if c.SessionMakerKey == "" {
		c.SessionMakerKey = DefaultSessionMakerKey
	}
	return c
}
