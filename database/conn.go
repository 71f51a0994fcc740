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
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu     sync.RWMutex
	globalEngine *Engine
	globalConfig *Config
)

// InitEngine creates, connects, and installs the package-level default
// engine from the aggregate configuration.
func InitEngine(ctx context.Context, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{Engine: *DefaultEngineConfig(), Session: DefaultSessionConfig()}
	}
	engine, err := CreateEngine(&cfg.Engine)
	if err != nil {
		return nil, err
	}
	if err := engine.Connect(ctx); err != nil {
		return nil, err
	}

	globalMu.Lock()
	globalEngine = engine
	globalConfig = cfg
	globalMu.Unlock()
	return engine, nil
}

// GetEngine returns the default engine, or nil before InitEngine.
func GetEngine() *Engine {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalEngine
}

// GetDB returns the default engine's Bun handle, or nil before InitEngine.
func GetDB() *bun.DB {
	if engine := GetEngine(); engine != nil {
		return engine.DB()
	}
	return nil
}

// DefaultSessionMaker returns a session factory over the default engine
// using the configured session defaults.
func DefaultSessionMaker() *SessionMaker {
	globalMu.RLock()
	engine, cfg := globalEngine, globalConfig
	globalMu.RUnlock()
	if engine == nil {
		return nil
	}
	sessionCfg := DefaultSessionConfig()
	if cfg != nil {
		sessionCfg = cfg.Session
	}
	return NewSessionMaker(engine, sessionCfg)
}

// DisposeEngine releases the default engine. Safe to call more than once.
func DisposeEngine() error {
	if engine := GetEngine(); engine != nil {
		return engine.Dispose()
	}
	return nil
}

// GetHealthStatus reports the default engine's health.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if engine := GetEngine(); engine != nil {
		return engine.HealthCheck(ctx)
	}
	return &HealthStatus{
		Healthy:   false,
		Connected: false,
		LastError: "Database not initialized",
	}
}

// GetEngineStats reports the default engine's pool statistics.
func GetEngineStats() *DBStats {
	if engine := GetEngine(); engine != nil {
		return engine.Stats()
	}
	return &DBStats{}
}
