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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig describes how to construct the engine: connection target,
// pool sizing, timeouts, and observability knobs.
type EngineConfig struct {
	Type                string        `json:"type" yaml:"type"` // postgres, mysql, sqlite
	Host                string        `json:"host" yaml:"host"`
	Port                int           `json:"port" yaml:"port"`
	Username            string        `json:"username" yaml:"username"`
	Password            string        `json:"password" yaml:"password"`
	DBName              string        `json:"dbname" yaml:"dbname"`
	SSLMode             string        `json:"sslmode" yaml:"sslmode"`
	DSN                 string        `json:"dsn" yaml:"dsn"` // overrides host/port/dbname when set
	MaxIdleConns        int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns        int           `json:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime     time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime     time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	ConnectTimeout      time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout         time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout" yaml:"write_timeout"`
	EnableReconnect     bool          `json:"enable_reconnect" yaml:"enable_reconnect"`
	ReconnectInterval   time.Duration `json:"reconnect_interval" yaml:"reconnect_interval"`
	MaxReconnectTries   int           `json:"max_reconnect_tries" yaml:"max_reconnect_tries"`
	HealthCheckInterval time.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	EnableQueryLog      bool          `json:"enable_query_log" yaml:"enable_query_log"`
	SlowQueryTime       time.Duration `json:"slow_query_time" yaml:"slow_query_time"`
}

// DefaultEngineConfig returns an engine config with sensible defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxIdleConns:        10,
		MaxOpenConns:        100,
		ConnMaxLifetime:     time.Hour,
		ConnMaxIdleTime:     time.Minute * 30,
		ConnectTimeout:      time.Second * 10,
		ReadTimeout:         time.Second * 30,
		WriteTimeout:        time.Second * 30,
		EnableReconnect:     true,
		ReconnectInterval:   time.Second * 5,
		MaxReconnectTries:   3,
		HealthCheckInterval: 0,
		EnableQueryLog:      false,
		SlowQueryTime:       time.Second * 2,
	}
}

// DefaultDeleteChunkSize bounds how many identifiers a single bulk-delete
// statement carries, keeping below common driver parameter limits.
const DefaultDeleteChunkSize = 950

// SessionConfig holds the unit-of-work behavioral defaults that repository
// operations fall back to when a per-call override is absent.
type SessionConfig struct {
	// AutoCommit commits the session immediately after each write operation.
	AutoCommit bool `json:"auto_commit" yaml:"auto_commit"`
	// AutoExpunge detaches returned entities from the session.
	AutoExpunge bool `json:"auto_expunge" yaml:"auto_expunge"`
	// AutoRefresh reloads entities after writes so server-computed columns
	// are visible to the caller.
	AutoRefresh bool `json:"auto_refresh" yaml:"auto_refresh"`
	// DeleteChunkSize bounds identifiers per bulk-delete statement.
	DeleteChunkSize int `json:"delete_chunk_size" yaml:"delete_chunk_size"`
}

// DefaultSessionConfig mirrors the defaults of the repository contract:
// refresh after writes, no implicit commit, no expunge.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		AutoCommit:      false,
		AutoExpunge:     false,
		AutoRefresh:     true,
		DeleteChunkSize: DefaultDeleteChunkSize,
	}
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.DeleteChunkSize <= 0 {
		c.DeleteChunkSize = DefaultDeleteChunkSize
	}
	return c
}

// Config aggregates engine construction and session defaults.
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Session SessionConfig `json:"session" yaml:"session"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{Engine: *DefaultEngineConfig(), Session: DefaultSessionConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Session = cfg.Session.withDefaults()
	return cfg, nil
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql pool statistics.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}
