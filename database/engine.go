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
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Engine owns the process-wide connection pool. It is shared and safe for
// concurrent use; sessions produced from it are not. Dispose releases the
// underlying pool exactly once.
type Engine struct {
	config          *EngineConfig
	db              *bun.DB
	sqlDB           *sql.DB
	logger          Logger
	mu              sync.RWMutex
	connected       bool
	lastError       error
	reconnectTries  int
	stopHealthCheck chan struct{}
	healthCheckOnce sync.Once
	disposeOnce     sync.Once
	disposeErr      error
}

// NewEngine builds an unconnected engine for the configuration. Call
// Connect before producing sessions.
func NewEngine(config *EngineConfig) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}
	return &Engine{
		config:          config,
		logger:          GetLogger(),
		stopHealthCheck: make(chan struct{}),
	}
}

// Connect opens the connection pool, verifies connectivity, registers
// pending models, and starts the background health check when configured.
func (e *Engine) Connect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.connected && e.db != nil {
		return nil
	}

	var err error
	e.sqlDB, e.db, err = e.createConnection()
	if err != nil {
		e.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	e.sqlDB.SetMaxIdleConns(e.config.MaxIdleConns)
	e.sqlDB.SetMaxOpenConns(e.config.MaxOpenConns)
	e.sqlDB.SetConnMaxLifetime(e.config.ConnMaxLifetime)
	e.sqlDB.SetConnMaxIdleTime(e.config.ConnMaxIdleTime)

	ctxTimeout, cancel := context.WithTimeout(ctx, e.config.ConnectTimeout)
	defer cancel()

	if err := e.db.PingContext(ctxTimeout); err != nil {
		e.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	e.db.RegisterModel(RegisteredModelInstances()...)

	e.connected = true
	e.lastError = nil
	e.reconnectTries = 0

	if e.config.HealthCheckInterval > 0 {
		e.startHealthCheck()
	}

	e.logger.Info("Database engine connected:", "type", e.config.Type, "host", e.config.Host)
	return nil
}

func (e *Engine) createConnection() (*sql.DB, *bun.DB, error) {
	if e.config.ConnectTimeout.Seconds() <= 0 {
		e.config.ConnectTimeout = 30 * time.Second
	}

	var sqlDB *sql.DB
	var db *bun.DB
	var err error

	switch e.config.Type {
	case "mysql":
		sqlDB, db, err = e.createMySQLConnection()
	case "postgres", "postgresql":
		sqlDB, db, err = e.createPostgreSQLConnection()
	case "sqlite", "sqlite3":
		sqlDB, db, err = e.createSQLiteConnection()
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", e.config.Type)
	}

	if err != nil {
		return nil, nil, err
	}

	if e.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if e.config.SlowQueryTime > 0 {
		db.AddQueryHook(&SlowQueryHook{
			SlowTime: e.config.SlowQueryTime,
			Logger:   e.logger,
		})
	}

	return sqlDB, db, nil
}

func (e *Engine) createMySQLConnection() (*sql.DB, *bun.DB, error) {
	dsn := e.config.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
			e.config.Username,
			e.config.Password,
			e.config.Host,
			e.config.Port,
			e.config.DBName,
			e.config.ConnectTimeout,
			e.config.ReadTimeout,
			e.config.WriteTimeout,
		)
	}
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, mysqldialect.New()), nil
}

func (e *Engine) createPostgreSQLConnection() (*sql.DB, *bun.DB, error) {
	dsn := e.config.DSN
	if dsn == "" {
		sslMode := e.config.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
			e.config.Username,
			e.config.Password,
			e.config.Host,
			e.config.Port,
			e.config.DBName,
			sslMode,
			int(e.config.ConnectTimeout.Seconds()),
		)
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, pgdialect.New()), nil
}

func (e *Engine) createSQLiteConnection() (*sql.DB, *bun.DB, error) {
	dsn := e.config.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("%s.db", e.config.DBName)
	}
	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// DB returns the Bun database handle, or nil before Connect.
func (e *Engine) DB() *bun.DB {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.db
}

// SQLDB returns the raw database/sql pool, or nil before Connect.
func (e *Engine) SQLDB() *sql.DB {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sqlDB
}

// Ping verifies connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	e.mu.RLock()
	db := e.db
	e.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.PingContext(ctx)
}

// Dispose releases the connection pool. It is guaranteed to run its release
// path exactly once; later calls return the first result.
func (e *Engine) Dispose() error {
	e.disposeOnce.Do(func() {
		e.disposeErr = e.disconnect()
	})
	return e.disposeErr
}

func (e *Engine) disconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case e.stopHealthCheck <- struct{}{}:
	default:
	}

	if e.db == nil {
		return nil
	}

	err := e.db.Close()
	e.db = nil
	e.sqlDB = nil
	e.connected = false

	if err != nil {
		e.logger.Error("Failed to dispose database engine", "error", err)
		return err
	}
	e.logger.Info("Database engine disposed")
	return nil
}

// Reconnect tears down the current pool and connects again.
func (e *Engine) Reconnect(ctx context.Context) error {
	e.logger.Info("Attempting to reconnect to the database")

	e.mu.Lock()
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("Error closing existing connection", "error", err)
		}
		e.db = nil
		e.sqlDB = nil
		e.connected = false
	}
	e.mu.Unlock()

	return e.Connect(ctx)
}

// HealthCheck pings the database and reports pool state.
func (e *Engine) HealthCheck(ctx context.Context) *HealthStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Connected:     e.connected,
	}

	if e.db == nil {
		status.Healthy = false
		status.LastError = "Database not initialized"
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := e.db.PingContext(ctxTimeout)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Healthy = false
		status.Connected = false
		status.LastError = err.Error()
		e.lastError = err
	} else {
		status.Healthy = true
		status.Connected = true
		e.lastError = nil
	}

	if e.sqlDB != nil {
		stats := e.sqlDB.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}

	return status
}

func (e *Engine) startHealthCheck() {
	e.healthCheckOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(e.config.HealthCheckInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
					status := e.HealthCheck(ctx)
					cancel()
					if !status.Healthy && e.config.EnableReconnect {
						e.handleReconnect()
					}
				case <-e.stopHealthCheck:
					return
				}
			}
		}()
	})
}

func (e *Engine) handleReconnect() {
	if e.reconnectTries >= e.config.MaxReconnectTries {
		e.logger.Error("Max reconnect attempts reached, stopping", "tries", e.reconnectTries)
		return
	}

	e.reconnectTries++
	e.logger.Info("Starting database reconnect", "try", e.reconnectTries)

	time.Sleep(e.config.ReconnectInterval)

	ctx, cancel := context.WithTimeout(context.Background(), e.config.ConnectTimeout)
	defer cancel()

	if err := e.Reconnect(ctx); err != nil {
		e.logger.Error("Reconnect failed", "error", err, "try", e.reconnectTries)
	} else {
		e.reconnectTries = 0
		e.logger.Info("Reconnect succeeded")
	}
}

// Stats reports connection pool statistics.
func (e *Engine) Stats() *DBStats {
	e.mu.RLock()
	sqlDB := e.sqlDB
	e.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}

	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

// SetLogger swaps the engine logger.
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// CreateAllTables creates tables for every registered model, in priority
// order. Existing tables are left untouched.
func (e *Engine) CreateAllTables(ctx context.Context) error {
	db := e.DB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	for _, model := range RegisteredModels() {
		if _, err := db.NewCreateTable().
			Model(model.Instance()).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model.Instance(), err)
		}
	}
	return nil
}
