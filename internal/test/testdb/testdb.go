// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"disasterconnect-http-service/internal/infrastructure/config"
	"disasterconnect-http-service/internal/infrastructure/database"

	"gorm.io/gorm"
)

var seq int64

// Config returns a configuration pointing at a fresh in-memory sqlite database
func Config() *config.Config {
	n := atomic.AddInt64(&seq, 1)
	return &config.Config{
		EnvType:                "LOCAL",
		DatabaseURL:            fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_foreign_keys=on", n),
		SecretKey:              "test-secret",
		SessionCookieName:      "session",
		SessionLifetime:        config.DefaultSessionLifetime,
		CORSOrigins:            "http://localhost:5173",
		OpenAIModel:            "gpt-3.5-turbo",
		AITimeout:              config.DefaultAITimeout,
		UploadTimeout:          config.DefaultUploadTimeout,
		ClassificationCacheTTL: config.DefaultClassificationCacheTTL,
	}
}

// New opens and migrates a database for cfg. The pool is closed when the test ends.
func New(t testing.TB, cfg *config.Config) *database.ConnectionPool {
	t.Helper()
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := database.AutoMigrate(pool.GetDB()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

// NewDB is New for callers that only need the gorm handle
func NewDB(t testing.TB) *gorm.DB {
	return New(t, Config()).GetDB()
}
