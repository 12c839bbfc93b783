package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"

	"github.com/upcn/formu/internal/common"
)

// DB manages the shared connection to the payroll database. Production
// runs against SQL Server (driver "sqlserver"); local runs and tests use
// SQLite (driver "sqlite", modernc.org/sqlite). Queries are written with
// "?" placeholders and rebound per driver.
type DB struct {
	db     *sql.DB
	driver string
	logger arbor.ILogger
}

// NewDB opens the database described by the config and verifies the
// connection with a ping.
func NewDB(logger arbor.ILogger, config *common.DatabaseConfig) (*DB, error) {
	if config.Driver == "sqlite" && config.DSN != ":memory:" {
		dir := filepath.Dir(config.DSN)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The service is read-only; a small pool is plenty
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", config.Driver).Msg("Database connection initialized")
	return &DB{db: db, driver: config.Driver, logger: logger}, nil
}

// DB returns the underlying database connection.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// rebind rewrites "?" placeholders to the driver's native style. SQLite
// accepts "?" as-is; SQL Server wants ordinal @pN markers.
func (d *DB) rebind(query string) string {
	if d.driver != "sqlserver" {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("@p")
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
