// Package loader reads the Northwind base tables from a relational source.
//
// A Load is a single-shot batch: one connection is opened, the five relations
// are read as stored, and the connection is closed before the tables are
// handed back. Any failure aborts the whole batch; callers never see a
// partially populated result.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"northwind-dashboard/internal/config"
	"northwind-dashboard/internal/models"
)

// DataSourceError reports a connection or query failure. Relation is empty
// when the connection itself could not be established.
type DataSourceError struct {
	Relation string
	Err      error
}

func (e *DataSourceError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("data source: read %s: %v", e.Relation, e.Err)
	}
	return fmt.Sprintf("data source: %v", e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

type Loader struct {
	cfg    config.DatabaseConfig
	logger *slog.Logger
}

func New(cfg config.DatabaseConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cfg:    cfg,
		logger: logger.With("component", "loader", "driver", cfg.Driver),
	}
}

func (l *Loader) Load(ctx context.Context) (*models.Tables, error) {
	start := time.Now()

	db, err := l.open()
	if err != nil {
		return nil, &DataSourceError{Err: err}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, &DataSourceError{Err: err}
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			l.logger.Warn("close data source", "error", err)
		}
	}()

	tables := &models.Tables{}
	relations := []struct {
		name string
		dest any
	}{
		{models.Category{}.TableName(), &tables.Categories},
		{models.Order{}.TableName(), &tables.Orders},
		{models.OrderLineItem{}.TableName(), &tables.OrderLineItems},
		{models.Product{}.TableName(), &tables.Products},
		{models.Customer{}.TableName(), &tables.Customers},
	}

	for _, rel := range relations {
		if err := db.WithContext(ctx).Find(rel.dest).Error; err != nil {
			return nil, &DataSourceError{Relation: rel.name, Err: err}
		}
	}

	l.logger.Info("base tables loaded",
		"categories", len(tables.Categories),
		"orders", len(tables.Orders),
		"order_line_items", len(tables.OrderLineItems),
		"products", len(tables.Products),
		"customers", len(tables.Customers),
		"duration", time.Since(start),
	)

	return tables, nil
}

func (l *Loader) open() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch l.cfg.Driver {
	case config.DriverSQLite:
		// the sqlite driver creates missing files; a missing dataset must fail instead
		if path := sqlitePath(l.cfg.DSN); path != "" {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("open sqlite database: %w", err)
			}
		}
		dialector = sqlite.Open(l.cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(l.cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", l.cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}

// sqlitePath returns the file a sqlite DSN points at, or "" for in-memory
// and URI forms that sqlite resolves itself.
func sqlitePath(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return ""
	}
	path, _, _ := strings.Cut(dsn, "?")
	return path
}
