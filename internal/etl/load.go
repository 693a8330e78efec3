//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pgEdge/pgedge-rentalgen/internal/archive"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Warehouse defaults.
const (
	DefaultWarehouseSchema = "location"
	DefaultLoadBatchSize   = 10000
)

// gormWriter forwards GORM log lines to the global logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	logging.Warn().Str("component", "gorm").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// OpenWarehouse connects to the warehouse database.
func OpenWarehouse(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             5 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	logging.Info().Msg("Connected to warehouse")
	return db, nil
}

// CloseWarehouse releases the warehouse connection pool.
func CloseWarehouse(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// LoaderConfig holds warehouse load settings.
type LoaderConfig struct {
	Schema    string
	BatchSize int
}

// LoadResult reports one loaded table.
type LoadResult struct {
	Table    string
	Rows     int
	Duration time.Duration
}

// Loader replaces warehouse tables with star schema content.
type Loader struct {
	db      *gorm.DB
	cfg     LoaderConfig
	archive *archive.Writer
}

// NewLoader creates a loader. The archive writer may be nil.
func NewLoader(db *gorm.DB, cfg LoaderConfig, w *archive.Writer) *Loader {
	if cfg.Schema == "" {
		cfg.Schema = DefaultWarehouseSchema
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultLoadBatchSize
	}
	return &Loader{db: db, cfg: cfg, archive: w}
}

// QualifiedName returns the schema qualified warehouse table name.
func (l *Loader) QualifiedName(name string) string {
	return l.cfg.Schema + "." + name
}

// Load replaces every star table in order. The first failure aborts; tables
// already loaded stay in place.
func (l *Loader) Load(ctx context.Context, star *StarSchema) ([]LoadResult, error) {
	log := logging.Stage("load")
	var results []LoadResult

	for _, ds := range star.Datasets() {
		start := time.Now()
		if err := l.LoadTable(ctx, ds); err != nil {
			return results, err
		}

		r := LoadResult{Table: ds.Name(), Rows: ds.Len(), Duration: time.Since(start)}
		results = append(results, r)
		log.Info().
			Str("table", l.QualifiedName(r.Table)).
			Int("rows", r.Rows).
			Dur("duration", r.Duration).
			Msg("Table loaded")
	}
	return results, nil
}

// LoadTable archives ds to the gold stage, then drops, recreates and fills
// its warehouse table in one transaction.
func (l *Loader) LoadTable(ctx context.Context, ds table.Dataset) error {
	if err := l.archive.WriteTable(ctx, archive.Gold, ds); err != nil {
		return err
	}

	qualified := l.QualifiedName(ds.Name())
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, l.cfg.Schema)).Error; err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if err := tx.Migrator().DropTable(qualified); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
		if err := tx.Table(qualified).AutoMigrate(ds.Model()); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		if ds.Len() == 0 {
			return nil
		}
		if err := tx.Table(qualified).CreateInBatches(ds.Records(), l.cfg.BatchSize).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", qualified, err)
	}
	return nil
}
