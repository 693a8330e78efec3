//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// maxParams is the PostgreSQL limit on bind parameters per statement.
const maxParams = 65535

// insertSQL builds a parameterised multi-row insert that skips rows whose
// key already exists.
func insertSQL(name, key string, columns []string, rows int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", name, strings.Join(columns, ", "))

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
		}
		sb.WriteByte(')')
	}
	fmt.Fprintf(&sb, " ON CONFLICT (%s) DO NOTHING", key)
	return sb.String()
}

// batchRows returns the rows per statement for a table, bounded by the
// configured batch size and the bind parameter limit.
func batchRows(batchSize, columns int) int {
	limit := maxParams / max(columns, 1)
	if batchSize <= 0 || batchSize > limit {
		return limit
	}
	return batchSize
}

// BulkInsert writes rows in collection order with insert-or-skip semantics
// and returns the number of rows actually inserted.
func BulkInsert[T any](ctx context.Context, db DB, schema *table.Schema[T], rows []T, cfg datagen.BatchInsertConfig) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	columns := schema.ColumnNames()
	size := batchRows(cfg.BatchSize, len(columns))
	progress := datagen.NewProgressReporter(schema.Name, int64(len(rows)), cfg.ProgressInterval)

	var inserted int64
	args := make([]any, 0, size*len(columns))
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))

		args = args[:0]
		for _, r := range rows[start:end] {
			args = append(args, schema.Values(r)...)
		}

		tag, err := db.Exec(ctx, insertSQL(schema.Name, schema.Key, columns, end-start), args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert into %s (rows %d-%d): %w", schema.Name, start+1, end, err)
		}
		inserted += tag.RowsAffected()
		progress.Update(int64(end - start))
	}

	progress.Done()
	return inserted, nil
}

// WriteResult reports the outcome of writing one table.
type WriteResult struct {
	Table     string
	Attempted int
	Inserted  int64
}

// Totals sums attempted and inserted rows across results.
func Totals(results []WriteResult) (attempted int, inserted int64) {
	for _, r := range results {
		attempted += r.Attempted
		inserted += r.Inserted
	}
	return attempted, inserted
}

// Sink persists a generated dataset to the row store.
type Sink struct {
	db  DB
	cfg datagen.BatchInsertConfig
}

// NewSink creates a sink over db.
func NewSink(db DB, cfg datagen.BatchInsertConfig) *Sink {
	return &Sink{db: db, cfg: cfg}
}

// Write inserts every collection of ds in dependency order. Tables are
// written independently; the first failure aborts and earlier tables stay.
func (s *Sink) Write(ctx context.Context, ds *rental.Dataset) ([]WriteResult, error) {
	startTime := time.Now()
	results := make([]WriteResult, 0, len(Tables))

	steps := []struct {
		name  string
		count int
		write func() (int64, error)
	}{
		{TableBranches, len(ds.Branches), func() (int64, error) {
			return BulkInsert(ctx, s.db, Branches, ds.Branches, s.cfg)
		}},
		{TableClients, len(ds.Clients), func() (int64, error) {
			return BulkInsert(ctx, s.db, Clients, ds.Clients, s.cfg)
		}},
		{TableVehicles, len(ds.Vehicles), func() (int64, error) {
			return BulkInsert(ctx, s.db, Vehicles, ds.Vehicles, s.cfg)
		}},
		{TableLocations, len(ds.Locations), func() (int64, error) {
			return BulkInsert(ctx, s.db, Locations, ds.Locations, s.cfg)
		}},
		{TableEntretiens, len(ds.Entretiens), func() (int64, error) {
			return BulkInsert(ctx, s.db, Entretiens, ds.Entretiens, s.cfg)
		}},
		{TableFactures, len(ds.Factures), func() (int64, error) {
			return BulkInsert(ctx, s.db, Factures, ds.Factures, s.cfg)
		}},
	}

	for _, step := range steps {
		inserted, err := step.write()
		if err != nil {
			return results, err
		}

		results = append(results, WriteResult{Table: step.name, Attempted: step.count, Inserted: inserted})
		logging.Info().
			Str("table", step.name).
			Int("attempted", step.count).
			Int64("inserted", inserted).
			Msg("Table written")
	}

	logging.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Dataset persisted")
	return results, nil
}
