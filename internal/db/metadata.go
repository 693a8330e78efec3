//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/pkg/version"
)

const metadataTable = "rentalgen_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS rentalgen_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RunInfo describes one generation run.
type RunInfo struct {
	Seed        uint64
	Years       int
	Profile     string
	WindowStart time.Time
	WindowEnd   time.Time
	Counts      map[string]int
}

// Values flattens the run description into metadata keys.
func (r RunInfo) Values() map[string]string {
	values := map[string]string{
		"version":        version.Short(),
		"generated_at":   time.Now().UTC().Format(time.RFC3339),
		"seed":           strconv.FormatUint(r.Seed, 10),
		"years":          strconv.Itoa(r.Years),
		"season_profile": r.Profile,
		"window_start":   r.WindowStart.UTC().Format(time.RFC3339),
		"window_end":     r.WindowEnd.UTC().Format(time.RFC3339),
	}
	for table, n := range r.Counts {
		values["rows."+table] = strconv.Itoa(n)
	}
	return values
}

// SaveMetadata records the run description in the row store.
func SaveMetadata(ctx context.Context, q Querier, info RunInfo) error {
	// Create table if it doesn't exist
	_, err := q.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	for key, value := range info.Values() {
		_, err := q.Exec(ctx, `
            INSERT INTO rentalgen_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Uint64("seed", info.Seed).
		Int("years", info.Years).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `
        SELECT value FROM rentalgen_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, q Querier) (map[string]string, error) {
	rows, err := q.Query(ctx, `SELECT key, value FROM rentalgen_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
