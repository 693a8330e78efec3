//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the ETL pipeline.
// Run with: go test -tags=integration ./internal/etl/...
// Set RENTALGEN_TEST_CONN to override the connection string.

package etl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-rentalgen/internal/archive"
	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/store"
	"github.com/pgEdge/pgedge-rentalgen/internal/testutil"
)

func TestPipelineIntegration(t *testing.T) {
	pool, connStr := testutil.NewTestDB(t, "etl")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	raw := simulatedSnapshot(t)
	require.NoError(t, store.CreateSchema(ctx, pool))
	_, err := store.NewSink(pool, datagen.DefaultBatchConfig()).Write(ctx, &rental.Dataset{
		Branches:   raw.Branches,
		Clients:    raw.Clients,
		Vehicles:   raw.Vehicles,
		Locations:  raw.Locations,
		Entretiens: raw.Entretiens,
		Factures:   raw.Factures,
	})
	require.NoError(t, err)

	warehouse, err := OpenWarehouse(ctx, connStr)
	require.NoError(t, err)
	defer CloseWarehouse(warehouse)

	dir := t.TempDir()
	w := archive.NewWithClient(archive.Config{Dir: dir}, nil)
	p := &Pipeline{
		Source:  pool,
		Loader:  NewLoader(warehouse, LoaderConfig{Schema: "location_test", BatchSize: 100}, w),
		Archive: w,
	}

	report, err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, report.Loaded, 8)
	assert.Len(t, report.Snapshot.Locations, len(raw.Locations))

	for _, ds := range report.Star.Datasets() {
		var count int
		err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM location_test."+ds.Name()).Scan(&count)
		require.NoError(t, err, ds.Name())
		assert.Equal(t, ds.Len(), count, ds.Name())

		for _, stage := range []archive.Stage{archive.Silver, archive.Gold} {
			n, err := archive.RowCount(archive.Path(dir, stage, ds.Name()))
			require.NoError(t, err)
			assert.Equal(t, int64(ds.Len()), n)
		}
	}
	for _, ds := range report.Snapshot.Datasets() {
		n, err := archive.RowCount(archive.Path(dir, archive.Bronze, ds.Name()))
		require.NoError(t, err)
		assert.Equal(t, int64(ds.Len()), n)
	}

	var orphanDates int
	err = pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM location_test.fact_location f
        LEFT JOIN location_test.dim_date d ON d.date_key = f.date_key_fin
        WHERE d.date_key IS NULL`).Scan(&orphanDates)
	require.NoError(t, err)
	assert.Zero(t, orphanDates)

	// A second run replaces the tables rather than appending.
	_, err = p.Run(ctx)
	require.NoError(t, err)
	var rentals int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM location_test.fact_location").Scan(&rentals))
	assert.Equal(t, len(raw.Locations), rentals)
}
