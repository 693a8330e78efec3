//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etl extracts the rental row store, reshapes it into a star
// schema and loads the result into a PostgreSQL warehouse.
package etl

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/store"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Snapshot is a full copy of the six row store tables.
type Snapshot struct {
	Branches   []rental.Branch
	Clients    []rental.Client
	Vehicles   []rental.Vehicle
	Locations  []rental.Location
	Entretiens []rental.Entretien
	Factures   []rental.Facture
}

// Datasets returns the snapshot tables in row store order.
func (s *Snapshot) Datasets() []table.Dataset {
	return []table.Dataset{
		table.NewSet(store.Branches, s.Branches),
		table.NewSet(store.Clients, s.Clients),
		table.NewSet(store.Vehicles, s.Vehicles),
		table.NewSet(store.Locations, s.Locations),
		table.NewSet(store.Entretiens, s.Entretiens),
		table.NewSet(store.Factures, s.Factures),
	}
}

func selectSQL[T any](schema *table.Schema[T]) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", schema.ColumnList(), schema.Name, schema.Key)
}

func extractTable[T any](ctx context.Context, db store.DB, schema *table.Schema[T]) ([]T, error) {
	rows, err := db.Query(ctx, selectSQL(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", schema.Name, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", schema.Name, err)
	}

	logging.Debug().Str("table", schema.Name).Int("rows", len(items)).Msg("Extracted table")
	return items, nil
}

// Extract reads every row store table ordered by primary key. Any failure
// aborts the extraction and no partial snapshot is returned.
func Extract(ctx context.Context, db store.DB) (*Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	if s.Branches, err = extractTable(ctx, db, store.Branches); err != nil {
		return nil, err
	}
	if s.Clients, err = extractTable(ctx, db, store.Clients); err != nil {
		return nil, err
	}
	if s.Vehicles, err = extractTable(ctx, db, store.Vehicles); err != nil {
		return nil, err
	}
	if s.Locations, err = extractTable(ctx, db, store.Locations); err != nil {
		return nil, err
	}
	if s.Entretiens, err = extractTable(ctx, db, store.Entretiens); err != nil {
		return nil, err
	}
	if s.Factures, err = extractTable(ctx, db, store.Factures); err != nil {
		return nil, err
	}

	log := logging.Stage("extract")
	log.Info().
		Int("branches", len(s.Branches)).
		Int("clients", len(s.Clients)).
		Int("vehicles", len(s.Vehicles)).
		Int("locations", len(s.Locations)).
		Int("entretiens", len(s.Entretiens)).
		Int("factures", len(s.Factures)).
		Msg("Extraction complete")
	return &s, nil
}
