//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store persists generated rental data to the PostgreSQL row store.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is an interface that both *pgxpool.Pool and *pgx.Conn satisfy.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema SQL for the operational row store.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS branches (
    branch_id    BIGINT PRIMARY KEY,
    nom          VARCHAR(100) NOT NULL,
    localisation VARCHAR(100) NOT NULL,
    latitude     DOUBLE PRECISION,
    longitude    DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS clients (
    client_id     BIGINT PRIMARY KEY,
    nom           VARCHAR(100) NOT NULL,
    prenom        VARCHAR(100) NOT NULL,
    email         VARCHAR(255) NOT NULL,
    telephone     VARCHAR(50),
    adresse       TEXT,
    date_creation TIMESTAMP NOT NULL,
    branch_id     BIGINT NOT NULL REFERENCES branches(branch_id)
);

CREATE TABLE IF NOT EXISTS vehicles (
    vehicule_id          BIGINT PRIMARY KEY,
    type                 VARCHAR(20) NOT NULL,
    marque               VARCHAR(50) NOT NULL,
    modele               VARCHAR(100) NOT NULL,
    annee_fabrication    INTEGER NOT NULL,
    immatriculation      VARCHAR(20) NOT NULL,
    statut               VARCHAR(20) NOT NULL,
    branch_id            BIGINT NOT NULL REFERENCES branches(branch_id),
    date_mise_en_service TIMESTAMP NOT NULL,
    kilometrage          BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS locations (
    location_id   BIGINT PRIMARY KEY,
    client_id     BIGINT NOT NULL REFERENCES clients(client_id),
    vehicule_id   BIGINT NOT NULL REFERENCES vehicles(vehicule_id),
    date_debut    TIMESTAMP NOT NULL,
    date_fin      TIMESTAMP NOT NULL,
    prix_total    NUMERIC(12,2) NOT NULL,
    statut        VARCHAR(20) NOT NULL,
    mode_paiement VARCHAR(20) NOT NULL
);

CREATE TABLE IF NOT EXISTS entretiens (
    entretien_id   BIGINT PRIMARY KEY,
    vehicule_id    BIGINT NOT NULL REFERENCES vehicles(vehicule_id),
    date_entretien TIMESTAMP NOT NULL,
    type_entretien VARCHAR(20) NOT NULL,
    description    TEXT,
    cout           NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS factures (
    facture_id      BIGINT PRIMARY KEY,
    location_id     BIGINT NOT NULL REFERENCES locations(location_id),
    date_facture    TIMESTAMP NOT NULL,
    montant         NUMERIC(12,2) NOT NULL,
    mode_paiement   VARCHAR(20),
    statut_paiement VARCHAR(20) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_branch ON clients(branch_id);
CREATE INDEX IF NOT EXISTS idx_vehicles_branch ON vehicles(branch_id);
CREATE INDEX IF NOT EXISTS idx_locations_vehicule ON locations(vehicule_id);
CREATE INDEX IF NOT EXISTS idx_locations_date_debut ON locations(date_debut);
CREATE INDEX IF NOT EXISTS idx_factures_location ON factures(location_id);
`

// Drop schema SQL
const dropSchemaSQL = `
DROP TABLE IF EXISTS factures CASCADE;
DROP TABLE IF EXISTS entretiens CASCADE;
DROP TABLE IF EXISTS locations CASCADE;
DROP TABLE IF EXISTS vehicles CASCADE;
DROP TABLE IF EXISTS clients CASCADE;
DROP TABLE IF EXISTS branches CASCADE;
`

// CreateSchema creates the row store tables if they do not exist.
func CreateSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops the row store tables.
func DropSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
