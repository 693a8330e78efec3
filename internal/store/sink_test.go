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
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-rentalgen/internal/datagen"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// recordingDB captures executed statements and reports every row inserted
// unless the statement targets a table listed in fail.
type recordingDB struct {
	statements []string
	argCounts  []int
	fail       string
}

func (d *recordingDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not supported")
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.statements = append(d.statements, sql)
	d.argCounts = append(d.argCounts, len(args))
	if d.fail != "" && strings.HasPrefix(sql, "INSERT INTO "+d.fail+" ") {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	rows := strings.Count(sql, "(") - 2
	return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", rows)), nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *recordingDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestInsertSQL(t *testing.T) {
	got := insertSQL("branches", "branch_id", []string{"branch_id", "nom"}, 2)
	want := "INSERT INTO branches (branch_id, nom) VALUES ($1, $2), ($3, $4) ON CONFLICT (branch_id) DO NOTHING"
	if got != want {
		t.Errorf("insertSQL() =\n%s\nwant\n%s", got, want)
	}
}

func TestBatchRows(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		columns   int
		expected  int
	}{
		{"configured size", 1000, 8, 1000},
		{"parameter limit", 100000, 10, 6553},
		{"unset size", 0, 5, 13107},
		{"negative size", -1, 6, 10922},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchRows(tt.batchSize, tt.columns); got != tt.expected {
				t.Errorf("batchRows(%d, %d) = %d, want %d", tt.batchSize, tt.columns, got, tt.expected)
			}
		})
	}
}

func TestSchemasMatchColumns(t *testing.T) {
	method := "carte"
	now := time.Now()
	checks := []interface{ Validate() error }{
		table.NewSet(Branches, []rental.Branch{{BranchID: 1}}),
		table.NewSet(Clients, []rental.Client{{ClientID: 1, DateCreation: now}}),
		table.NewSet(Vehicles, []rental.Vehicle{{VehiculeID: 1}}),
		table.NewSet(Locations, []rental.Location{{LocationID: 1}}),
		table.NewSet(Entretiens, []rental.Entretien{{EntretienID: 1}}),
		table.NewSet(Factures, []rental.Facture{{FactureID: 1, ModePaiement: &method}}),
	}
	for _, c := range checks {
		if err := c.Validate(); err != nil {
			t.Error(err)
		}
	}
}

func TestBulkInsertBatches(t *testing.T) {
	db := &recordingDB{}
	branches := make([]rental.Branch, 7)
	for i := range branches {
		branches[i] = rental.Branch{BranchID: int64(i + 1), Nom: "Agence", Localisation: "Dakar"}
	}

	inserted, err := BulkInsert(context.Background(), db, Branches, branches,
		datagen.BatchInsertConfig{BatchSize: 3})
	if err != nil {
		t.Fatalf("BulkInsert() error: %v", err)
	}
	if inserted != 7 {
		t.Errorf("inserted = %d, want 7", inserted)
	}

	wantArgs := []int{15, 15, 5}
	if len(db.argCounts) != len(wantArgs) {
		t.Fatalf("statements = %d, want %d", len(db.argCounts), len(wantArgs))
	}
	for i, n := range wantArgs {
		if db.argCounts[i] != n {
			t.Errorf("statement %d args = %d, want %d", i, db.argCounts[i], n)
		}
		if !strings.HasSuffix(db.statements[i], "ON CONFLICT (branch_id) DO NOTHING") {
			t.Errorf("statement %d missing conflict clause: %s", i, db.statements[i])
		}
	}
}

func TestBulkInsertEmpty(t *testing.T) {
	db := &recordingDB{}
	inserted, err := BulkInsert(context.Background(), db, Locations, nil, datagen.DefaultBatchConfig())
	if err != nil || inserted != 0 {
		t.Errorf("BulkInsert(empty) = %d, %v", inserted, err)
	}
	if len(db.statements) != 0 {
		t.Errorf("expected no statements, got %d", len(db.statements))
	}
}

func TestSinkWriteOrderAndAbort(t *testing.T) {
	now := time.Now()
	ds := &rental.Dataset{
		Branches:   []rental.Branch{{BranchID: 1}},
		Clients:    []rental.Client{{ClientID: 1, DateCreation: now}},
		Vehicles:   []rental.Vehicle{{VehiculeID: 1}},
		Locations:  []rental.Location{{LocationID: 1}},
		Entretiens: []rental.Entretien{{EntretienID: 1}},
		Factures:   []rental.Facture{{FactureID: 1}},
	}

	db := &recordingDB{}
	results, err := NewSink(db, datagen.DefaultBatchConfig()).Write(context.Background(), ds)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if len(results) != len(Tables) {
		t.Fatalf("results = %d, want %d", len(results), len(Tables))
	}
	for i, name := range Tables {
		if results[i].Table != name {
			t.Errorf("result %d table = %s, want %s", i, results[i].Table, name)
		}
		if !strings.HasPrefix(db.statements[i], "INSERT INTO "+name+" ") {
			t.Errorf("statement %d = %s, want insert into %s", i, db.statements[i], name)
		}
	}

	db = &recordingDB{fail: TableLocations}
	results, err = NewSink(db, datagen.DefaultBatchConfig()).Write(context.Background(), ds)
	if err == nil {
		t.Fatal("Expected error when locations insert fails")
	}
	if !strings.Contains(err.Error(), TableLocations) {
		t.Errorf("error %q does not name the table", err)
	}
	if len(results) != 3 {
		t.Errorf("results before failure = %d, want 3", len(results))
	}
	if len(db.statements) != 4 {
		t.Errorf("statements = %d, want 4", len(db.statements))
	}
}

func TestTotals(t *testing.T) {
	attempted, inserted := Totals([]WriteResult{
		{Table: TableBranches, Attempted: 20, Inserted: 20},
		{Table: TableClients, Attempted: 500, Inserted: 0},
		{Table: TableLocations, Attempted: 1200, Inserted: 37},
	})
	if attempted != 1720 {
		t.Errorf("attempted = %d, want 1720", attempted)
	}
	if inserted != 57 {
		t.Errorf("inserted = %d, want 57", inserted)
	}

	if a, i := Totals(nil); a != 0 || i != 0 {
		t.Errorf("Totals(nil) = %d, %d, want 0, 0", a, i)
	}
}

func TestSinkWriteLogsEachTableOnce(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	ds := &rental.Dataset{
		Branches: []rental.Branch{{BranchID: 1}},
		Clients:  []rental.Client{{ClientID: 1, DateCreation: time.Now()}},
	}
	if _, err := NewSink(&recordingDB{}, datagen.DefaultBatchConfig()).Write(context.Background(), ds); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if n := strings.Count(buf.String(), `"message":"Table written"`); n != len(Tables) {
		t.Errorf("Table written logged %d times, want %d", n, len(Tables))
	}
}
