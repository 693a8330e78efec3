//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table describes the column layout of every table the generator
// writes, extracts, archives and loads. A single Schema drives the row-store
// insert statements, the extraction column list and the parquet layout.
package table

import (
	"fmt"
	"strings"
)

// Kind is the logical type of a column.
type Kind int

const (
	Int64 Kind = iota
	Int32
	Float64
	String
	Timestamp
	Date
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column describes a single column.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

// Schema binds a table name and its columns to a row type.
type Schema[T any] struct {
	// Name is the table name, also used for archive file names.
	Name string

	// Key is the primary key column used for conflict handling.
	Key string

	// Columns lists the columns in insertion order.
	Columns []Column

	// Values returns the column values of a row, in Columns order.
	Values func(T) []any
}

// ColumnNames returns the column names in order.
func (s *Schema[T]) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnList returns the comma separated column names.
func (s *Schema[T]) ColumnList() string {
	return strings.Join(s.ColumnNames(), ", ")
}

// Dataset is a named, typed collection of rows that can be archived and
// loaded without knowing its row type.
type Dataset interface {
	// Name returns the table name.
	Name() string

	// Columns returns the column layout.
	Columns() []Column

	// Len returns the number of rows.
	Len() int

	// Row returns the column values of row i.
	Row(i int) []any

	// Model returns a pointer to a zero row, for ORM schema derivation.
	Model() any

	// Records returns a pointer to the underlying row slice, for ORM
	// batch inserts.
	Records() any
}

// Set is a Dataset over a slice of T.
type Set[T any] struct {
	schema *Schema[T]
	rows   []T
}

// NewSet wraps rows with their schema.
func NewSet[T any](schema *Schema[T], rows []T) *Set[T] {
	return &Set[T]{schema: schema, rows: rows}
}

func (s *Set[T]) Name() string      { return s.schema.Name }
func (s *Set[T]) Columns() []Column { return s.schema.Columns }
func (s *Set[T]) Len() int          { return len(s.rows) }
func (s *Set[T]) Row(i int) []any   { return s.schema.Values(s.rows[i]) }
func (s *Set[T]) Model() any        { return new(T) }
func (s *Set[T]) Records() any      { return &s.rows }

// Rows returns the typed rows.
func (s *Set[T]) Rows() []T {
	return s.rows
}

// Validate checks that every row yields exactly one value per column.
func (s *Set[T]) Validate() error {
	for i, r := range s.rows {
		if n := len(s.schema.Values(r)); n != len(s.schema.Columns) {
			return fmt.Errorf("%s: row %d has %d values, expected %d",
				s.schema.Name, i, n, len(s.schema.Columns))
		}
	}
	return nil
}
