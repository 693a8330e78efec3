//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package archive

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Metadata returns the parquet-go CSV writer schema for columns.
func Metadata(columns []table.Column) []string {
	md := make([]string, len(columns))
	for i, c := range columns {
		var typ string
		switch c.Kind {
		case table.Int64:
			typ = "type=INT64"
		case table.Int32:
			typ = "type=INT32"
		case table.Float64:
			typ = "type=DOUBLE"
		case table.String:
			typ = "type=BYTE_ARRAY, convertedtype=UTF8"
		case table.Timestamp:
			typ = "type=INT64, convertedtype=TIMESTAMP_MILLIS"
		case table.Date:
			typ = "type=INT32, convertedtype=DATE"
		}
		md[i] = fmt.Sprintf("name=%s, %s", c.Name, typ)
		if c.Nullable {
			md[i] += ", repetitiontype=OPTIONAL"
		}
	}
	return md
}

// Record converts row values to the Go types the parquet writer expects.
// Nil pointers become nulls in nullable columns.
func Record(columns []table.Column, values []any) ([]any, error) {
	if len(values) != len(columns) {
		return nil, fmt.Errorf("got %d values for %d columns", len(values), len(columns))
	}

	rec := make([]any, len(values))
	for i, c := range columns {
		v := deref(values[i])
		if v == nil {
			if !c.Nullable {
				return nil, fmt.Errorf("column %s: null in non-nullable column", c.Name)
			}
			continue
		}

		converted, err := convert(c.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		rec[i] = converted
	}
	return rec, nil
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	case *int32:
		if p == nil {
			return nil
		}
		return *p
	case *float64:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func convert(kind table.Kind, v any) (any, error) {
	switch kind {
	case table.Int64:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case int:
			return int64(n), nil
		}
	case table.Int32:
		switch n := v.(type) {
		case int32:
			return n, nil
		case int:
			return int32(n), nil
		case int64:
			return int32(n), nil
		}
	case table.Float64:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case table.String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case table.Timestamp:
		if t, ok := v.(time.Time); ok {
			return t.UnixMilli(), nil
		}
	case table.Date:
		if t, ok := v.(time.Time); ok {
			return EpochDays(t), nil
		}
	}
	return nil, fmt.Errorf("cannot store %T as %s", v, kind)
}

// EpochDays returns the calendar date of t as days since 1970-01-01.
func EpochDays(t time.Time) int32 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int32(d.Unix() / 86400)
}
