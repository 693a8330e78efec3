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
	"fmt"
	"time"
)

// DateKey returns the YYYYMMDD integer key of the calendar day of t. Every
// date key in the star schema is derived through this function.
func DateKey(t time.Time) int32 {
	return int32(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseDateKey converts a YYYYMMDD key back to a UTC midnight.
func ParseDateKey(key int32) (time.Time, error) {
	y, m, d := int(key/10000), int(key/100%100), int(key%100)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("invalid date key %d", key)
	}
	return t, nil
}
