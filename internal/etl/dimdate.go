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

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// LabelDate formats t as "02 janvier 2006".
func LabelDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// GenerateDimDate returns one row per calendar day from first to last
// inclusive.
func GenerateDimDate(first, last time.Time) []DimDate {
	first = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	last = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)

	var rows []DimDate
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		rows = append(rows, DimDate{
			DateKey:      DateKey(d),
			DateComplete: d,
			Day:          int32(d.Day()),
			Month:        int32(d.Month()),
			Year:         int32(d.Year()),
			Quarter:      int32((d.Month()-1)/3 + 1),
			DayOfWeek:    d.Weekday().String(),
			LabelDate:    LabelDate(d),
		})
	}
	return rows
}

// BuildDimDate spans the earliest start key to the latest end key of the
// rental facts. It returns no rows when there are no rentals.
func BuildDimDate(facts []FactLocation) ([]DimDate, error) {
	if len(facts) == 0 {
		return nil, nil
	}

	lo, hi := facts[0].DateKeyDebut, facts[0].DateKeyFin
	for _, f := range facts {
		lo = min(lo, f.DateKeyDebut, f.DateKeyFin)
		hi = max(hi, f.DateKeyDebut, f.DateKeyFin)
	}

	first, err := ParseDateKey(lo)
	if err != nil {
		return nil, err
	}
	last, err := ParseDateKey(hi)
	if err != nil {
		return nil, err
	}
	return GenerateDimDate(first, last), nil
}
