//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package season implements seasonality profiles that scale the daily rental
// volume of the historical simulation.
package season

import (
	"fmt"
	"sort"
	"time"
)

// Profile defines the interface for seasonality profiles.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Factor returns the deterministic volume multiplier for the given day.
	// The simulator adds its own noise on top.
	Factor(t time.Time) float64
}

var registry = make(map[string]func(tz *time.Location) Profile)

// DefaultProfile is the profile used when none is configured.
const DefaultProfile = "year-end"

// Register adds a profile constructor to the registry.
func Register(name string, constructor func(tz *time.Location) Profile) {
	registry[name] = constructor
}

// Get retrieves a profile by name with the specified timezone.
func Get(name, timezone string) (Profile, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown season profile: %s", name)
	}

	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	return constructor(loc), nil
}

// LoadLocation resolves a timezone name; "" and "Local" mean time.Local.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// List returns all registered profile names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("year-end", NewYearEnd)
	Register("flat", NewFlat)
	Register("weekend", NewWeekend)
}
