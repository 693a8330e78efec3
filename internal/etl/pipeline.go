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
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-rentalgen/internal/archive"
	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/store"
)

// Pipeline runs extract, transform and load in sequence, archiving each
// stage's output.
type Pipeline struct {
	Source  store.DB
	Loader  *Loader
	Archive *archive.Writer
}

// Report summarizes a pipeline run.
type Report struct {
	Snapshot *Snapshot
	Star     *StarSchema
	Loaded   []LoadResult
	Duration time.Duration
}

// Run executes the pipeline. It stops at the first failing stage.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	logging.Info().Str("run_id", p.Archive.RunID()).Msg("Starting ETL")

	raw, err := Extract(ctx, p.Source)
	if err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}
	report.Snapshot = raw
	if err := p.Archive.Write(ctx, archive.Bronze, raw.Datasets()...); err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}

	star, err := Transform(raw)
	if err != nil {
		return report, fmt.Errorf("transform: %w", err)
	}
	report.Star = star
	if err := p.Archive.Write(ctx, archive.Silver, star.Datasets()...); err != nil {
		return report, fmt.Errorf("transform: %w", err)
	}

	report.Loaded, err = p.Loader.Load(ctx, star)
	if err != nil {
		return report, fmt.Errorf("load: %w", err)
	}

	report.Duration = time.Since(start)
	logging.Info().
		Int("tables", len(report.Loaded)).
		Dur("duration", report.Duration).
		Msg("ETL complete")
	return report, nil
}
