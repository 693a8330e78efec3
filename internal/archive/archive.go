//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package archive writes pipeline snapshots as parquet files, one file per
// table and stage, optionally mirrored to S3.
package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pgEdge/pgedge-rentalgen/internal/logging"
	"github.com/pgEdge/pgedge-rentalgen/internal/table"
)

// Stage identifies a pipeline checkpoint.
type Stage string

const (
	// Bronze holds raw row store extracts.
	Bronze Stage = "bronze"

	// Silver holds the transformed star schema.
	Silver Stage = "silver"

	// Gold holds the tables as loaded into the warehouse.
	Gold Stage = "gold"
)

// writeParallelism is the number of goroutines parquet-go uses to encode
// row groups.
const writeParallelism = 4

// Config holds archive settings. An empty Dir disables archiving.
type Config struct {
	Dir      string
	S3Bucket string
	S3Region string
	S3Prefix string
}

// ObjectPutter is the subset of the S3 client used for mirroring.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Writer writes datasets for one pipeline run. A nil Writer discards
// everything.
type Writer struct {
	dir    string
	runID  string
	s3     ObjectPutter
	bucket string
	prefix string
}

// New creates a Writer from cfg, loading AWS credentials from the default
// chain when an S3 bucket is configured. It returns nil when archiving is
// disabled.
func New(ctx context.Context, cfg Config) (*Writer, error) {
	if cfg.Dir == "" {
		return nil, nil
	}

	var client ObjectPutter
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a Writer that mirrors to S3 through client when
// cfg names a bucket.
func NewWithClient(cfg Config, client ObjectPutter) *Writer {
	w := &Writer{
		dir:    cfg.Dir,
		runID:  uuid.NewString(),
		prefix: cfg.S3Prefix,
	}
	if cfg.S3Bucket != "" && client != nil {
		w.s3 = client
		w.bucket = cfg.S3Bucket
	}
	return w
}

// RunID returns the identifier grouping this run's S3 objects.
func (w *Writer) RunID() string {
	if w == nil {
		return ""
	}
	return w.runID
}

// Path returns the local file path of a table snapshot.
func Path(dir string, stage Stage, name string) string {
	return filepath.Join(dir, string(stage), name+".parquet")
}

// ObjectKey returns the S3 key of a table snapshot.
func ObjectKey(prefix, runID string, stage Stage, name string) string {
	return path.Join(prefix, runID, string(stage), name+".parquet")
}

// Write archives every dataset under stage.
func (w *Writer) Write(ctx context.Context, stage Stage, sets ...table.Dataset) error {
	if w == nil {
		return nil
	}
	for _, ds := range sets {
		if err := w.WriteTable(ctx, stage, ds); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable archives a single dataset under stage.
func (w *Writer) WriteTable(ctx context.Context, stage Stage, ds table.Dataset) error {
	if w == nil {
		return nil
	}

	file := Path(w.dir, stage, ds.Name())
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := writeParquet(file, ds); err != nil {
		return fmt.Errorf("failed to archive %s/%s: %w", stage, ds.Name(), err)
	}

	logging.Debug().
		Str("stage", string(stage)).
		Str("table", ds.Name()).
		Int("rows", ds.Len()).
		Str("path", file).
		Msg("Archived table")

	if w.s3 != nil {
		if err := w.upload(ctx, file, ObjectKey(w.prefix, w.runID, stage, ds.Name())); err != nil {
			return fmt.Errorf("failed to mirror %s/%s: %w", stage, ds.Name(), err)
		}
	}
	return nil
}

func (w *Writer) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = w.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.apache.parquet"),
	})
	if err != nil {
		return err
	}

	logging.Debug().
		Str("bucket", w.bucket).
		Str("key", key).
		Msg("Uploaded archive")
	return nil
}

func writeParquet(file string, ds table.Dataset) error {
	fw, err := local.NewLocalFileWriter(file)
	if err != nil {
		return err
	}

	pw, err := writer.NewCSVWriter(Metadata(ds.Columns()), fw, writeParallelism)
	if err != nil {
		fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	columns := ds.Columns()
	for i := 0; i < ds.Len(); i++ {
		rec, err := Record(columns, ds.Row(i))
		if err != nil {
			fw.Close()
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := pw.Write(rec); err != nil {
			fw.Close()
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}

// RowCount returns the number of rows stored in a parquet file.
func RowCount(file string) (int64, error) {
	fr, err := local.NewLocalFileReader(file)
	if err != nil {
		return 0, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return 0, err
	}
	defer pr.ReadStop()

	return pr.GetNumRows(), nil
}
