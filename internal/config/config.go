//-------------------------------------------------------------------------
//
// pgEdge Rental Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-rentalgen.
// Values come from a YAML config file, RENTALGEN_* environment variables
// (optionally seeded from a .env file) and CLI flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-rentalgen/internal/rental"
	"github.com/pgEdge/pgedge-rentalgen/internal/season"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "RENTALGEN"

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Config holds all configuration for pgedge-rentalgen.
type Config struct {
	// Connection is the row store PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Warehouse holds the star schema target for the etl subcommand.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Archive controls the parquet copies written by the etl subcommand.
	Archive ArchiveConfig `mapstructure:"archive"`
}

// GenerateConfig holds configuration for history generation.
type GenerateConfig struct {
	// Years is the length of the simulated window ending today.
	Years int `mapstructure:"years"`

	Branches int `mapstructure:"branches"`
	Clients  int `mapstructure:"clients"`
	Vehicles int `mapstructure:"vehicles"`

	// Seed makes a run reproducible (0 = time-based).
	Seed uint64 `mapstructure:"seed"`

	// BatchSize is the number of rows per INSERT statement.
	BatchSize int `mapstructure:"batch_size"`

	// SeasonProfile names the daily volume profile.
	SeasonProfile string `mapstructure:"season_profile"`

	// Timezone is the timezone simulated days are laid out in.
	Timezone string `mapstructure:"timezone"`

	// ReturnVehicles makes rented vehicles available again once their
	// rental has ended.
	ReturnVehicles bool `mapstructure:"return_vehicles"`

	// DropExisting drops the existing row store schema first.
	DropExisting bool `mapstructure:"drop_existing"`
}

// WarehouseConfig describes the analytical target.
type WarehouseConfig struct {
	// DSN is the warehouse connection string. Empty means the row store.
	DSN string `mapstructure:"dsn"`

	// Schema is the PostgreSQL schema holding the star tables.
	Schema string `mapstructure:"schema"`

	BatchSize int `mapstructure:"batch_size"`
}

// ArchiveConfig describes where parquet archives go.
type ArchiveConfig struct {
	// Dir is the local archive root (empty disables archiving).
	Dir string `mapstructure:"dir"`

	// S3Bucket optionally mirrors every archive file to S3.
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Region string `mapstructure:"s3_region"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Generate: GenerateConfig{
			Years:         5,
			Branches:      20,
			Clients:       100000,
			Vehicles:      10000,
			BatchSize:     1000,
			SeasonProfile: season.DefaultProfile,
			Timezone:      "Local",
		},
		Warehouse: WarehouseConfig{
			Schema:    "location",
			BatchSize: 10000,
		},
		Archive: ArchiveConfig{
			Dir:      "data",
			S3Prefix: "rentals",
		},
	}
}

// setDefaults registers every key with viper so AutomaticEnv can resolve
// it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("connection", d.Connection)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("generate.years", d.Generate.Years)
	v.SetDefault("generate.branches", d.Generate.Branches)
	v.SetDefault("generate.clients", d.Generate.Clients)
	v.SetDefault("generate.vehicles", d.Generate.Vehicles)
	v.SetDefault("generate.seed", d.Generate.Seed)
	v.SetDefault("generate.batch_size", d.Generate.BatchSize)
	v.SetDefault("generate.season_profile", d.Generate.SeasonProfile)
	v.SetDefault("generate.timezone", d.Generate.Timezone)
	v.SetDefault("generate.return_vehicles", d.Generate.ReturnVehicles)
	v.SetDefault("generate.drop_existing", d.Generate.DropExisting)

	v.SetDefault("warehouse.dsn", d.Warehouse.DSN)
	v.SetDefault("warehouse.schema", d.Warehouse.Schema)
	v.SetDefault("warehouse.batch_size", d.Warehouse.BatchSize)

	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.s3_bucket", d.Archive.S3Bucket)
	v.SetDefault("archive.s3_region", d.Archive.S3Region)
	v.SetDefault("archive.s3_prefix", d.Archive.S3Prefix)
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-rentalgen.yaml
// 3. ~/.config/pgedge-rentalgen/pgedge-rentalgen.yaml
//
// Environment variables use the RENTALGEN_ prefix with dots replaced by
// underscores, e.g. RENTALGEN_WAREHOUSE_DSN. A .env file in the working
// directory is loaded first when present; envFile names a different one
// that must exist.
func Load(configFile, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("pgedge-rentalgen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-rentalgen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("error reading env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env: %w", err)
	}
	return nil
}

// WarehouseDSN returns the warehouse connection string, falling back to
// the row store connection.
func (c *Config) WarehouseDSN() string {
	if c.Warehouse.DSN != "" {
		return c.Warehouse.DSN
	}
	return c.Connection
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	g := c.Generate
	if g.Years < 1 {
		return fmt.Errorf("years must be at least 1")
	}
	if g.Branches < 1 || g.Branches > len(rental.Cities) {
		return fmt.Errorf("branches must be between 1 and %d", len(rental.Cities))
	}
	if g.Clients < 0 {
		return fmt.Errorf("clients must be non-negative")
	}
	if g.Vehicles < 0 {
		return fmt.Errorf("vehicles must be non-negative")
	}
	if g.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if _, err := season.Get(g.SeasonProfile, g.Timezone); err != nil {
		return err
	}
	return nil
}

// ValidateETL checks configuration required for the etl command.
func (c *Config) ValidateETL() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !identifierPattern.MatchString(c.Warehouse.Schema) {
		return fmt.Errorf("warehouse schema %q is not a valid identifier", c.Warehouse.Schema)
	}
	if c.Warehouse.BatchSize < 1 {
		return fmt.Errorf("warehouse batch_size must be at least 1")
	}
	if c.Archive.S3Bucket != "" && c.Archive.Dir == "" {
		return fmt.Errorf("archive dir is required when s3_bucket is set")
	}
	return nil
}
