// Package config resolves runtime settings from a YAML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr     = "0.0.0.0:8080"
	DefaultDriver   = "sqlite"
	DefaultDSN      = "./data/omics.db"
	DefaultLogLevel = "info"
	DefaultRegion   = "us-east-1"
)

type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type Config struct {
	Addr     string `yaml:"addr"`
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	LogLevel string `yaml:"log_level"`
	S3       S3     `yaml:"s3"`

	// DotenvLoaded reports whether a .env file was found.
	DotenvLoaded bool `yaml:"-"`
}

// Load reads the optional YAML file named by OMICS_CONFIG (or path, when
// non-empty), then a .env file, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:     DefaultAddr,
		DBDriver: DefaultDriver,
		DBDSN:    DefaultDSN,
		LogLevel: DefaultLogLevel,
		S3:       S3{Region: DefaultRegion},
	}

	cfg.DotenvLoaded = godotenv.Load() == nil

	if path == "" {
		path = os.Getenv("OMICS_CONFIG")
	}
	if path != "" {
		if err := cfg.readYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readYAML(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "OMICS_ADDR")
	setString(&c.DBDriver, "OMICS_DB_DRIVER")
	setString(&c.DBDSN, "OMICS_DB_DSN")
	setString(&c.LogLevel, "OMICS_LOG_LEVEL")
	setString(&c.S3.Bucket, "OMICS_S3_BUCKET")
	setString(&c.S3.Region, "OMICS_S3_REGION")
	setString(&c.S3.Endpoint, "OMICS_S3_ENDPOINT")
	if v, ok := os.LookupEnv("OMICS_S3_PATH_STYLE"); ok {
		c.S3.PathStyle = strings.EqualFold(v, "true")
	}
}

// Validate rejects settings the store cannot open with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unsupported db driver %q (want sqlite or pgx)", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("db dsn is empty")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
