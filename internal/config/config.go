// Package config loads graphdb's server configuration from a YAML
// base file overlaid by environment variables (loader.go's layered
// "defaults -> file -> environment" model), and watches the file for
// hot reload in development (watcher.go).
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the server, its admin HTTP surface, and
// its AWS-backed stores need at startup.
type Config struct {
	Environment string `yaml:"environment"`

	ListenAddr  string `yaml:"listen_addr"`
	AdminAddr   string `yaml:"admin_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	AWSRegion       string `yaml:"aws_region"`
	SnapshotTable   string `yaml:"snapshot_table"`
	ConnectionTable string `yaml:"connection_table"`
	EventBusName    string `yaml:"event_bus_name"`

	IndexMaxEntries int     `yaml:"index_max_entries"`
	IndexAdmitRate  float64 `yaml:"index_admit_rate"`

	SnapshotPath     string `yaml:"snapshot_path"`
	SnapshotInterval int     `yaml:"snapshot_interval_seconds"`

	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	SupabaseURL string `yaml:"supabase_url"`
	SupabaseKey string `yaml:"supabase_key"`

	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	LogLevel string `yaml:"log_level"`

	// LoadedFrom records which sources contributed (defaults, file
	// path, "environment"), surfaced on /admin/config for diagnostics.
	LoadedFrom []string `yaml:"-"`
}

func defaultConfig() *Config {
	return &Config{
		Environment:      "development",
		ListenAddr:       ":7070",
		AdminAddr:        ":8080",
		MetricsAddr:      ":9090",
		AWSRegion:        "us-east-1",
		SnapshotTable:    "graphdb-snapshots",
		ConnectionTable:  "graphdb-connections",
		EventBusName:     "graphdb-events",
		IndexMaxEntries:  128,
		IndexAdmitRate:   0.2,
		SnapshotPath:     "./data/snapshot.bin",
		SnapshotInterval: 300,
		JWTIssuer:        "graphdb",
		EnableMetrics:    true,
		EnableTracing:    false,
		EnableCORS:       true,
		LogLevel:         "info",
	}
}

// Load reads path (if present) as a YAML overlay on top of
// defaultConfig, then applies environment variable overrides, and
// validates the result (loader.go's load order, simplified to a
// single file layer since graphdb has no per-environment overlay
// files).
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "defaults")

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: open %s: %w", path, err)
			}
		} else {
			defer f.Close()
			if err := decodeYAML(f, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.LoadedFrom = append(cfg.LoadedFrom, path)
		}
	}

	applyEnv(cfg)
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	return yaml.NewDecoder(r).Decode(cfg)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Environment, "GRAPHDB_ENV")
	setString(&cfg.ListenAddr, "GRAPHDB_LISTEN_ADDR")
	setString(&cfg.AdminAddr, "GRAPHDB_ADMIN_ADDR")
	setString(&cfg.MetricsAddr, "GRAPHDB_METRICS_ADDR")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.SnapshotTable, "GRAPHDB_SNAPSHOT_TABLE")
	setString(&cfg.ConnectionTable, "GRAPHDB_CONNECTION_TABLE")
	setString(&cfg.EventBusName, "GRAPHDB_EVENT_BUS_NAME")
	setString(&cfg.SnapshotPath, "GRAPHDB_SNAPSHOT_PATH")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.SupabaseURL, "SUPABASE_URL")
	setString(&cfg.SupabaseKey, "SUPABASE_SERVICE_ROLE_KEY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setInt(&cfg.IndexMaxEntries, "GRAPHDB_INDEX_MAX_ENTRIES")
	setInt(&cfg.SnapshotInterval, "GRAPHDB_SNAPSHOT_INTERVAL_SECONDS")
	setBool(&cfg.EnableMetrics, "ENABLE_METRICS")
	setBool(&cfg.EnableTracing, "ENABLE_TRACING")
	setBool(&cfg.EnableCORS, "ENABLE_CORS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1" || v == "yes"
	}
}

// Validate enforces the invariants that matter once an environment is
// "production": secrets and table names must be explicit rather than
// falling back to defaults meant for local development.
func (c *Config) Validate() error {
	if strings.EqualFold(c.Environment, "production") {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.SnapshotTable == "" {
			return fmt.Errorf("snapshot_table is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("event_bus_name is required")
		}
	}
	if c.IndexMaxEntries <= 0 {
		return fmt.Errorf("index_max_entries must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Environment, "development") }
func (c *Config) IsProduction() bool  { return strings.EqualFold(c.Environment, "production") }
