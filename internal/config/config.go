// ABOUTME: Apnealog configuration management with backend selection.
// ABOUTME: Layers defaults, an optional YAML file, and APNEALOG_ environment variables.

package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/integrity"
	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/sheets"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendYAML     = "yaml"
	BackendBadger   = "badger"
	BackendCharm    = "charm"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists every supported backend.
var Backends = []string{BackendSQLite, BackendYAML, BackendBadger, BackendCharm, BackendPostgres, BackendMemory}

// AppName is used for local data paths and the charm KV database name.
const AppName = "apnealog"

const (
	envPrefix     = "APNEALOG_"
	envConfigPath = "APNEALOG_CONFIG"
)

// Config stores apnealog configuration.
type Config struct {
	// Backend selects the storage backend. Defaults to sqlite.
	Backend string `koanf:"backend" yaml:"backend,omitempty"`

	// DataDir is the root directory for local backends.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/apnealog.
	DataDir string `koanf:"data_dir" yaml:"data_dir,omitempty"`

	// Location identifies the sheet document holding the four tables.
	Location string `koanf:"location" yaml:"location,omitempty"`

	Tables storage.Tables `koanf:"tables" yaml:"tables,omitempty"`

	// CacheTTL is a Go duration string. "0" disables the table cache.
	CacheTTL string `koanf:"cache_ttl" yaml:"cache_ttl,omitempty"`

	LogLevel string `koanf:"log_level" yaml:"log_level,omitempty"`

	PostgresURL string `koanf:"postgres_url" yaml:"postgres_url,omitempty"`
	CharmHost   string `koanf:"charm_host" yaml:"charm_host,omitempty"`

	Kafka KafkaConfig `koanf:"kafka" yaml:"kafka,omitempty"`
}

// KafkaConfig enables change events when Brokers is set.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers" yaml:"brokers,omitempty"`
	Topic   string   `koanf:"topic" yaml:"topic,omitempty"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		Location: "club",
		Tables:   storage.DefaultTables(),
		CacheTTL: storage.DefaultCacheTTL.String(),
		LogLevel: "warn",
		Kafka:    KafkaConfig{Topic: "apnealog.changes"},
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLocation returns the sheet location, defaulting to "club".
func (c *Config) GetLocation() string {
	if c.Location == "" {
		return "club"
	}
	return c.Location
}

// GetCacheTTL parses CacheTTL. Blank means the default.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	if strings.TrimSpace(c.CacheTTL) == "" {
		return storage.DefaultCacheTTL, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("parse cache_ttl: %w", err)
	}
	return d, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	known := false
	for _, b := range Backends {
		if c.GetBackend() == b {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.GetBackend() == BackendPostgres && c.PostgresURL == "" {
		return fmt.Errorf("backend postgres requires postgres_url")
	}
	return nil
}

// DataDir returns the default data directory under XDG_DATA_HOME.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenTransport opens the configured backend.
func (c *Config) OpenTransport(ctx context.Context) (sheets.Transport, error) {
	dataDir := c.GetDataDir()

	switch c.GetBackend() {
	case BackendSQLite:
		return sheets.OpenSQLite(filepath.Join(dataDir, AppName+".db"))
	case BackendYAML:
		return sheets.OpenYAMLFiles(filepath.Join(dataDir, "tables"))
	case BackendBadger:
		return sheets.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return sheets.OpenCharm(AppName, c.CharmHost)
	case BackendPostgres:
		if c.PostgresURL == "" {
			return nil, fmt.Errorf("backend postgres requires postgres_url")
		}
		return sheets.OpenPostgres(ctx, c.PostgresURL)
	case BackendMemory:
		return sheets.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// OpenRepositories opens the backend and binds the four collections to it.
func (c *Config) OpenRepositories(ctx context.Context, opts ...storage.Option) (*storage.Repositories, error) {
	ttl, err := c.GetCacheTTL()
	if err != nil {
		return nil, err
	}
	transport, err := c.OpenTransport(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", c.GetBackend(), err)
	}
	opts = append([]storage.Option{storage.WithCacheTTL(ttl)}, opts...)
	store := storage.NewTableStore(transport, opts...)
	return storage.NewRepositories(store, c.GetLocation(), c.Tables), nil
}

// NewPublisher returns a Kafka publisher when brokers are configured.
func (c *Config) NewPublisher() integrity.Publisher {
	if len(c.Kafka.Brokers) == 0 {
		return integrity.NoopPublisher{}
	}
	topic := c.Kafka.Topic
	if topic == "" {
		topic = Default().Kafka.Topic
	}
	return integrity.NewKafkaPublisher(c.Kafka.Brokers, topic)
}

// NewLogger builds a logger at the configured level writing to w.
func (c *Config) NewLogger(w io.Writer) (logger.Logger, error) {
	level := c.LogLevel
	if level == "" {
		level = Default().LogLevel
	}
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logger.New(w, lvl), nil
}

// GetConfigPath returns the config file path. APNEALOG_CONFIG overrides it.
func GetConfigPath() string {
	if path := os.Getenv(envConfigPath); path != "" {
		return path
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, AppName, "config.yaml")
}

// Load builds a Config by layering, lowest precedence first: defaults, the
// YAML config file if present, then APNEALOG_ environment variables. Nested
// keys use a double underscore, e.g. APNEALOG_TABLES__RECORDS.
func Load() (*Config, error) {
	k := koanf.New(".")

	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk as YAML.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
