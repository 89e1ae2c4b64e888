// Package config loads jsonlens settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/jsonlens/config.toml, or ~/.config/jsonlens/config.toml
// when XDG_CONFIG_HOME is unset. A missing file is not an error; defaults
// apply. Command-line flags override file values.
//
// Example file:
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/jsonlens/docs.db"
//	document = "main"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[log]
//	level = "debug"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/store"
)

const (
	appName  = "jsonlens"
	fileName = "config.toml"
)

// Config is the full configuration.
type Config struct {
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Store selects the document backend.
type Store struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Document string `toml:"document"`

	Redis Redis `toml:"redis"`
	Mongo Mongo `toml:"mongo"`
}

// Redis holds the redis backend connection settings.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo holds the mongo backend connection settings.
type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := "."
	if dir, err := DataDir(); err == nil {
		dataDir = dir
	}
	return Config{
		Store: Store{
			Backend:  store.BackendFile,
			Path:     filepath.Join(dataDir, "document.json"),
			Document: store.DefaultDocumentID,
			Redis:    Redis{Addr: "localhost:6379"},
			Mongo:    Mongo{URI: "mongodb://localhost:27017", Database: store.DefaultMongoDatabase},
		},
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// missing default file yields the defaults, while a missing explicit file is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text into cfg. Keys absent from the text keep their
// current values; unknown keys are rejected.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if !slices.Contains(store.Backends(), strings.ToLower(c.Store.Backend)) {
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend %q is not one of %s",
			c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if err := errors.ValidateDocumentID(c.Store.Document); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.document")
	}
	if strings.EqualFold(c.Store.Backend, store.BackendFile) && c.Store.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.path is required for the file backend")
	}
	if c.Store.Redis.DB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.redis.db must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		return errors.New(errors.ErrCodeInvalidConfig, "log.level %q is not one of %s",
			c.Log.Level, strings.Join(LogLevels, ", "))
	}
	return nil
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Store.Backend,
		DocumentID:    c.Store.Document,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		MongoURI:      c.Store.Mongo.URI,
		MongoDatabase: c.Store.Mongo.Database,
	}
}

// Encode renders cfg as TOML.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return b.String(), nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory (~/.config/jsonlens/ by default).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// DataDir returns the directory for local document data
// (~/.local/share/jsonlens/ by default).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// CacheDir returns the directory for rendered graph artifacts
// (~/.cache/jsonlens/ by default).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
