// Package config loads wallbuilder configuration from a TOML file with
// environment overrides.
//
// Precedence, lowest to highest: built-in defaults, a .env file in the
// working directory (loaded into the process environment, never required),
// the TOML config file, then WALLBUILDER_* environment variables.
package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/store"
)

// Config is the full wallbuilder configuration.
type Config struct {
	Server     ServerConfig      `toml:"server"`
	Store      StoreConfig       `toml:"store"`
	Storefront StorefrontConfig  `toml:"storefront"`
	Analytics  AnalyticsConfig   `toml:"analytics"`
	Quantity   QuantityConfig    `toml:"quantity"`
	Redirects  map[string]string `toml:"material_redirects"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is one of memory, file, redis, mongo, postgres.
	Backend string `toml:"backend"`

	Path string `toml:"path"` // file backend

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	PostgresDSN string `toml:"postgres_dsn"`
}

// StorefrontConfig configures the shop platform client.
type StorefrontConfig struct {
	BaseURL  string   `toml:"base_url"`
	CacheDir string   `toml:"cache_dir"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Duration decodes TOML strings like "15m" into a time.Duration.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AnalyticsConfig lists the collector endpoints events are forwarded to.
// An empty list disables tracking.
type AnalyticsConfig struct {
	Endpoints []string `toml:"endpoints"`
}

// QuantityConfig caps cart quantities per product id.
type QuantityConfig struct {
	Limits map[string]int `toml:"limits"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "wallbuilder-galleries.json",
		},
		Storefront: StorefrontConfig{
			CacheTTL: Duration(15 * time.Minute),
		},
	}
}

// Load builds the configuration. path may be empty to skip the TOML file; a
// named file that does not exist is an error, so typos surface instead of
// silently running on defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config file %q", path)
		}
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays WALLBUILDER_* environment variables.
func (c *Config) applyEnv() {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("WALLBUILDER_ADDR", &c.Server.Addr)
	set("WALLBUILDER_STORE", &c.Store.Backend)
	set("WALLBUILDER_STORE_PATH", &c.Store.Path)
	set("WALLBUILDER_REDIS_ADDR", &c.Store.RedisAddr)
	set("WALLBUILDER_REDIS_PASSWORD", &c.Store.RedisPassword)
	set("WALLBUILDER_MONGO_URI", &c.Store.MongoURI)
	set("WALLBUILDER_POSTGRES_DSN", &c.Store.PostgresDSN)
	set("WALLBUILDER_SHOP_URL", &c.Storefront.BaseURL)
	set("WALLBUILDER_CACHE_DIR", &c.Storefront.CacheDir)

	if v := os.Getenv("WALLBUILDER_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.RedisDB = db
		}
	}
	if v := os.Getenv("WALLBUILDER_ANALYTICS_ENDPOINTS"); v != "" {
		c.Analytics.Endpoints = splitList(v)
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis", "mongo", "postgres":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Storefront.BaseURL != "" {
		if err := errors.ValidateURL(c.Storefront.BaseURL); err != nil {
			return err
		}
	}
	for _, endpoint := range c.Analytics.Endpoints {
		if err := errors.ValidateURL(endpoint); err != nil {
			return err
		}
	}
	return nil
}

// OpenStore constructs the persistence backend the configuration selects.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(c.Store.Path)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Store.MongoURI,
			Database:   c.Store.MongoDatabase,
			Collection: c.Store.MongoCollection,
		})
	case "postgres":
		return store.NewPostgresStore(ctx, c.Store.PostgresDSN)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", c.Store.Backend)
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
