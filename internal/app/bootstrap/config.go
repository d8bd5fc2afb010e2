// internal/app/bootstrap/config.go

// Package bootstrap wires configuration, backends, and the HTTP handler
// together at startup.
package bootstrap

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ATRIUM_"

// Config is the full application configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (ATRIUM_HTTP_ADDR, ATRIUM_JWT_SECRET, ...)
//  2. YAML config file
//  3. Defaults
type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	Mongo       MongoConfig       `koanf:"mongo"`
	JWT         JWTConfig         `koanf:"jwt"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Qdrant      QdrantConfig      `koanf:"qdrant"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Admin       AdminConfig       `koanf:"admin"`
	Log         LogConfig         `koanf:"log"`
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MongoConfig holds document store settings. An empty URI selects the
// in-memory stores, which is the mode used in development and tests.
type MongoConfig struct {
	URI         string `koanf:"uri"`
	Database    string `koanf:"database"`
	MaxPoolSize uint64 `koanf:"max_pool_size"`
	MinPoolSize uint64 `koanf:"min_pool_size"`
}

// JWTConfig holds token issuing settings.
type JWTConfig struct {
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer"`
	Audience string        `koanf:"audience"`
	TTL      time.Duration `koanf:"ttl"`
}

// CredentialsConfig holds password hashing settings.
type CredentialsConfig struct {
	SecretKey  string `koanf:"secret_key"`
	Iterations int    `koanf:"iterations"`
}

// QdrantConfig holds hybrid search backend settings. An empty host selects
// the in-memory search engine.
type QdrantConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	UseTLS        bool   `koanf:"use_tls"`
	APIKey        string `koanf:"api_key"`
	Collection    string `koanf:"collection"`
	VectorField   string `koanf:"vector_field"`
	VectorEnabled bool   `koanf:"vector_enabled"`
	K             int    `koanf:"k"`
}

// EmbeddingsConfig holds local embedding model settings.
type EmbeddingsConfig struct {
	Model    string `koanf:"model"`
	CacheDir string `koanf:"cache_dir"`
}

// AdminConfig controls platform admin seeding at startup.
type AdminConfig struct {
	Email string `koanf:"email"`
	Name  string `koanf:"name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Env selects the zap preset: "prod" or "dev".
	Env string `koanf:"env"`
}

// LoadConfig loads the YAML file at configPath (if non-empty and present),
// applies ATRIUM_* environment overrides, then fills defaults.
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	// ATRIUM_JWT_SECRET -> jwt.secret, ATRIUM_HTTP_SHUTDOWN_TIMEOUT ->
	// http.shutdown_timeout. Split on the first underscore after the
	// prefix; the remainder keeps its underscores.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "atrium"
	}
	if cfg.Mongo.MaxPoolSize == 0 {
		cfg.Mongo.MaxPoolSize = 100
	}
	if cfg.Mongo.MinPoolSize == 0 {
		cfg.Mongo.MinPoolSize = 10
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "atrium"
	}
	if cfg.JWT.Audience == "" {
		cfg.JWT.Audience = "atrium-api"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = time.Hour
	}

	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = 6334
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "atrium_items"
	}
	if cfg.Qdrant.K == 0 {
		cfg.Qdrant.K = 50
	}

	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@atrium.local"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Platform Admin"
	}

	if cfg.Log.Env == "" {
		cfg.Log.Env = "dev"
	}
}

// Validate enforces the invariants startup depends on.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Credentials.SecretKey == "" {
		return fmt.Errorf("credentials.secret_key is required")
	}
	if c.Mongo.URI != "" && !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
		return fmt.Errorf("mongo.uri must start with mongodb:// or mongodb+srv://")
	}
	return nil
}
