package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction = "production"
	devAPIBaseURL = "http://localhost:8000"
	defaultDotEnv = ".env"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	OpsPort   string `env:"OPS_PORT,   default=9090"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Backend BackendConfig
	Storage StorageConfig
	Sync    SyncConfig

	// LoginRateLimit is the number of login submissions accepted per second
	// per client address.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=5"`
}

type BackendConfig struct {
	// APIURL overrides API base resolution when set.
	APIURL string `env:"SAMARTH_API_URL"`
	// PublicOrigin is the origin the console is served from; relative API
	// paths resolve against it in production.
	PublicOrigin string        `env:"PUBLIC_ORIGIN"`
	Timeout      time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=file"`
	Path   string `env:"STORAGE_PATH,   default=.samarth/session.json"`

	Redis RedisConfig
	Mongo MongoConfig
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,   default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,     default=0"`
	Prefix   string `env:"REDIS_PREFIX, default=samarth:"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=samarth_console"`
	Collection string `env:"MONGO_COLLECTION, default=console_state"`
}

type SyncConfig struct {
	Workers int `env:"SYNC_WORKERS, default=4"`
}

// Load reads a .env file when one exists, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(defaultDotEnv)
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "file", "redis", "mongo", "memory":
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.IsProduction() && c.Backend.APIURL == "" && c.Backend.PublicOrigin == "" {
		return fmt.Errorf("config: PUBLIC_ORIGIN is required in production when SAMARTH_API_URL is unset")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// APIBase returns the base URL every backend path is appended to.
//
//	SAMARTH_API_URL set → that URL
//	production          → "" (same origin as the console)
//	otherwise           → http://localhost:8000
func (c *Config) APIBase() string {
	if c.Backend.APIURL != "" {
		return strings.TrimRight(c.Backend.APIURL, "/")
	}
	if c.IsProduction() {
		return ""
	}
	return devAPIBaseURL
}

// BackendURL is APIBase made absolute for server-side calls. A same-origin
// base resolves against PUBLIC_ORIGIN.
func (c *Config) BackendURL() string {
	if base := c.APIBase(); base != "" {
		return base
	}
	return strings.TrimRight(c.Backend.PublicOrigin, "/")
}
