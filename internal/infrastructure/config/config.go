package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	PageSize  int           `env:"PAGE_SIZE, default=5"`

	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type StoreConfig struct {
	// Driver selects the persistent store: postgres, sqlite or mongo.
	Driver     string `env:"STORE_DRIVER, default=postgres"`
	DSN        string `env:"DATABASE_DSN, default=host=localhost user=blog password=blog dbname=blog port=5432 sslmode=disable"`
	SQLitePath string `env:"SQLITE_PATH,  default=blog.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog_admin"`
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR,  default=localhost:6379"`
	DB         int           `env:"REDIS_DB,    default=0"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=12h"`
}

type StorageConfig struct {
	// Backend selects the permanent file area: local or s3.
	Backend     string `env:"STORAGE_BACKEND, default=local"`
	MediaDir    string `env:"MEDIA_DIR,       default=media"`
	TempDir     string `env:"TEMP_DIR,        default=media/temp"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB,   default=5"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION,   default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// IsDevelopment reports whether the process runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the values envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite", "mongo":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, logger zerolog.Logger) *Config {
	cfg, err := load(ctx, envconfig.OsLookuper())
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
