package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/imagio/imagio/media/domain"
	"github.com/imagio/imagio/media/storage"
)

// StorageConfig describes one storage namespace. Filesystem backends
// use Root; S3 backends use the remaining fields.
type StorageConfig struct {
	Backend string `env:"BACKEND" envDefault:"filesystem"`

	Root string `env:"ROOT"`

	Region    string `env:"S3_REGION"`
	Bucket    string `env:"S3_BUCKET"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
}

type Config struct {
	// HTTP listen address, e.g. ":8080"
	Address string `env:"IMAGIO_ADDRESS" envDefault:":8080"`

	// Path to the sqlite metadata database
	DBPath string `env:"IMAGIO_DB_PATH" envDefault:"./imagio.db"`

	Originals   StorageConfig `envPrefix:"IMAGIO_ORIGINALS_"`
	Derivatives StorageConfig `envPrefix:"IMAGIO_DERIVATIVES_"`
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, domain.ConfigErrorf("parse env: %v", err)
	}

	if err := cfg.Originals.validate("originals"); err != nil {
		return Config{}, err
	}
	if err := cfg.Derivatives.validate("derivatives"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (s StorageConfig) validate(namespace string) error {
	switch storage.Backend(s.Backend) {
	case storage.BackendFilesystem:
		if s.Root == "" {
			return domain.ConfigErrorf("%s: filesystem backend requires a root path", namespace)
		}
	case storage.BackendS3:
		if s.Bucket == "" || s.Endpoint == "" {
			return domain.ConfigErrorf("%s: s3 backend requires a bucket and endpoint", namespace)
		}
	default:
		return domain.ConfigErrorf("%s: unknown backend %q", namespace, s.Backend)
	}
	return nil
}

// ToStorage converts to the storage package's config type.
func (s StorageConfig) ToStorage() storage.Config {
	return storage.Config{
		Backend:   storage.Backend(s.Backend),
		Root:      s.Root,
		Region:    s.Region,
		Bucket:    s.Bucket,
		Endpoint:  s.Endpoint,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
	}
}

// String renders the address and backends for startup logging without
// leaking credentials.
func (c Config) String() string {
	return fmt.Sprintf("address=%s db=%s originals=%s derivatives=%s",
		c.Address, c.DBPath, c.Originals.Backend, c.Derivatives.Backend)
}
