package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hr-records/pkg/paseto"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type AppConfig struct {
	Port           string        `env:"PORT" envDefault:"3000"`
	MongoString    string        `env:"MONGOSTRING"`
	MongoDB        string        `env:"MONGO_DB" envDefault:"hr-records-db"`
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"mongo"`
	PasetoSecret   string        `env:"PASETO_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:4173,http://127.0.0.1:5173"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	ImportTmpDir   string        `env:"IMPORT_TMP_DIR"`
	ImportMaxBytes int64         `env:"IMPORT_MAX_BYTES" envDefault:"5242880"`
	ImportTimeout  time.Duration `env:"IMPORT_TIMEOUT" envDefault:"60s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool          `env:"LOG_PRETTY" envDefault:"false"`
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded, using process environment")
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.ImportTmpDir == "" {
		cfg.ImportTmpDir = os.TempDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoString == "" {
			return fmt.Errorf("MONGOSTRING is required when STORE_DRIVER=%s", StoreMongo)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.PasetoSecret == "" {
		return fmt.Errorf("PASETO_SECRET is required")
	}
	if _, err := paseto.DecodeKey(c.PasetoSecret); err != nil {
		return err
	}

	if c.ImportMaxBytes <= 0 {
		return fmt.Errorf("IMPORT_MAX_BYTES must be positive")
	}
	return nil
}
