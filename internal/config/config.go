package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string `env:"BF_API_BASE_URL" envDefault:"http://localhost:5000"`
	LogLevel   string `env:"BF_LOG_LEVEL" envDefault:"info"`

	BookSourceType string `env:"BF_BOOK_SOURCE_TYPE" envDefault:"api"`
	OPDSBaseURL    string `env:"BF_OPDS_BASE_URL"`
	OPDSUsername   string `env:"BF_OPDS_USERNAME"`
	OPDSPassword   string `env:"BF_OPDS_PASSWORD"`

	StorageBackend string `env:"BF_STORAGE_BACKEND" envDefault:"file"`
	StateFilePath  string `env:"BF_STATE_FILE_PATH" envDefault:"bookfinder_state.json"`
	DBPath         string `env:"BF_DB_PATH" envDefault:"bookfinder.db"`

	DefaultQuery       string `env:"BF_DEFAULT_QUERY" envDefault:"best sellers"`
	HTTPTimeoutSeconds int    `env:"BF_HTTP_TIMEOUT_SECONDS" envDefault:"30"`

	Username string `env:"BF_USERNAME"`
	Password string `env:"BF_PASSWORD"`
}

func (c *Config) Validate() error {
	if c.BookSourceType != "api" && c.BookSourceType != "opds" {
		return fmt.Errorf("BF_BOOK_SOURCE_TYPE must be 'api' or 'opds'")
	}

	if c.BookSourceType == "opds" && c.OPDSBaseURL == "" {
		return fmt.Errorf("BF_OPDS_BASE_URL is required when BF_BOOK_SOURCE_TYPE is opds")
	}

	if c.StorageBackend != "file" && c.StorageBackend != "sqlite" {
		return fmt.Errorf("BF_STORAGE_BACKEND must be 'file' or 'sqlite'")
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("BF_API_BASE_URL cannot be empty")
	}

	if c.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("BF_HTTP_TIMEOUT_SECONDS must be at least 1")
	}

	if c.DefaultQuery == "" {
		return fmt.Errorf("BF_DEFAULT_QUERY cannot be empty")
	}

	return nil
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{}
		if err := env.Parse(cfg); err != nil {
			log.Fatalf("failed to parse config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config validation failed: %v", err)
		}
	})
	return cfg
}
