package config

import "testing"

func validConfig() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:5000",
		LogLevel:           "info",
		BookSourceType:     "api",
		StorageBackend:     "file",
		StateFilePath:      "state.json",
		DBPath:             "bookfinder.db",
		DefaultQuery:       "best sellers",
		HTTPTimeoutSeconds: 30,
	}
}

func TestConfig_ValidateDefaultsPass(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown source type":     func(c *Config) { c.BookSourceType = "carrier-pigeon" },
		"opds without url":        func(c *Config) { c.BookSourceType = "opds"; c.OPDSBaseURL = "" },
		"unknown storage backend": func(c *Config) { c.StorageBackend = "postgres" },
		"empty api base url":      func(c *Config) { c.APIBaseURL = "" },
		"zero timeout":            func(c *Config) { c.HTTPTimeoutSeconds = 0 },
		"empty default query":     func(c *Config) { c.DefaultQuery = "" },
	}

	for name, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestConfig_OPDSSourceWithURLPasses(t *testing.T) {
	cfg := validConfig()
	cfg.BookSourceType = "opds"
	cfg.OPDSBaseURL = "http://catalog.example.com"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
