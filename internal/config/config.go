package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	// Backend selects where credentials persist: "file" or "redis".
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type ConfigFile struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	// AdminEmails is a legacy-compatibility allowlist granting the admin
	// view in addition to the role claim. Empty by default.
	AdminEmails []string `yaml:"admin_emails"`
}

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	StoreBackend  string
	StorePath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AdminEmails   []string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads configuration from path, falling back to environment variables
// and defaults when the file is absent. An empty path means the default
// location under the user config dir.
func Load(path string) (*Config, error) {
	if path == "" {
		path = env("BOLGENIE_CONFIG", defaultConfigPath())
	}

	var file ConfigFile
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{
		BaseURL:       env("BOLGENIE_API_URL", file.API.BaseURL),
		StoreBackend:  env("BOLGENIE_STORE_BACKEND", file.Storage.Backend),
		StorePath:     env("BOLGENIE_STORE_PATH", file.Storage.Path),
		RedisAddr:     env("BOLGENIE_REDIS_ADDR", file.Storage.Redis.Addr),
		RedisPassword: env("BOLGENIE_REDIS_PASSWORD", file.Storage.Redis.Password),
		RedisDB:       file.Storage.Redis.DB,
		AdminEmails:   file.AdminEmails,
	}

	if v := os.Getenv("BOLGENIE_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BOLGENIE_REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080/api/v1"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "file"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath()
	}

	timeout := env("BOLGENIE_API_TIMEOUT", file.API.Timeout)
	if timeout == "" {
		timeout = "30s"
	}
	cfg.Timeout, err = time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid API timeout: %w", err)
	}

	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(dir, ".bolgenie", "config.yml")
}

func defaultStorePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".bolgenie"
	}
	return filepath.Join(dir, ".bolgenie")
}
