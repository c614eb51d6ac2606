package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port           int              `json:"port"`
	BaseURL        string           `json:"base_url"`
	JWTSecret      string           `json:"jwt_secret"`
	JWTTTLHours    int              `json:"jwt_ttl_hours"`
	Database       DatabaseConfig   `json:"database"`
	LogConfig      logger.LogConfig `json:"log_config"`
	FileStore      FileStoreConfig  `json:"file_store"`
	TagCleanupSpec string           `json:"tag_cleanup_spec"`
	CORSAllowlist  []string         `json:"cors_allowlist"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.TagCleanupSpec == "" {
		// daily sweep of zero-usage tags
		cfg.TagCleanupSpec = "30 4 * * *"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		if cfg.FileStore.Data == nil {
			cfg.FileStore.Data = map[string]interface{}{"root": "./data/files"}
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return &cfg, nil
}
