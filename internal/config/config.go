package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	Vector        VectorConfig     `json:"vector"`
	AI            AIConfig         `json:"ai"`
	Pipeline      PipelineConfig   `json:"pipeline"`
	CORSOrigins   []string         `json:"cors_origins"`
	RateLimitMs   int              `json:"rate_limit_ms"`
	KeepaliveCron string           `json:"keepalive_cron"`
}

type DatabaseConfig struct {
	DSN             string `json:"dsn"`
	Host            string `json:"host"`
	Port            int    `json:"port"`
	User            string `json:"user"`
	Password        string `json:"password"`
	DBName          string `json:"dbname"`
	SSLMode         string `json:"sslmode"`
	MaxOpenConns    int    `json:"max_open_conns"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	ConnMaxLifetime int    `json:"conn_max_lifetime"` // seconds
	QueryTimeout    int    `json:"query_timeout"`     // seconds
}

// VectorConfig points at the pgvector collection holding contract clause
// embeddings. The collection is provisioned by the ingestion side; this
// service only queries it.
type VectorConfig struct {
	Collection string `json:"collection"`
	Dim        int    `json:"dim"`
}

type ProviderConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Chat      []ProviderConfig `json:"chat"`
	Embedding []ProviderConfig `json:"embedding"`
	Timeout   int              `json:"timeout"` // seconds, per outbound call
}

type PipelineConfig struct {
	TopK int `json:"top_k"`
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
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database.dsn or database.host/dbname are required")
	}
	if len(cfg.AI.Chat) == 0 {
		return nil, fmt.Errorf("ai.chat requires at least one provider")
	}
	if len(cfg.AI.Embedding) == 0 {
		return nil, fmt.Errorf("ai.embedding requires at least one provider")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "require"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 15
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 10
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "legal_policy_vectors"
	}
	if cfg.Vector.Dim == 0 {
		cfg.Vector.Dim = 1024
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 5
	}
	return &cfg, nil
}
