package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	Feed      FeedConfig
	Ingestion IngestionConfig
	Broadcast BroadcastConfig
	WebSocket WebSocketConfig
}

// ServerConfig is the configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"HTTP_PORT" envDefault:"8080"`
	Mode string `env:"GIN_MODE" envDefault:"release"`
}

// LoggerConfig is the configuration for the logger.
type LoggerConfig struct {
	Level        string `env:"LOG_LEVEL" envDefault:"info"`
	Mode         string `env:"LOG_MODE" envDefault:"production"`
	Encoding     string `env:"LOG_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOG_COLOR" envDefault:"false"`
}

// PostgresConfig is the configuration for the earthquake store.
// An empty DSN selects the in-memory repository.
type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

// FeedConfig is the configuration for the external USGS feed client.
type FeedConfig struct {
	BaseURL      string        `env:"USGS_BASE_URL" envDefault:"https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"`
	FetchTimeout time.Duration `env:"USGS_FETCH_TIMEOUT" envDefault:"30s"`
}

// IngestionConfig controls the scheduled ingestion job.
type IngestionConfig struct {
	IntervalMinutes float64       `env:"INGESTION_INTERVAL_MINUTES" envDefault:"30"`
	Period          string        `env:"INGESTION_PERIOD" envDefault:"hour"`
	MinMagnitude    float64       `env:"INGESTION_MIN_MAGNITUDE" envDefault:"2.5"`
	MaxRecords      int           `env:"INGESTION_MAX_RECORDS" envDefault:"100"`
	MisfireGrace    time.Duration `env:"SCHEDULER_MISFIRE_GRACE" envDefault:"300s"`
}

// BroadcastConfig controls per-subscriber filtering of outbound notifications.
type BroadcastConfig struct {
	MinMagnitude     float64       `env:"WS_MIN_MAGNITUDE" envDefault:"2.0"`
	MaxPerMinute     int           `env:"WS_MAX_PER_MINUTE" envDefault:"10"`
	ThrottleInterval time.Duration `env:"WS_THROTTLE_INTERVAL" envDefault:"5s"`
	MaxAgeMinutes    int           `env:"WS_MAX_AGE_MINUTES" envDefault:"60"`
	MaxMessageBytes  int           `env:"WS_MAX_MESSAGE_BYTES" envDefault:"102400"`
}

// WebSocketConfig is the configuration for WebSocket connections.
type WebSocketConfig struct {
	PingInterval    time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	PongWait        time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WriteWait       time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	ReadBufferSize  int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
	MaxConnections  int           `env:"WS_MAX_CONNECTIONS" envDefault:"10000"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Ingestion.IntervalMinutes <= 0 {
		return fmt.Errorf("INGESTION_INTERVAL_MINUTES must be positive")
	}
	if cfg.Ingestion.MaxRecords <= 0 {
		return fmt.Errorf("INGESTION_MAX_RECORDS must be positive")
	}
	if cfg.Broadcast.MaxPerMinute <= 0 {
		return fmt.Errorf("WS_MAX_PER_MINUTE must be positive")
	}
	if cfg.Broadcast.MaxMessageBytes <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be positive")
	}
	if cfg.Feed.BaseURL == "" {
		return fmt.Errorf("USGS_BASE_URL is required")
	}
	return nil
}
