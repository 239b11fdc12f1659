package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	// Driver is "sqlite" (local file, default) or "postgres".
	Driver string
	DSN    string
}

type GatewayConfig struct {
	// SendURL is the gateway's message-send endpoint.
	SendURL string
	// BaseURL hosts the admin endpoints (reset, QR code). Defaults to
	// SendURL with the path stripped.
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

func LoadAll() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DATABASE_DRIVER", "sqlite"),
			DSN:    getEnv("DATABASE_DSN", "attendance.db"),
		},
		Gateway: GatewayConfig{
			SendURL: mustEnv("GATEWAY_SEND_URL"),
			BaseURL: os.Getenv("GATEWAY_BASE_URL"),
			Timeout: time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: loadRedisConfig(),
	}

	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = trimURLPath(cfg.Gateway.SendURL)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 3600)) * time.Second,
	}
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Gateway.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// trimURLPath drops everything after the host so that admin endpoints can be
// derived from the send endpoint ("http://localhost:3000/send" ->
// "http://localhost:3000").
func trimURLPath(u string) string {
	rest := u
	if i := strings.Index(u, "://"); i >= 0 {
		rest = u[i+3:]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return u[:len(u)-len(rest)+j]
	}
	return u
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("invalid int for env %s: %s", key, v))
	}
	return i
}
