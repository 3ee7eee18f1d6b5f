package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration. Values come
// from an optional config.yaml; environment variables override them so
// containerized deployments can tweak single knobs without a file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ServerConfig holds the HTTP server knobs.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	LoginRatePerMin float64  `yaml:"login_rate_per_min"`
	LoginBurst      int      `yaml:"login_burst"`
}

// AuthConfig holds the session-token settings.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// Load reads config.yaml (path from CONFIG_PATH, default "config.yaml")
// if present, then applies environment overrides and defaults.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			LoginRatePerMin: 10,
			LoginBurst:      5,
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 8 * 60,
		},
	}

	path := EnvOrDefault("CONFIG_PATH", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("failed to parse %s: %v", path, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		origins := make([]string, 0)
		for _, part := range strings.Split(v, ",") {
			if o := strings.TrimSpace(part); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.Server.CORSOrigins = origins
		}
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("TOKEN_TTL_MINUTES")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			cfg.Auth.TokenTTLMinutes = m
		}
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set (env or config.yaml auth.jwt_secret)")
	}

	return cfg
}

// EnvOrDefault returns the trimmed env value or a fallback.
func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}
