package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	BcryptCost     int
	SweepInterval  time.Duration // how often the deadline watcher scans
}

// fileConfig mirrors Config for the optional TOML config file. Any field left
// at its zero value falls back to the default, and environment variables win
// over the file.
type fileConfig struct {
	ServerPort     int      `toml:"server_port"`
	DatabasePath   string   `toml:"database_path"`
	JWTSecret      string   `toml:"jwt_secret"`
	TokenTTLHours  int      `toml:"token_ttl_hours"`
	AllowedOrigins []string `toml:"allowed_origins"`
	BcryptCost     int      `toml:"bcrypt_cost"`
	SweepInterval  string   `toml:"sweep_interval"`
}

// Load builds the configuration from defaults, an optional TOML file named by
// CONFIG_FILE, and environment variables, in increasing priority. A .env file
// in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:     8080,
		DatabasePath:   "./taskdeck.db",
		JWTSecret:      "dev-secret-change-me",
		TokenTTL:       24 * time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
		BcryptCost:     10,
		SweepInterval:  time.Minute,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, err
		}
		if fc.ServerPort != 0 {
			cfg.ServerPort = fc.ServerPort
		}
		if fc.DatabasePath != "" {
			cfg.DatabasePath = fc.DatabasePath
		}
		if fc.JWTSecret != "" {
			cfg.JWTSecret = fc.JWTSecret
		}
		if fc.TokenTTLHours != 0 {
			cfg.TokenTTL = time.Duration(fc.TokenTTLHours) * time.Hour
		}
		if len(fc.AllowedOrigins) != 0 {
			cfg.AllowedOrigins = fc.AllowedOrigins
		}
		if fc.BcryptCost != 0 {
			cfg.BcryptCost = fc.BcryptCost
		}
		if fc.SweepInterval != "" {
			d, err := time.ParseDuration(fc.SweepInterval)
			if err != nil {
				return nil, err
			}
			cfg.SweepInterval = d
		}
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, err
		}
		cfg.ServerPort = port
	}
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}
	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, err
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
