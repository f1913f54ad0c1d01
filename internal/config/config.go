// Package config loads application configuration from environment
// variables, with development defaults.
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port string
	Env  string // "development" or "production"

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis session store
	RedisAddr     string
	RedisPassword string

	// Auth
	JWTSecret      string
	CookieDomain   string
	AllowedOrigins []string

	// OAuth account linking
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "3030"),
		Env:  getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "clashers"),
		DBPassword: getEnv("DB_PASSWORD", "clashers"),
		DBName:     getEnv("DB_NAME", "clashers_academy"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:    getEnv("JWT_TOKEN", "clashers-academy-dev-signing-key"),
		CookieDomain: getEnv("COOKIE_DOMAIN", "localhost"),

		GoogleClientID:      os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		GoogleRedirectURL:   os.Getenv("GOOGLE_OAUTH_REDIRECT_FOR_LINKING"),
		DiscordClientID:     os.Getenv("DISCORD_OAUTH_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_OAUTH_CLIENT_SECRET"),
		DiscordRedirectURL:  os.Getenv("DISCORD_OAUTH_REDIRECT_FOR_LINKING"),
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.Env == "production" && cfg.JWTSecret == "clashers-academy-dev-signing-key" {
		return nil, fmt.Errorf("JWT_TOKEN must be set in production")
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
