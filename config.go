package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is built once in main and handed to the constructors that need it.
// Secrets and TTLs live here rather than in package globals so tests can run
// the whole stack with their own values.
type Config struct {
	Addr                string
	DSN                 string
	UploadBase          string
	AllowNewPublicUsers bool
	Token               TokenConfig
}

func loadConfig() Config {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	return Config{
		Addr:                ":" + getenv("PORT", "8081"),
		DSN:                 os.Getenv("DB_DSN"),
		UploadBase:          getenv("UPLOAD_BASE", "uploads"),
		AllowNewPublicUsers: boolEnv("ALLOW_NEW_PUBLIC_USERS", false),
		Token: TokenConfig{
			AccessSecret:  []byte(getenv("ACCESS_TOKEN_SECRET", "dev-insecure-access-secret")),
			RefreshSecret: []byte(getenv("REFRESH_TOKEN_SECRET", "dev-insecure-refresh-secret")),
			AccessTTL:     durationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTTL:    durationEnv("REFRESH_TOKEN_TTL", 24*time.Hour),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1" || v == "yes"
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
