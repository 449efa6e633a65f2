// Package config loads runtime settings from the environment, applying
// hard-coded defaults so the service starts without any configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the contactdesk service.
type Config struct {
	// Addr is the HTTP bind address.
	Addr string

	// DatabaseDSN is the PostgreSQL DSN (pgx). Assembled from the
	// DATABASE_* parts unless DATABASE_URL overrides it.
	DatabaseDSN string

	// SecretKey signs access tokens. The default is insecure and only
	// suitable for development.
	SecretKey string

	// Algorithm is the JWT signing algorithm name (HS256 family).
	Algorithm string

	// AccessTokenTTL is the default access token lifetime.
	AccessTokenTTL time.Duration

	// CookieSecure controls the Secure flag on the session cookie.
	CookieSecure bool
}

const (
	defaultSecretKey = "my_secret_key"
	defaultAlgorithm = "HS256"
	defaultTTL       = 15 * time.Minute
)

// Load reads the configuration from environment variables.
func Load() Config {
	cfg := Config{
		Addr:           getenv("CONTACTDESK_ADDR", ":8080"),
		SecretKey:      getenv("SECRET_KEY", defaultSecretKey),
		Algorithm:      getenv("JWT_ALGORITHM", defaultAlgorithm),
		AccessTokenTTL: defaultTTL,
		CookieSecure:   getenv("COOKIE_SECURE", "0") == "1",
	}
	if raw := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute
		}
	}
	cfg.DatabaseDSN = databaseDSN()
	return cfg
}

// databaseDSN prefers an explicit DATABASE_URL and otherwise assembles a
// DSN from the individual DATABASE_* variables.
func databaseDSN() string {
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		return url
	}
	user := getenv("DATABASE_USER", "postgres")
	password := getenv("DATABASE_PASSWORD", "password")
	host := getenv("DATABASE_HOST", "localhost")
	port := getenv("DATABASE_PORT", "5432")
	name := getenv("DATABASE_NAME", "mydb")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
