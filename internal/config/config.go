package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	ElectionAPIURL string
	APITimeout     time.Duration
	LoginMode      string

	CredentialStore string
	DatabaseURL     string
	SQLitePath      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionTTL      time.Duration

	ResultsUnlockAt     string
	ResultsPollInterval time.Duration
	ResultsPassword     string
	ReauthRedirectDelay time.Duration

	CookieDomain string
	CookieSecure bool
}

// Load reads the configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:        getenv("HTTP_ADDR", "0.0.0.0:8080"),
		ElectionAPIURL:  strings.TrimRight(getenv("ELECTION_API_URL", "http://localhost:3000"), "/"),
		LoginMode:       getenv("LOGIN_MODE", "otp"),
		CredentialStore: getenv("CREDENTIAL_STORE", "memory"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getenv("SQLITE_PATH", "ballot.db"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ResultsUnlockAt: os.Getenv("RESULTS_UNLOCK_AT"),
		ResultsPassword: os.Getenv("RESULTS_PASSWORD"),
		CookieDomain:    os.Getenv("COOKIE_DOMAIN"),
	}

	var err error
	if cfg.APITimeout, err = getenvDuration("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.ResultsPollInterval, err = getenvDuration("RESULTS_POLL_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReauthRedirectDelay, err = getenvDuration("REAUTH_REDIRECT_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getenvBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	switch cfg.CredentialStore {
	case "memory", "sqlite", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres credential store")
		}
	default:
		return nil, fmt.Errorf("unknown CREDENTIAL_STORE %q", cfg.CredentialStore)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}
	return d, nil
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
