package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        int
	DatabaseURL string
	SessionSalt string

	// Object storage (optional; uploads return 503 when unset)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageSecure    bool

	PublicBaseURL string
	CacheTTL      time.Duration
}

// ParseFlags validates flags with environment variable fallback
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var cacheTTL string

	fs := flag.NewFlagSet("hardbanrecords-lab", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL for links")
	fs.StringVar(&cacheTTL, "cache-ttl", "", "Analytics cache TTL (e.g. 60s)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")

	// Object storage
	fs.StringVar(&cfg.StorageEndpoint, "storage-endpoint", "", "S3-compatible storage endpoint")
	fs.StringVar(&cfg.StorageBucket, "storage-bucket", "", "Storage bucket name")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4180 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	if cacheTTL == "" {
		cacheTTL = os.Getenv("ANALYTICS_CACHE_TTL")
	}
	if cacheTTL == "" {
		cfg.CacheTTL = 60 * time.Second
	} else {
		ttl, err := time.ParseDuration(cacheTTL)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid ANALYTICS_CACHE_TTL (want a positive duration like 60s)")
		}
		cfg.CacheTTL = ttl
	}

	// Storage is optional, but if an endpoint is given the rest must follow
	if cfg.StorageEndpoint == "" {
		cfg.StorageEndpoint = os.Getenv("STORAGE_ENDPOINT")
	}
	if cfg.StorageEndpoint != "" {
		cfg.StorageAccessKey = os.Getenv("STORAGE_ACCESS_KEY")
		cfg.StorageSecretKey = os.Getenv("STORAGE_SECRET_KEY")
		if cfg.StorageBucket == "" {
			cfg.StorageBucket = os.Getenv("STORAGE_BUCKET")
		}
		cfg.StorageSecure = os.Getenv("STORAGE_SECURE") != "false"

		if cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
			return Config{}, errors.New("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY required when STORAGE_ENDPOINT is set")
		}
		if cfg.StorageBucket == "" {
			return Config{}, errors.New("STORAGE_BUCKET required when STORAGE_ENDPOINT is set")
		}
	}

	return cfg, nil
}

// StorageConfigured reports whether object storage settings are present.
func (c Config) StorageConfigured() bool {
	return c.StorageEndpoint != ""
}
