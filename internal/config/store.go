package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type StoreBackend string

const (
	MemoryBackend   StoreBackend = "memory"
	SQLiteBackend   StoreBackend = "sqlite"
	PostgresBackend StoreBackend = "postgres"
)

type Store struct {
	Backend       StoreBackend
	SQLitePath    string
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func NewStore() (*Store, error) {
	backend := MemoryBackend
	if s, ok := os.LookupEnv("STORE_BACKEND"); ok && s != "" {
		backend = StoreBackend(strings.ToLower(s))
	}

	cfg := &Store{Backend: backend}
	switch backend {
	case MemoryBackend, PostgresBackend:
	case SQLiteBackend:
		path, ok := os.LookupEnv("SQLITE_PATH")
		if !ok {
			return nil, fmt.Errorf("SQLITE_PATH env variable is not set")
		}
		cfg.SQLitePath = path
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	var err error
	if cfg.SessionTTL, err = lookupDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = lookupDuration("SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	return cfg, nil
}
