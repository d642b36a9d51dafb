package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type appConfig struct {
	Port          string
	StoreBackend  string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisDB       int
	SQLDSN        string
	StoreBreaker  bool
	LogLevel      string
	CollectorAddr string
	SeedDemoUsers bool
}

var storeBackends = map[string]bool{
	"memory":   true,
	"mongo":    true,
	"redis":    true,
	"postgres": true,
	"mysql":    true,
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Port:          "8080",
		StoreBackend:  "memory",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "coderhack",
		RedisAddr:     "localhost:6379",
		StoreBreaker:  true,
		LogLevel:      "info",
	}

	if v, ok := lookupNonEmptyEnv("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := lookupNonEmptyEnv("STORE_BACKEND"); ok {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v, ok := lookupNonEmptyEnv("MONGO_URI"); ok {
		cfg.MongoURI = v
	}
	if v, ok := lookupNonEmptyEnv("MONGO_DATABASE"); ok {
		cfg.MongoDatabase = v
	}
	if v, ok := lookupNonEmptyEnv("REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := lookupNonEmptyEnv("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return appConfig{}, errors.Errorf("REDIS_DB must be a non-negative integer, got %q", v)
		}
		cfg.RedisDB = n
	}
	if v, ok := lookupNonEmptyEnv("SQL_DSN"); ok {
		cfg.SQLDSN = v
	}
	if v, ok := lookupNonEmptyEnv("STORE_BREAKER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return appConfig{}, errors.Wrap(err, "STORE_BREAKER")
		}
		cfg.StoreBreaker = b
	}
	if v, ok := lookupNonEmptyEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupNonEmptyEnv("COLLECTOR_SERVICE_ADDR"); ok {
		cfg.CollectorAddr = v
	}
	if v, ok := lookupNonEmptyEnv("SEED_DEMO_USERS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return appConfig{}, errors.Wrap(err, "SEED_DEMO_USERS")
		}
		cfg.SeedDemoUsers = b
	}

	if !storeBackends[cfg.StoreBackend] {
		return appConfig{}, errors.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if (cfg.StoreBackend == "postgres" || cfg.StoreBackend == "mysql") && cfg.SQLDSN == "" {
		return appConfig{}, errors.Errorf("SQL_DSN is required for STORE_BACKEND=%s", cfg.StoreBackend)
	}

	return cfg, nil
}

func lookupNonEmptyEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
