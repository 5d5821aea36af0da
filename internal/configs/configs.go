package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	JWTSecret              string
	UploadDir              string
	RedisAddr              string
	NotifyQueueKey         string
	RateLimit              int
	MaxUploadMB            int
	ShutdownTimeoutSeconds int
	LogFile                string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "taskflow.db"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		UploadDir:              getEnv("UPLOAD_DIR", "uploads"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		NotifyQueueKey:         getEnv("NOTIFY_QUEUE_KEY", "taskflow_notifications"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		MaxUploadMB:            getEnvAsInt("MAX_UPLOAD_MB", 10),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		LogFile:                getEnv("LOG_FILE", ""),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must not be empty")
	}
	if cfg.UploadDir == "" {
		log.Fatal("UPLOAD_DIR must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.MaxUploadMB <= 0 {
		log.Fatal("MAX_UPLOAD_MB must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
