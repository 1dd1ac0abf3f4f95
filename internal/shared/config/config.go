package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const defaultMaxUploadBytes = 20 << 20 // 20MB

// Config holds application configuration.
type Config struct {
	Port                   string   `yaml:"port"`
	Env                    string   `yaml:"env"`
	CORSAllowOrigin        []string `yaml:"cors_allow_origins"`
	FrontendURL            string   `yaml:"frontend_url"`
	JWTSecret              string   `yaml:"-"`
	GitHubClientID         string   `yaml:"github_client_id"`
	GitHubClientSecret     string   `yaml:"-"`
	GitHubRedirectURL      string   `yaml:"github_redirect_uri"`
	RecordStoreType        string   `yaml:"record_store"`
	WorkQueueType          string   `yaml:"work_queue"`
	RedisURL               string   `yaml:"redis_url"`
	DatabaseURL            string   `yaml:"-"`
	SQLitePath             string   `yaml:"sqlite_path"`
	PebbleDir              string   `yaml:"pebble_dir"`
	SQSQueueURL            string   `yaml:"sqs_queue_url"`
	ObjectStoreType        string   `yaml:"object_store"`
	LocalStoreDir          string   `yaml:"local_store_dir"`
	AWSRegion              string   `yaml:"aws_region"`
	S3Bucket               string   `yaml:"s3_bucket"`
	S3Prefix               string   `yaml:"s3_prefix"`
	MaxUploadBytes         int64    `yaml:"max_upload_bytes"`
	WorkerConcurrency      int      `yaml:"worker_concurrency"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	MetricsAddr            string   `yaml:"metrics_addr"`
}

// Load reads configuration from environment variables with sensible defaults,
// then applies the optional YAML file named by CONFIG_FILE.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	frontend := getEnv("FRONTEND_URL", "http://localhost:5173")

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		Env:                    env,
		CORSAllowOrigin:        splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", frontend)),
		FrontendURL:            frontend,
		JWTSecret:              getEnv("JWT_SECRET", ""),
		GitHubClientID:         getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret:     getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL:      getEnv("GITHUB_REDIRECT_URI", ""),
		RecordStoreType:        normalizeRecordStore(getEnv("RECORD_STORE", "memory")),
		WorkQueueType:          normalizeWorkQueue(getEnv("WORK_QUEUE", "memory")),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		SQLitePath:             getEnv("SQLITE_PATH", "./data/records.db"),
		PebbleDir:              getEnv("PEBBLE_DIR", "./data/pebble"),
		SQSQueueURL:            getEnv("SQS_QUEUE_URL", ""),
		ObjectStoreType:        normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", dataDir()),
		AWSRegion:              getEnv("AWS_REGION", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Prefix:               getEnv("S3_PREFIX", ""),
		MaxUploadBytes:         getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		WorkerConcurrency:      int(getEnvInt64("WORKER_CONCURRENCY", 1)),
		ShutdownTimeoutSeconds: int(getEnvInt64("SHUTDOWN_TIMEOUT_SECONDS", 30)),
		MetricsAddr:            getEnv("METRICS_ADDR", ":9090"),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			log.Printf("config file %s ignored: %v", path, err)
		}
	}

	if cfg.Env == "production" && strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Printf("JWT_SECRET is required in production")
	}
	return cfg
}

func dataDir() string {
	return strings.TrimRight(getEnv("DATA_DIR", "./data"), "/") + "/uploads"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeRecordStore(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "redis", "postgres", "sqlite", "pebble":
		return v
	case "pg", "postgresql":
		return "postgres"
	default:
		return "memory"
	}
}

func normalizeWorkQueue(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "redis", "sqs":
		return v
	default:
		return "memory"
	}
}
