package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// applyFile overlays non-zero values from a YAML file onto cfg.
// Secrets are never read from the file; they stay environment-only.
func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	merge(cfg, overlay)
	return nil
}

func merge(dst *Config, src Config) {
	setString(&dst.Port, src.Port)
	if src.Env != "" {
		dst.Env = normalizeEnv(src.Env)
	}
	if len(src.CORSAllowOrigin) > 0 {
		dst.CORSAllowOrigin = src.CORSAllowOrigin
	}
	setString(&dst.FrontendURL, src.FrontendURL)
	setString(&dst.GitHubClientID, src.GitHubClientID)
	setString(&dst.GitHubRedirectURL, src.GitHubRedirectURL)
	if src.RecordStoreType != "" {
		dst.RecordStoreType = normalizeRecordStore(src.RecordStoreType)
	}
	if src.WorkQueueType != "" {
		dst.WorkQueueType = normalizeWorkQueue(src.WorkQueueType)
	}
	setString(&dst.RedisURL, src.RedisURL)
	setString(&dst.SQLitePath, src.SQLitePath)
	setString(&dst.PebbleDir, src.PebbleDir)
	setString(&dst.SQSQueueURL, src.SQSQueueURL)
	if src.ObjectStoreType != "" {
		dst.ObjectStoreType = normalizeStoreType(src.ObjectStoreType)
	}
	setString(&dst.LocalStoreDir, src.LocalStoreDir)
	setString(&dst.AWSRegion, src.AWSRegion)
	setString(&dst.S3Bucket, src.S3Bucket)
	setString(&dst.S3Prefix, src.S3Prefix)
	if src.MaxUploadBytes > 0 {
		dst.MaxUploadBytes = src.MaxUploadBytes
	}
	if src.WorkerConcurrency > 0 {
		dst.WorkerConcurrency = src.WorkerConcurrency
	}
	if src.ShutdownTimeoutSeconds > 0 {
		dst.ShutdownTimeoutSeconds = src.ShutdownTimeoutSeconds
	}
	setString(&dst.MetricsAddr, src.MetricsAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
