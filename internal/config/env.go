package config

import (
	"os"
	"strconv"
)

// LoadFromEnv overrides cfg with THAW_* environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("THAW_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := os.Getenv("THAW_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := os.Getenv("THAW_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("THAW_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("THAW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("THAW_RESTORE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Restore.Days = days
		}
	}
	if v := os.Getenv("THAW_RESTORE_TIER"); v != "" {
		cfg.Restore.Tier = v
	}
	if v := os.Getenv("THAW_STORAGE_CLASS"); v != "" {
		cfg.Transit.StorageClass = v
	}
	if v := os.Getenv("THAW_POLL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Transit.PollSeconds = secs
		}
	}
}
