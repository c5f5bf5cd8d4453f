package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first (without overriding variables
// already present in the environment).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(&cfg.Endpoint, "AORA_ENDPOINT")
	setString(&cfg.ProjectID, "AORA_PROJECT_ID")
	setString(&cfg.DatabaseID, "AORA_DATABASE_ID")
	setString(&cfg.UserCollectionID, "AORA_USER_COLLECTION_ID")
	setString(&cfg.VideoCollectionID, "AORA_VIDEO_COLLECTION_ID")
	setString(&cfg.StorageBucketID, "AORA_STORAGE_BUCKET_ID")
	setString(&cfg.DataDir, "AORA_DATA_DIR")
	setString(&cfg.LogLevel, "AORA_LOG_LEVEL")

	if v, ok := os.LookupEnv("AORA_REQUEST_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v, ok := os.LookupEnv("AORA_REQUESTS_PER_SECOND"); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RequestsPerSecond = f
		}
	}
}
