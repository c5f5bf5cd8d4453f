package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/aoralabs/aora/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "30s".
type JsonConfig struct {
	Endpoint          string  `json:"endpoint"`
	ProjectID         string  `json:"project_id"`
	DatabaseID        string  `json:"database_id"`
	UserCollectionID  string  `json:"user_collection_id"`
	VideoCollectionID string  `json:"video_collection_id"`
	StorageBucketID   string  `json:"storage_bucket_id"`
	DataDir           string  `json:"data_dir"`
	RequestTimeout    string  `json:"request_timeout"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	LogLevel          string  `json:"log_level"`
}

// parseJson overlays Config with values from a JSON file given via -c/-config.
// If no file is specified, nothing happens. Read or unmarshal errors panic;
// a broken config file should not be silently skipped.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Endpoint != "" {
		cfg.Endpoint = jc.Endpoint
	}
	if jc.ProjectID != "" {
		cfg.ProjectID = jc.ProjectID
	}
	if jc.DatabaseID != "" {
		cfg.DatabaseID = jc.DatabaseID
	}
	if jc.UserCollectionID != "" {
		cfg.UserCollectionID = jc.UserCollectionID
	}
	if jc.VideoCollectionID != "" {
		cfg.VideoCollectionID = jc.VideoCollectionID
	}
	if jc.StorageBucketID != "" {
		cfg.StorageBucketID = jc.StorageBucketID
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = jc.RequestsPerSecond
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
