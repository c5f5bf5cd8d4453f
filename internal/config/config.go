package config

import "time"

// Config holds runtime settings for the Aora CLI.
//
// The IDs identify remote resources on the backend project: the document
// database, the user and video collections inside it, and the storage bucket
// holding uploaded media.
type Config struct {
	Endpoint          string
	ProjectID         string
	DatabaseID        string
	UserCollectionID  string
	VideoCollectionID string
	StorageBucketID   string

	// DataDir is where the encrypted session cache lives.
	DataDir string

	RequestTimeout    time.Duration
	RequestsPerSecond float64
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Endpoint = "https://cloud.appwrite.io/v1"
	c.DataDir = "."
	c.RequestTimeout = 30 * time.Second
	c.RequestsPerSecond = 10
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file if present), a JSON config file, and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
