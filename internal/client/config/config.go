// Package config holds runtime settings for the Creatuno client. Values are
// layered: defaults, then an optional JSON file, then command-line flags,
// with later sources taking precedence.
package config

import "time"

// Config holds runtime settings for the Creatuno client.
type Config struct {
	// BackendURL is the base URL of the remote backend's HTTP API. It is
	// also used as the connectivity probe target.
	BackendURL string

	// DatabasePath is the SQLite file backing the local store.
	DatabasePath string

	// StorageBackend selects the object-storage implementation: "s3" or "http".
	StorageBackend string

	// HTTP storage settings (presigned-PUT style).
	StorageUploadURL string
	StoragePublicURL string

	// S3 storage settings (MinIO-compatible).
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string

	// ConnectionType feeds the network policy gate ("wifi", "ethernet",
	// "cellular", "unknown").
	ConnectionType string

	// UnmeteredOnly restricts syncing to connections not classified as
	// low-bandwidth.
	UnmeteredOnly bool

	// StartupSyncDelay is the one-time delay before the startup sync trigger.
	StartupSyncDelay time.Duration

	// OnlineCheckInterval is how often the connectivity watcher probes the
	// backend.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8080"
	c.DatabasePath = "creatuno.db"
	c.StorageBackend = "http"
	c.ConnectionType = "unknown"
	c.StartupSyncDelay = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
