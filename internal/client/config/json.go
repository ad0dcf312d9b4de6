package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bobdavies/creatuno/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as integer seconds; zero values leave the current setting untouched.
type JsonConfig struct {
	BackendURL          string `json:"backend_url"`
	DatabasePath        string `json:"database_path"`
	StorageBackend      string `json:"storage_backend"`
	StorageUploadURL    string `json:"storage_upload_url"`
	StoragePublicURL    string `json:"storage_public_url"`
	S3Region            string `json:"s3_region"`
	S3Bucket            string `json:"s3_bucket"`
	S3AccessKey         string `json:"s3_access_key"`
	S3SecretKey         string `json:"s3_secret_key"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
	ConnectionType      string `json:"connection_type"`
	UnmeteredOnly       *bool  `json:"unmetered_only"`
	StartupSyncDelay    int    `json:"startup_sync_delay_s"`
	OnlineCheckInterval int    `json:"online_check_interval_s"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flags. When no file is named, nothing happens. Read or unmarshal
// errors panic; this runs once during startup.
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

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.StorageUploadURL, jc.StorageUploadURL)
	setString(&cfg.StoragePublicURL, jc.StoragePublicURL)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.ConnectionType, jc.ConnectionType)
	if jc.UnmeteredOnly != nil {
		cfg.UnmeteredOnly = *jc.UnmeteredOnly
	}
	if jc.StartupSyncDelay > 0 {
		cfg.StartupSyncDelay = time.Duration(jc.StartupSyncDelay) * time.Second
	}
	if jc.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval) * time.Second
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
