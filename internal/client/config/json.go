package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/groupshare/internal/flagx"
	"github.com/dmitrijs2005/groupshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ProjectID        string         `json:"project_id"`
	CredentialsFile  string         `json:"credentials_file"`
	DatabasePath     string         `json:"database_path"`
	PollInterval     timex.Duration `json:"poll_interval"`
	RefetchAttempts  int            `json:"refetch_attempts"`
	RefetchBaseDelay timex.Duration `json:"refetch_base_delay"`
	BlobBucket       string         `json:"blob_bucket"`
	BlobRegion       string         `json:"blob_region"`
	BlobEndpoint     string         `json:"blob_endpoint"`
	BlobAccessKey    string         `json:"blob_access_key"`
	BlobSecretKey    string         `json:"blob_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Zero-valued JSON fields leave the corresponding Config field unchanged, so
// a partial file only overrides what it names. Panics on read or unmarshal
// errors (caller should recover if desired).
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

	if jc.ProjectID != "" {
		cfg.ProjectID = jc.ProjectID
	}
	if jc.CredentialsFile != "" {
		cfg.CredentialsFile = jc.CredentialsFile
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.RefetchAttempts != 0 {
		cfg.RefetchAttempts = jc.RefetchAttempts
	}
	if jc.RefetchBaseDelay.Duration != 0 {
		cfg.RefetchBaseDelay = time.Duration(jc.RefetchBaseDelay.Duration)
	}
	if jc.BlobBucket != "" {
		cfg.BlobBucket = jc.BlobBucket
	}
	if jc.BlobRegion != "" {
		cfg.BlobRegion = jc.BlobRegion
	}
	if jc.BlobEndpoint != "" {
		cfg.BlobEndpoint = jc.BlobEndpoint
	}
	if jc.BlobAccessKey != "" {
		cfg.BlobAccessKey = jc.BlobAccessKey
	}
	if jc.BlobSecretKey != "" {
		cfg.BlobSecretKey = jc.BlobSecretKey
	}
}
