// Package config handles configuration for the GroupShare client,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GroupShare CLI.
//
// Fields:
//   - ProjectID: Firestore project hosting the shared collections.
//   - CredentialsFile: optional service-account JSON; empty means ADC.
//   - DatabasePath: sqlite file for locally persisted watermarks.
//   - PollInterval: query-polling cadence in the degraded mode entered when
//     a live subscription channel fails.
//   - RefetchAttempts / RefetchBaseDelay: bounded retry policy for
//     authoritative one-shot fetches.
//   - BlobBucket / BlobRegion / BlobEndpoint / BlobAccessKey / BlobSecretKey:
//     S3-compatible backend receiving file bytes.
type Config struct {
	ProjectID        string
	CredentialsFile  string
	DatabasePath     string
	PollInterval     time.Duration
	RefetchAttempts  int
	RefetchBaseDelay time.Duration
	BlobBucket       string
	BlobRegion       string
	BlobEndpoint     string
	BlobAccessKey    string
	BlobSecretKey    string
}

// LoadDefaults populates c with sensible defaults.
// NOTE: The blob credentials are development values and must be overridden.
func (c *Config) LoadDefaults() {
	c.ProjectID = "groupshare-dev"
	c.CredentialsFile = ""
	c.DatabasePath = "groupshare.db"
	c.PollInterval = 15 * time.Second
	c.RefetchAttempts = 3
	c.RefetchBaseDelay = 250 * time.Millisecond
	c.BlobBucket = "groupshare"
	c.BlobRegion = "us-east-1"
	c.BlobEndpoint = "http://127.0.0.1:9000/"
	c.BlobAccessKey = "admin"
	c.BlobSecretKey = "secretpassword"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
