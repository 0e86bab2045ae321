// Package config loads runtime configuration for the GroupShare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-p string   Firestore project id
//	-d string   path to the local watermark database
//	-i int      degraded-mode poll interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "project_id": "groupshare-dev",
//	  "database_path": "groupshare.db",
//	  "poll_interval": "15s",
//	  "refetch_attempts": 3,
//	  "refetch_base_delay": "250ms"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
