// Package cli is the interactive GroupShare client: a REPL over the sync
// engine for browsing groups, rosters and file lists, and over the write
// services for uploading, tagging and managing files.
package cli
