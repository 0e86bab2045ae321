package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/groupshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   Firestore project id (default from Config)
//	-d string   path to the local watermark database
//	-i int      degraded-mode poll interval in seconds
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "firestore project id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to local watermark database")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "degraded-mode poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
