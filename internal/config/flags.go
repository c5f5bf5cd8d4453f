package config

import (
	"flag"
	"os"
	"time"

	"github.com/aoralabs/aora/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-e string   backend endpoint URL
//	-p string   backend project ID
//	-d string   data directory for the session cache
//	-t int      request timeout in seconds
//	-l string   log level (debug|info|warn|error)
//
// Only the flags owned here are parsed; the argument list is pre-filtered
// with flagx.FilterArgs so flags of other stages (like -config) pass through.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-p", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Endpoint, "e", cfg.Endpoint, "backend endpoint URL")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "backend project ID")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
