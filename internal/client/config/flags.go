package config

import (
	"flag"
	"os"
	"time"

	"github.com/villa-app/villa/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   base URL of the backend server (default from Config)
//	-n string   base URL of the nickname directory (default from Config)
//	-f string   path of the local cache file (default from Config)
//	-d int      celebration delay in milliseconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-n", "-f", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.DirectoryURL, "n", cfg.DirectoryURL, "base URL of the nickname directory")
	fs.StringVar(&cfg.CachePath, "f", cfg.CachePath, "path of the local cache file")
	celebrationDelay := fs.Int("d", int(cfg.CelebrationDelay.Milliseconds()), "celebration delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.CelebrationDelay = time.Duration(*celebrationDelay) * time.Millisecond
}
