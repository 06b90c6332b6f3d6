package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-m", "-d", "-f", "-s", "-w", "-l", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-g string   gRPC health bind address, empty disables
//	-m string   metadata backend: postgres, mongo or memory
//	-d string   PostgreSQL DSN
//	-f string   local storage root folder
//	-s string   storage backend: local or s3
//	-w int      thumbnail worker count
//	-l string   log level
//	-t int      session TTL, hours
//
// Arguments are first filtered with flagx.FilterArgs so the -c/-config flag
// and unknown flags do not cause errors here.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port of gRPC health endpoint")
	fs.StringVar(&config.MetadataBackend, "m", config.MetadataBackend, "metadata backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "storage folder path")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend")
	fs.IntVar(&config.WorkerCount, "w", config.WorkerCount, "thumbnail workers")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session ttl (in hours)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = hours(*sessionTTL)
		}
	})

	return nil
}
