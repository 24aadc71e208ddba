package config

import (
	"flag"
	"strings"

	"github.com/nibzard/capplan-go/internal/utils"
)

// parseFlags defines the global flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("capplan", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.ProjectFile, "project", cfg.ProjectFile, "Path to the project document")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to a JSON Schema file (default: built-in)")

	// Store
	fs.StringVar(&cfg.Store.Backend, "store", cfg.Store.Backend, "Store backend (file|mongo)")
	fs.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "File store path")
	fs.StringVar(&cfg.Store.MongoURI, "mongo-uri", cfg.Store.MongoURI, "MongoDB connection URI")

	// API and rendering
	fs.StringVar(&cfg.API.Addr, "addr", cfg.API.Addr, "HTTP listen address")
	fs.IntVar(&cfg.Render.Width, "width", cfg.Render.Width, "Chart width in columns")

	// Logging
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format (text|json|logfmt)")
	fs.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "Also write logs to this rotated file")

	resources := strings.Join(cfg.DefaultResources, ",")
	fs.StringVar(&resources, "resources", resources, "Comma-separated default resource filter")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.DefaultResources = utils.SplitAndTrim(resources, ",")
	return nil
}
