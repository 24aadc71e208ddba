package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/capplan-go/internal/utils"
)

// Load loads configuration from all sources in priority order and parses the
// global flags from args. Remaining arguments are available via fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. .env, then the environment
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file. Keys not present in
// the file keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)
	cfg.ProjectFile = expandPath(cfg.ProjectFile)
	cfg.DefaultResources = utils.NormalizeList(cfg.DefaultResources)

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	// Make paths absolute if they're relative
	cfg.ProjectFile = cfg.ResolvePath(cfg.ProjectFile)
	cfg.SchemaFile = cfg.ResolvePath(cfg.SchemaFile)
	cfg.Store.Path = cfg.ResolvePath(cfg.Store.Path)
	cfg.Log.File = cfg.ResolvePath(cfg.Log.File)

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case BackendFile, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q, must be %s or %s", cfg.Store.Backend, BackendFile, BackendMongo)
	}
	if cfg.Store.TimeoutSeconds <= 0 {
		cfg.Store.TimeoutSeconds = DefaultStoreTimeout
	}
	if cfg.Render.Width <= 0 {
		cfg.Render.Width = DefaultRenderWidth
	}
	if !strings.HasPrefix(cfg.API.Root, "/") {
		cfg.API.Root = "/" + cfg.API.Root
	}
	if !strings.HasSuffix(cfg.API.Root, "/") {
		cfg.API.Root += "/"
	}

	return nil
}

// ResolvePath makes p absolute relative to the project root. Empty paths stay
// empty.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}
