package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nibzard/capplan-go/internal/utils"
)

// loadDotEnv exports the variables in path that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// loadFromEnv overrides config from CAPPLAN_* environment variables.
func loadFromEnv(cfg *Config) error {
	strs := []struct {
		key    string
		target *string
	}{
		{"CAPPLAN_PROJECT", &cfg.ProjectFile},
		{"CAPPLAN_SCHEMA", &cfg.SchemaFile},
		{"CAPPLAN_LOG_LEVEL", &cfg.Log.Level},
		{"CAPPLAN_LOG_FORMAT", &cfg.Log.Format},
		{"CAPPLAN_LOG_FILE", &cfg.Log.File},
		{"CAPPLAN_STORE_BACKEND", &cfg.Store.Backend},
		{"CAPPLAN_STORE_PATH", &cfg.Store.Path},
		{"CAPPLAN_MONGO_URI", &cfg.Store.MongoURI},
		{"CAPPLAN_MONGO_DATABASE", &cfg.Store.MongoDatabase},
		{"CAPPLAN_MONGO_COLLECTION", &cfg.Store.MongoCollection},
		{"CAPPLAN_API_ADDR", &cfg.API.Addr},
		{"CAPPLAN_API_ROOT", &cfg.API.Root},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.target = v
		}
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"CAPPLAN_STORE_TIMEOUT", &cfg.Store.TimeoutSeconds},
		{"CAPPLAN_RENDER_WIDTH", &cfg.Render.Width},
	}
	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", i.key, v)
		}
		*i.target = n
	}

	bools := []struct {
		key    string
		target *bool
	}{
		{"CAPPLAN_LOG_TIMESTAMPS", &cfg.Log.Timestamps},
		{"CAPPLAN_LOG_CALLER", &cfg.Log.Caller},
	}
	for _, b := range bools {
		if v := os.Getenv(b.key); v != "" {
			*b.target = boolFromString(v)
		}
	}

	if v := os.Getenv("CAPPLAN_RESOURCES"); v != "" {
		cfg.DefaultResources = utils.SplitAndTrim(v, ",")
	}
	return nil
}

func boolFromString(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v == "yes" || v == "on"
	}
	return b
}
