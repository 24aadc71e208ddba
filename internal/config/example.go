package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# capplan configuration file
# Values can be overridden by .env, CAPPLAN_* environment variables or CLI flags

# Project document (relative to project root); .json, .jsonc, .yaml or .cbor
project_file = "project.json"

# JSON Schema for validation (empty uses the built-in schema)
# schema_file = "project.schema.json"

# Resource filter applied by "todo" when none is given
# default_resources = ["piet", "klaas"]

[log]
level = "info"     # debug, info, warn, error
format = "text"    # text, json, logfmt
timestamps = false
caller = false
# file = "~/.capplan/capplan.log"  # rotated at 10 MB, 3 backups

[store]
backend = "file"   # file or mongo
path = "capplan.store.json"
mongo_uri = "mongodb://localhost:27017"
mongo_database = "capplan"
mongo_collection = "activities"
timeout_seconds = 10

[api]
addr = ":8080"
root = "/capplan/api/v1.0/"

[render]
width = 80
`
}
