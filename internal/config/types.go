package config

// Default values.
const (
	DefaultProjectFile     = "project.json"
	DefaultStoreBackend    = "file"
	DefaultStorePath       = "capplan.store.json"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "capplan"
	DefaultMongoCollection = "activities"
	DefaultStoreTimeout    = 10
	DefaultAPIAddr         = ":8080"
	DefaultAPIRoot         = "/capplan/api/v1.0/"
	DefaultRenderWidth     = 80
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Store backends.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config holds the full configuration for capplan.
type Config struct {
	// Paths
	ProjectFile string `toml:"project_file"`
	SchemaFile  string `toml:"schema_file"` // empty uses the built-in schema

	// DefaultResources filters todo output when no resource is given.
	DefaultResources []string `toml:"default_resources"`

	Log    LogConfig    `toml:"log"`
	Store  StoreConfig  `toml:"store"`
	API    APIConfig    `toml:"api"`
	Render RenderConfig `toml:"render"`

	// Computed
	ProjectRoot string `toml:"-"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
	Caller     bool   `toml:"caller"`
	File       string `toml:"file"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend         string `toml:"backend"` // file or mongo
	Path            string `toml:"path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// APIConfig configures the HTTP API.
type APIConfig struct {
	Addr string `toml:"addr"`
	Root string `toml:"root"`
}

// RenderConfig configures text rendering.
type RenderConfig struct {
	Width int `toml:"width"`
}

// setDefaults fills cfg with built-in defaults.
func setDefaults(cfg *Config) {
	cfg.ProjectFile = DefaultProjectFile
	cfg.Log = LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
	cfg.Store = StoreConfig{
		Backend:         DefaultStoreBackend,
		Path:            DefaultStorePath,
		MongoURI:        DefaultMongoURI,
		MongoDatabase:   DefaultMongoDatabase,
		MongoCollection: DefaultMongoCollection,
		TimeoutSeconds:  DefaultStoreTimeout,
	}
	cfg.API = APIConfig{
		Addr: DefaultAPIAddr,
		Root: DefaultAPIRoot,
	}
	cfg.Render = RenderConfig{Width: DefaultRenderWidth}
}
