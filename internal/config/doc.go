// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.capplan/capplan.toml or OS-specific config directory)
// 3. Project config file (capplan.toml or .capplan.toml in the project root)
// 4. A .env file in the project root (never overrides the real environment)
// 5. Environment variables (CAPPLAN_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.capplan/capplan.toml (preferred)
// - Windows: %APPDATA%\capplan\capplan.toml
// - macOS: ~/Library/Application Support/capplan/capplan.toml
// - Linux/BSD: $XDG_CONFIG_HOME/capplan/capplan.toml or ~/.config/capplan/capplan.toml
package config
