// Package config provides configuration management for the dmsdk CLI.
//
// Settings resolve from four layers with increasing precedence: built-in
// defaults, a dmsdk.yaml file, DMSDK_-prefixed environment variables, and
// explicitly set command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// DefaultFormat is the export format used when convert is run
	// without --to. Must name a registered writer.
	DefaultFormat string `koanf:"default_format"`
	// Strict makes validate treat soft diagnostics as failures.
	Strict bool `koanf:"strict"`
	// Verbose enables debug logging on stderr.
	Verbose bool `koanf:"verbose"`
	// Output selects the rendering mode: text or json.
	Output string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultFormat = "odcs"
	DefaultOutput = "text"
)
