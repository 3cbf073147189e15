package config

import (
	"fmt"
	"slices"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/exporter"
)

// outputModes are the accepted values for the output setting.
var outputModes = []string{"text", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, c.Output) {
		return fmt.Errorf("invalid output mode %q (must be one of: text, json)", c.Output)
	}
	if c.DefaultFormat != "" && !exporter.IsRegistered(c.DefaultFormat) {
		return fmt.Errorf("unknown default format %q\nAvailable formats: %v\nHint: run 'dmsdk formats' to list registered writers", c.DefaultFormat, exporter.Names())
	}
	return nil
}
