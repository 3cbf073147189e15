// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewImportCommand(t *testing.T) {
	cmd := NewImportCommand()

	assert.Equal(t, "import <file>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Note: --output flag is a global persistent flag on root, not local to import
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	assert.Equal(t, "inspect <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate <file>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	// Verify flags exist
	flags := []string{"strict"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	assert.Equal(t, "convert <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"to", "output-file"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewFormatsCommand(t *testing.T) {
	cmd := NewFormatsCommand()

	assert.Equal(t, "formats", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch <dir>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	// Verify flags exist
	flags := []string{"debounce"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
