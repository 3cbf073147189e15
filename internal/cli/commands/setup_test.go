package commands

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixie79/data-modelling-sdk-sub000/internal/cli/config"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("DMSDK_DEFAULT_FORMAT", "")
	t.Setenv("DMSDK_STRICT", "")
	t.Setenv("DMSDK_VERBOSE", "")
	t.Setenv("DMSDK_OUTPUT", "")

	cfg := getConfig()
	assert.Equal(t, config.DefaultFormat, cfg.DefaultFormat)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Verbose)
}

func TestGetConfigEnvFallback(t *testing.T) {
	t.Setenv("DMSDK_DEFAULT_FORMAT", "simple")
	t.Setenv("DMSDK_STRICT", "true")
	t.Setenv("DMSDK_VERBOSE", "true")
	t.Setenv("DMSDK_OUTPUT", "json")

	cfg := getConfig()
	assert.Equal(t, "simple", cfg.DefaultFormat)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Output)
}

func TestGetConfigPrefersLoadedConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	defer config.ResetConfig()

	loaded, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	assert.Same(t, loaded, getConfig())
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DMSDK_TEST_KEY", "set")
	assert.Equal(t, "set", getEnvOrDefault("DMSDK_TEST_KEY", "fallback"))

	t.Setenv("DMSDK_TEST_KEY", "")
	assert.Equal(t, "fallback", getEnvOrDefault("DMSDK_TEST_KEY", "fallback"))
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("derived identity warns", func(t *testing.T) {
		path := writeContract(t, dir, "orders.yaml", simpleOrdersDoc)
		logBuf := new(bytes.Buffer)
		logger := slog.New(slog.NewTextHandler(logBuf, nil))

		tbl, format, err := loadTable(path, logger)
		require.NoError(t, err)
		assert.Equal(t, importer.FormatSimpleTabular, format)
		assert.Equal(t, "orders", tbl.Name)
		assert.True(t, tbl.IDDerived)
		assert.Contains(t, logBuf.String(), "derived a stable id")
	})

	t.Run("explicit identity stays quiet", func(t *testing.T) {
		path := writeContract(t, dir, "customers.yaml", odcsCustomersDoc)
		logBuf := new(bytes.Buffer)
		logger := slog.New(slog.NewTextHandler(logBuf, nil))

		tbl, format, err := loadTable(path, logger)
		require.NoError(t, err)
		assert.Equal(t, importer.FormatODCS, format)
		assert.False(t, tbl.IDDerived)
		assert.NotContains(t, logBuf.String(), "derived a stable id")
	})

	t.Run("missing file", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		_, _, err := loadTable(filepath.Join(dir, "absent.yaml"), logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("hard failure carries the path", func(t *testing.T) {
		path := writeContract(t, dir, "broken.yaml", "title: not a contract\n")
		logger := slog.New(slog.DiscardHandler)

		_, _, err := loadTable(path, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}
