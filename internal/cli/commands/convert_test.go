package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/exporter"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

func TestConvertCommandToODCS(t *testing.T) {
	path := writeContract(t, t.TempDir(), "orders.yaml", simpleOrdersDoc)

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--to", "odcs", path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "apiVersion: v3.1.0")
	assert.Contains(t, output, "kind: DataContract")
	assert.Contains(t, output, "orders")
}

func TestConvertCommandRoundTrip(t *testing.T) {
	path := writeContract(t, t.TempDir(), "orders.yaml", simpleOrdersDoc)

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--to", "odcs", path})

	require.NoError(t, cmd.Execute())

	// The emitted document must import cleanly and describe the same table.
	tbl, diags, err := importer.Import(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "orders", tbl.Name)
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, "order_id", tbl.Columns[0].Name)
	assert.True(t, tbl.Columns[0].PrimaryKey)
	assert.False(t, tbl.Columns[0].Nullable)
}

func TestConvertCommandDefaultsToConfiguredFormat(t *testing.T) {
	t.Setenv("DMSDK_DEFAULT_FORMAT", "simple")
	path := writeContract(t, t.TempDir(), "customers.yaml", odcsCustomersDoc)

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "name: customers")
	assert.Contains(t, output, "columns:")
	assert.NotContains(t, output, "kind: DataContract")
}

func TestConvertCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeContract(t, dir, "orders.yaml", simpleOrdersDoc)
	outPath := filepath.Join(dir, "orders.odcs.yaml")

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--to", "odcs", "-w", outPath, path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Wrote "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: DataContract")
}

func TestConvertCommandUnknownFormat(t *testing.T) {
	path := writeContract(t, t.TempDir(), "orders.yaml", simpleOrdersDoc)

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--to", "avro", path})

	err := cmd.Execute()
	require.Error(t, err)

	var unknownErr *exporter.UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "avro", unknownErr.Format)
	assert.Contains(t, unknownErr.Available, "odcs")
}

func TestConvertCommandHardFailure(t *testing.T) {
	path := writeContract(t, t.TempDir(), "broken.yaml", "not: [valid\n")

	cmd := NewConvertCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--to", "odcs", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist), "parse failures should not look like missing files")
}
