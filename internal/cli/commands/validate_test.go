package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandClean(t *testing.T) {
	path := writeContract(t, t.TempDir(), "customers.yaml", odcsCustomersDoc)

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, path+": ok")
	assert.Contains(t, output, "Checked 1 documents: 0 failed, 0 diagnostics")
}

func TestValidateCommandReportsDiagnostics(t *testing.T) {
	path := writeContract(t, t.TempDir(), "events.yaml", diagnosticsDoc)

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute(), "diagnostics alone should not fail validation")

	output := buf.String()
	assert.Contains(t, output, "1 diagnostics")
	assert.Contains(t, output, "invalid_field")
	assert.Contains(t, output, "copper")
}

func TestValidateCommandStrictFlag(t *testing.T) {
	path := writeContract(t, t.TempDir(), "events.yaml", diagnosticsDoc)

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--strict", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict")
}

func TestValidateCommandStrictFromEnv(t *testing.T) {
	t.Setenv("DMSDK_STRICT", "true")
	path := writeContract(t, t.TempDir(), "events.yaml", diagnosticsDoc)

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err, "strict from config should behave like --strict")
	assert.Contains(t, err.Error(), "strict")
}

func TestValidateCommandHardFailure(t *testing.T) {
	path := writeContract(t, t.TempDir(), "broken.yaml", "title: not a contract\n")

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
	assert.Contains(t, buf.String(), "error:")
}

func TestValidateCommandMixedBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeContract(t, dir, "good.yaml", odcsCustomersDoc)
	noisy := writeContract(t, dir, "noisy.yaml", diagnosticsDoc)
	bad := writeContract(t, dir, "bad.yaml", "title: not a contract\n")

	cmd := NewValidateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{good, noisy, bad})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 documents failed to parse")
	assert.Contains(t, buf.String(), "Checked 3 documents: 1 failed, 1 diagnostics")
}
