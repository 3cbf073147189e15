package exporter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
)

func TestNames_ContainsBundledWriters(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "odcs")
	assert.Contains(t, names, "odcs-v3.1.0")
	assert.Contains(t, names, "simple")
	assert.IsIncreasing(t, names, "names should be sorted")
}

func TestExport_UnknownFormat(t *testing.T) {
	tbl := &contract.Table{ID: uuid.New(), Name: "users"}

	_, err := Export(tbl, "parquet")
	require.Error(t, err)

	var ufe *UnknownFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "parquet", ufe.Format)
	assert.Contains(t, ufe.Available, "odcs", "error should list available formats")
}

func TestExport_EmptyFormat(t *testing.T) {
	tbl := &contract.Table{ID: uuid.New(), Name: "users"}
	_, err := Export(tbl, "")
	require.Error(t, err)
}

func TestRegister_CustomWriter(t *testing.T) {
	Register("test-null", WriterFunc(func(tbl *contract.Table) ([]byte, error) {
		return []byte(tbl.Name), nil
	}))

	assert.True(t, IsRegistered("test-null"))

	out, err := Export(&contract.Table{Name: "events"}, "test-null")
	require.NoError(t, err)
	assert.Equal(t, "events", string(out))
}

func TestGet_AliasSharesWriter(t *testing.T) {
	w1, ok1 := Get("odcs")
	w2, ok2 := Get("odcs-v3.1.0")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.NotNil(t, w1)
	assert.NotNil(t, w2)
}
