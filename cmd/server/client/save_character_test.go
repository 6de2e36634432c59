package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()

	data, err := readPayload("")
	require.NoError(t, err)
	assert.Nil(t, data)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"currency":{"coins":4}}`), 0o600))
	data, err = readPayload(good)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":{"coins":4}}`, string(data))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"currency":`), 0o600))
	_, err = readPayload(bad)
	assert.Error(t, err)

	_, err = readPayload(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
