package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateSecret_ConfiguredWins(t *testing.T) {
	secret, err := LoadOrCreateSecret("from-env", filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
}

func TestLoadOrCreateSecret_GeneratesAndPersists(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "keys", "master.key")

	first, err := LoadOrCreateSecret("", keyFile)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	info, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second load reads the same secret back.
	second, err := LoadOrCreateSecret("", keyFile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
