package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLiteral(t *testing.T) {
	value, err := Resolver{}.Resolve("plain-password")
	require.NoError(t, err)
	assert.Equal(t, "plain-password", value)
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("MIRRORSYNC_TEST_SECRET", "hunter2")

	value, err := Resolver{}.Resolve("env:MIRRORSYNC_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestResolveEnvMissing(t *testing.T) {
	_, err := Resolver{}.Resolve("env:MIRRORSYNC_TEST_UNSET")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIRRORSYNC_TEST_UNSET")
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\n"), 0600))

	value, err := Resolver{}.Resolve("file:" + path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestResolveFileMissing(t *testing.T) {
	_, err := Resolver{}.Resolve("file:" + filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
