package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServersFromYAMLRegistersEveryEntry(t *testing.T) {
	srv := fakeServerHandler(initOKHandlers(nil))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "servers.yaml")
	content := "servers:\n" +
		"  - name: s1\n" +
		"    url: " + srv.URL + "\n" +
		"    timeout: 5s\n" +
		"    maxRetries: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c := NewClient()
	require.NoError(t, LoadServersFromYAML(t.Context(), c, path))

	assert.Contains(t, c.ServerNames(), "s1")
}

func TestLoadServersFromYAMLRejectsInvalidTimeout(t *testing.T) {
	srv := fakeServerHandler(initOKHandlers(nil))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "servers.yaml")
	content := "servers:\n" +
		"  - name: s1\n" +
		"    url: " + srv.URL + "\n" +
		"    timeout: not-a-duration\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c := NewClient()
	err := LoadServersFromYAML(t.Context(), c, path)
	require.Error(t, err)
}

func TestLoadServersFromYAMLMissingFileErrors(t *testing.T) {
	c := NewClient()
	err := LoadServersFromYAML(t.Context(), c, "/nonexistent/path/servers.yaml")
	require.Error(t, err)
}
