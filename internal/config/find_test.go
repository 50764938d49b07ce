package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("# test\n"), 0644))
}

func TestFind(t *testing.T) {
	oldSystem := SystemPath
	t.Cleanup(func() { SystemPath = oldSystem })

	t.Run("explicit path wins", func(t *testing.T) {
		dir := t.TempDir()
		explicit := filepath.Join(dir, "mine.hcl")
		writeFile(t, explicit)
		writeFile(t, filepath.Join(dir, "xdg", AppName, "config.yml"))

		got, err := Find(explicit, envOf(map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, "xdg")}))
		require.NoError(t, err)
		assert.Equal(t, explicit, got)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.yml"), envOf(nil))
		require.Error(t, err)
	})

	t.Run("xdg config home", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, AppName, "config.hcl")
		writeFile(t, want)

		got, err := Find("", envOf(map[string]string{"XDG_CONFIG_HOME": dir}))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		want := filepath.Join(home, ".config", AppName, "config.yml")
		writeFile(t, want)

		got, err := Find("", envOf(map[string]string{"HOME": home}))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("system path", func(t *testing.T) {
		SystemPath = filepath.Join(t.TempDir(), "etc", "config.yml")
		writeFile(t, SystemPath)

		got, err := Find("", envOf(map[string]string{"HOME": t.TempDir()}))
		require.NoError(t, err)
		assert.Equal(t, SystemPath, got)
	})

	t.Run("nothing found", func(t *testing.T) {
		SystemPath = filepath.Join(t.TempDir(), "absent.yml")
		_, err := Find("", envOf(map[string]string{"HOME": t.TempDir()}))
		assert.ErrorIs(t, err, ErrNoConfig)
	})
}
