package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpMigrations(t *testing.T) {
	t.Run("repository migrations", func(t *testing.T) {
		files, err := UpMigrations(filepath.Join("..", "..", "..", "..", "migrations"))
		require.NoError(t, err)
		require.NotEmpty(t, files)
		assert.Equal(t, "000001_geocode_requests.up.sql", filepath.Base(files[0]))
	})

	t.Run("only up files in order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000002_b.up.sql",
			"000001_a.down.sql",
			"000001_a.up.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o700))

		files, err := UpMigrations(dir)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "000001_a.up.sql", filepath.Base(files[0]))
		assert.Equal(t, "000002_b.up.sql", filepath.Base(files[1]))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := UpMigrations(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})
}
