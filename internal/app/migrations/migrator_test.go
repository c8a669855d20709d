package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", MigrationVersion("001_init.sql"))
	assert.Equal(t, "002", MigrationVersion("/tmp/x/002_add_index_on_tasks.sql"))
	assert.Equal(t, "plain.sql", MigrationVersion("plain.sql"))
}

func TestListMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755))

	files, err := ListMigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}, files)
}

func TestListMigrationFiles_MissingDir(t *testing.T) {
	_, err := ListMigrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSchemaFileIsShipped(t *testing.T) {
	files, err := ListMigrationFiles("sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", MigrationVersion(files[0]))
}
