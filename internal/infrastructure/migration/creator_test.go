package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add products table", "add_products_table"},
		{"Add-Products-Table", "add_products_table"},
		{"ADD_PRODUCTS_TABLE", "add_products_table"},
		{"add__products__table", "add_products_table"},
		{"Add Products 123", "add_products_123"},
		{"create-stock-movement", "create_stock_movement"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add products table", "Create products table with stock fields")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is a YYYYMMDDHHMMSS timestamp.
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add products table")
	assert.Contains(t, string(upContent), "Create products table with stock fields")
	assert.Contains(t, string(upContent), "Add UP statements below.")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "rollback")
	assert.Contains(t, string(downContent), "Add DOWN statements below.")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nestedPath, "test", "test migration")
	require.NoError(t, err)
	assert.NotNil(t, mf)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000002_add_products.up.sql",
		"000002_add_products.down.sql",
		"000003_add_movements.up.sql",
		"000003_add_movements.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
	}

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	for _, exp := range []string{"000001_init_schema", "000002_add_products", "000003_add_movements"} {
		assert.Contains(t, migrations, exp)
	}
}

func TestListMigrations_EmptyDirectory(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresNonMigrationFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
		"config.yaml",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("test"), 0644))
	}

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations, "000001_init")
}

func TestListMigrations_IgnoresDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.up.sql"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.down.sql"), []byte("test"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir.up.sql"), 0755))

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
}
