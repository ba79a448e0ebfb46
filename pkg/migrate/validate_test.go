package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidateDir_ShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDir_ReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20260101000000_ok.sql", "-- +goose Up\n-- +goose Down\n")
	writeFile(t, dir, "20260101000000_dup.sql", "-- +goose Up\n-- +goose Down\n")
	writeFile(t, dir, "bad-name.sql", "-- +goose Up\n")
	writeFile(t, dir, "20260101000001_no_down.sql", "-- +goose Up\n")
	writeFile(t, dir, "README.md", "ignored")

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 3)
	require.Contains(t, err.Error(), "duplicate migration version")
	require.Contains(t, err.Error(), "invalid migration filename")
	require.Contains(t, err.Error(), "missing \"-- +goose Down\"")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Menu Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_menu_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "add supplier email", at)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260105090000_add_supplier_email.sql"), path)

	_, err = createSQLMigrationAt(dir, "add supplier email", at)
	require.ErrorContains(t, err, "already exists")
}

func TestMigrationSlug(t *testing.T) {
	require.Equal(t, "add_menu_notes", migrationSlug("  Add Menu--Notes! "))
	require.Equal(t, "", migrationSlug("***"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestEmbeddedMatchesShippedMigrations(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)

	compiled, err := fs.Glob(Embedded(), "*.sql")
	require.NoError(t, err)

	require.Len(t, compiled, len(onDisk))
	for i, path := range onDisk {
		require.Equal(t, filepath.Base(path), compiled[i])
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("20260105090300")
	require.NoError(t, err)
	require.EqualValues(t, 20260105090300, v)

	for _, bad := range []string{"", "2026", "2026010509030x", "-0260105090300"} {
		_, err := ParseVersion(bad)
		require.Error(t, err, bad)
	}
}
