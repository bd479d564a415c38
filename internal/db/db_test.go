package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	path := filepath.Join(dir, "skins.db")

	database, err := Open("sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer database.Close()

	_, err = os.Stat(dir)
	require.NoError(t, err, "data directory should be created")

	var name string
	err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='card_skins'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "card_skins", name)

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skins.db")

	first, err := Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open("sqlite", path)
	require.NoError(t, err)
	defer second.Close()
}

func TestMigrateDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skins.db")

	database, err := Open("sqlite", path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, MigrateDown(database.DB, "sqlite"))

	var count int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='card_skins'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init("nope", "whatever")
	assert.Error(t, err)
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", dialect("sqlite"))
	assert.Equal(t, "postgres", dialect("pgx"))
	assert.Equal(t, "mysql", dialect("mysql"))
}
