package sqlitemigrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Zevankai/Equipment-Tool/internal/pkg/sqlitemigrate"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyRunsEachFileOnce(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	migrations := fstest.MapFS{
		"001_init.sql":  {Data: []byte("-- +migrate Up\nCREATE TABLE items (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;\n")},
		"002_extra.sql": {Data: []byte("ALTER TABLE items ADD COLUMN name TEXT;")},
		"README.md":     {Data: []byte("not sql")},
	}

	require.NoError(t, sqlitemigrate.Apply(ctx, db, migrations, ""))
	require.NoError(t, sqlitemigrate.Apply(ctx, db, migrations, "."))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)

	_, err := db.Exec("INSERT INTO items (id, name) VALUES ('a', 'rope')")
	assert.NoError(t, err)
}

func TestApplyRejectsBrokenSQL(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE (")},
	}

	assert.Error(t, sqlitemigrate.Apply(context.Background(), db, migrations, ""))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nA\n", sqlitemigrate.UpSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	assert.Equal(t, "plain", sqlitemigrate.UpSection("plain"))
	assert.Equal(t, "\nA", sqlitemigrate.UpSection("-- +migrate Up\nA"))
}
