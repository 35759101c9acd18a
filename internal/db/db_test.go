package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  'postgres://u:p@h:5432/db'  ", "postgres://u:p@h:5432/db"},
		{"host=h   user=u dbname=db", "host=h user=u dbname=db sslmode=disable"},
		{"host=h user=u dbname=db sslmode=require", "host=h user=u dbname=db sslmode=require"},
		{"not a dsn", "not a dsn"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeDSN(c.in), "input %q", c.in)
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "host=h password=*** dbname=db", MaskDSN("host=h password=secret dbname=db"))
	assert.Equal(t, "postgres://u:***@h:5432/db", MaskDSN("postgres://u:secret@h:5432/db"))
}

func TestDialectorMemory(t *testing.T) {
	_, _, err := Dialector(config.DatabaseConfig{Driver: config.DriverMemory})
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestOpenMigrateSeedSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crm.db")
	conn, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path, ConnectRetries: 1}, zap.NewNop())
	require.NoError(t, err)
	s := store.NewGorm(conn)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, Migrate(conn))
	// Idempotent.
	require.NoError(t, Migrate(conn))

	ctx := context.Background()
	n, err := Seed(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, len(DemoArticles()), n)

	n, err = Seed(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)

	articles, err := s.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, len(DemoArticles()))
}

func TestSeedMemoryStore(t *testing.T) {
	n, err := Seed(context.Background(), store.NewMemory())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
