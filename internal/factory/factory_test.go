package factory

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/config"
	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/store/sqlite"
)

func TestNewStore_SQLite(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "freight.db")

	st, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.(io.Closer).Close() })

	lst, err := st.Offers().ListActive(context.Background(), model.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, lst)
}

func TestNewStore_Errors(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "mysql"
	_, err := NewStore(context.Background(), cfg, zerolog.Nop())
	assert.EqualError(t, err, "unknown DB_DRIVER: mysql")

	cfg.DBDriver = "postgres"
	cfg.PostgresDSN = ""
	_, err = NewStore(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "FREIGHT_AGENT_POSTGRES_DSN is required")
}

func TestNewStore_RejectsDriftedSchema(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "freight.db")

	db, err := sqlite.Open(cfg.SQLitePath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE bookings (id TEXT PRIMARY KEY, created_at INTEGER NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify sqlite schema")
	assert.Contains(t, err.Error(), "bookings")
}

func TestNewCompletionClient(t *testing.T) {
	cfg := config.NewForTesting()
	assert.NotNil(t, NewCompletionClient(cfg, zerolog.Nop()))
}
