package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"users-api/internal/config"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres, config.DriverSQLite} {
		d, err := Dialector(config.DatabaseConfig{Driver: driver, Path: "x.db"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name(), driver)
	}

	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "users.db")
	cfg.DB.MaxOpenConns = 1
	cfg.DB.MaxIdleConns = 1
	cfg.Logger.Level = "warn"

	db, err := NewDatabase(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.PingContext(context.Background()))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, CloseDatabase(db))
	assert.NoError(t, CloseDatabase(nil))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	rdb, err := NewRedisClient(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, rdb.Ping(context.Background()))
}
