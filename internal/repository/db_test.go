package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-desk/internal/config"
	"shortlink-desk/internal/model"
)

func TestOpenDB_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "links.db")

	db, err := OpenDB(config.DBConfig{Driver: "sqlite", DSN: dsn}, zap.NewNop(), zap.NewAtomicLevel())
	require.NoError(t, err)
	defer func() { assert.NoError(t, CloseDB(db)) }()

	assert.FileExists(t, dsn)
	assert.True(t, db.Migrator().HasTable(&model.ShortLink{}))
	assert.True(t, db.Migrator().HasTable(&model.DailyStat{}))
	assert.True(t, db.Migrator().HasIndex(&model.ShortLink{}, "ShortCode"))
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(config.DBConfig{Driver: "oracle", DSN: "x"}, zap.NewNop(), zap.NewAtomicLevel())
	assert.ErrorContains(t, err, "unsupported db driver")
}
