package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func TestOpen_Sqlite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "probe.db")

	db, err := Open(Options{Driver: "sqlite", DSN: dsn}, &probe{})
	require.NoError(t, err)
	require.NoError(t, db.Create(&probe{Name: "a"}).Error)

	var n int64
	require.NoError(t, db.Model(&probe{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
