package db

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestMigrate_CreatesEveryTable(t *testing.T) {
	gdb := openMemory(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	// Running twice must be a no-op.
	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Ping(ctx, gdb))
}

func TestMigrate_StringListRoundTrip(t *testing.T) {
	gdb := openMemory(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, gdb))

	c := &models.Course{Title: "First aid", Price: 1500, Highlights: models.StringList{"CPR", "burns"}, IsActive: true}
	require.NoError(t, gdb.WithContext(ctx).Create(c).Error)

	var got models.Course
	require.NoError(t, gdb.WithContext(ctx).First(&got, "id = ?", c.ID).Error)
	assert.Equal(t, models.StringList{"CPR", "burns"}, got.Highlights)
}
