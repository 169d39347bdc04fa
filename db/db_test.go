package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"MePlay/config"
	"MePlay/model"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "meplay", DBPassword: "s3cret", DBHost: "db.internal", DBPort: "3307", DBName: "music"}
	assert.Equal(t, "meplay:s3cret@tcp(db.internal:3307)/music?charset=utf8mb4&parseTime=true&loc=Local", DSN(cfg))
}

func TestAutoMigrate(t *testing.T) {
	assert.Error(t, AutoMigrate(nil))

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, AutoMigrate(gdb))
	// 重复迁移不应报错
	require.NoError(t, AutoMigrate(gdb))

	for _, m := range []interface{}{&model.LikedSong{}, &model.Playlist{}, &model.PlaylistSong{}} {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, gormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("info"))
}

func TestCloseWithoutConnection(t *testing.T) {
	DB, GormDB = nil, nil
	assert.NoError(t, CloseDB())
	assert.NoError(t, CloseGormDB())
}
