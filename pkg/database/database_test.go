package database

import (
	"errors"
	"fmt"
	"testing"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateAndSeedAreIdempotent(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	require.NoError(t, SeedCatalog(db))
	require.NoError(t, SeedCatalog(db))

	var count int64
	require.NoError(t, db.Model(&model.Achievement{}).Count(&count).Error)
	assert.Equal(t, int64(len(defaultAchievements)), count)

	var first model.Achievement
	require.NoError(t, db.Where("name = ?", model.FirstCorrectAchievement).First(&first).Error)
	assert.NotEmpty(t, first.ID)

	require.NoError(t, db.Model(&model.Subject{}).Count(&count).Error)
	assert.Equal(t, int64(len(defaultSubjects)), count)
}

func TestInitRedisWithoutAddress(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormLogger(w, false)})
	require.NoError(t, err)
	defer Close(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Subject{}))
	w.lines = nil

	var subject model.Subject
	err = db.Where("id = ?", model.GenerateUUID()).First(&subject).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, w.lines)

	// 真正的错误仍然输出
	err = db.Table("missing_table").First(&subject).Error
	require.Error(t, err)
	require.NotEmpty(t, w.lines)
	assert.Contains(t, w.lines[len(w.lines)-1], "missing_table")
}
