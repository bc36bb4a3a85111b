// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"testing"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"
	"learngenix_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 迁移完成的 sqlite 内存库；单连接保证所有查询落在同一个库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: email, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateExercise(t testing.TB, db *gorm.DB, mutate func(*model.Exercise)) *model.Exercise {
	t.Helper()
	answer := "42"
	ex := &model.Exercise{
		Title:         "Meaning of life",
		Content:       "What is 6 x 7?",
		Type:          model.OpenEnded,
		Difficulty:    model.Medium,
		CorrectAnswer: &answer,
		Points:        model.DefaultExercisePoints,
	}
	if mutate != nil {
		mutate(ex)
	}
	require.NoError(t, db.Create(ex).Error)
	return ex
}

func CreateAchievement(t testing.TB, db *gorm.DB, name string) *model.Achievement {
	t.Helper()
	a := &model.Achievement{Name: name, Description: name, Icon: "trophy"}
	require.NoError(t, db.Create(a).Error)
	return a
}
