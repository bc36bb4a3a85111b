package repository

import (
	"context"
	"errors"
	"fmt"

	"learngenix_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	crudRepository[model.Achievement]
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{crudRepository[model.Achievement]{DB: db, name: "achievement"}}
}

func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return NewAchievementRepository(tx)
}

func (r *AchievementRepository) FindByName(ctx context.Context, name string) (*model.Achievement, error) {
	return first[model.Achievement](r.db(ctx).Where("name = ?", name), r.name)
}

func (r *AchievementRepository) List(ctx context.Context, skip, limit int) ([]model.Achievement, error) {
	return r.page(ctx, r.db(ctx).Order("name"), skip, limit)
}

type UserAchievementRepository struct {
	crudRepository[model.UserAchievement]
}

func NewUserAchievementRepository(db *gorm.DB) *UserAchievementRepository {
	return &UserAchievementRepository{crudRepository[model.UserAchievement]{DB: db, name: "user achievement"}}
}

func (r *UserAchievementRepository) WithTx(tx *gorm.DB) *UserAchievementRepository {
	return NewUserAchievementRepository(tx)
}

func (r *UserAchievementRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.UserAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count user achievements: %w", err)
	}
	return count, nil
}

// Unlock 关联成就，已存在的 (user, achievement) 不重复插入；返回是否新插入
func (r *UserAchievementRepository) Unlock(ctx context.Context, ua *model.UserAchievement) (bool, error) {
	result := r.db(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(ua)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("unlock achievement: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 按解锁时间倒序，附带成就目录信息
func (r *UserAchievementRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]model.UserAchievement, error) {
	q := r.db(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC")
	return r.page(ctx, q, skip, limit)
}

func (r *UserAchievementRepository) Recent(ctx context.Context, userID string, limit int) ([]model.UserAchievement, error) {
	return r.ListByUser(ctx, userID, 0, limit)
}
