package repository

import (
	"context"
	"fmt"
	"time"

	"learngenix_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository (user_id, exercise_id) 唯一，重复 Create 返回 gorm.ErrDuplicatedKey
type ProgressRepository struct {
	crudRepository[model.UserProgress]
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{crudRepository[model.UserProgress]{DB: db, name: "progress"}}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return NewProgressRepository(tx)
}

func (r *ProgressRepository) FindByUserAndExercise(ctx context.Context, userID, exerciseID string) (*model.UserProgress, error) {
	q := r.db(ctx).Where("user_id = ? AND exercise_id = ?", userID, exerciseID)
	return first[model.UserProgress](q, r.name)
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]model.UserProgress, error) {
	items := make([]model.UserProgress, 0)
	err := r.db(ctx).
		Preload("Exercise").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return items, nil
}

func (r *ProgressRepository) Recent(ctx context.Context, userID string, limit int) ([]model.UserProgress, error) {
	return r.ListByUser(ctx, userID, 0, limit)
}

type StatsRepository struct {
	crudRepository[model.UserStats]
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{crudRepository[model.UserStats]{DB: db, name: "stats"}}
}

func (r *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return NewStatsRepository(tx)
}

func (r *StatsRepository) FindByUser(ctx context.Context, userID string) (*model.UserStats, error) {
	return first[model.UserStats](r.db(ctx).Where("user_id = ?", userID), r.name)
}

// RecordSubmission 以单条 upsert 累加一次作答。
// average_score 必须排在第一位：MySQL 按从左到右使用已更新的列值。
func (r *StatsRepository) RecordSubmission(ctx context.Context, userID string, score float64, timeSpent int) error {
	now := time.Now().UTC()
	points := int(score)

	stats := &model.UserStats{
		UserID:             userID,
		TotalExercises:     1,
		CompletedExercises: 1,
		AverageScore:       score,
		TotalTime:          timeSpent,
		TotalPoints:        points,
		CurrentStreak:      1,
		BestStreak:         1,
		LastActivity:       &now,
	}

	err := r.db(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "average_score"}, Value: gorm.Expr(
					"(user_stats.average_score * user_stats.completed_exercises + ?) / (user_stats.completed_exercises + 1)", score)},
				{Column: clause.Column{Name: "completed_exercises"}, Value: gorm.Expr("user_stats.completed_exercises + 1")},
				{Column: clause.Column{Name: "total_exercises"}, Value: gorm.Expr("user_stats.total_exercises + 1")},
				{Column: clause.Column{Name: "total_time"}, Value: gorm.Expr("user_stats.total_time + ?", timeSpent)},
				{Column: clause.Column{Name: "total_points"}, Value: gorm.Expr("user_stats.total_points + ?", points)},
				{Column: clause.Column{Name: "last_activity"}, Value: now},
				{Column: clause.Column{Name: "updated_at"}, Value: now},
			},
		}).
		Create(stats).Error
	if err != nil {
		return fmt.Errorf("record submission stats: %w", err)
	}
	return nil
}
