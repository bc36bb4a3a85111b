package repository

import (
	"context"
	"fmt"

	"learngenix_backend/internal/model"

	"gorm.io/gorm"
)

// ExerciseFilter 列表查询条件，零值字段不参与过滤
type ExerciseFilter struct {
	SubjectID  string
	TopicID    string
	Difficulty model.Difficulty
	Type       model.ExerciseType
}

type ExerciseRepository struct {
	crudRepository[model.Exercise]
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{crudRepository[model.Exercise]{DB: db, name: "exercise"}}
}

func (r *ExerciseRepository) WithTx(tx *gorm.DB) *ExerciseRepository {
	return NewExerciseRepository(tx)
}

func (r *ExerciseRepository) List(ctx context.Context, filter ExerciseFilter, skip, limit int) ([]model.Exercise, error) {
	q := r.db(ctx).Order("created_at DESC")
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.TopicID != "" {
		q = q.Where("topic_id = ?", filter.TopicID)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	return r.page(ctx, q, skip, limit)
}

// ListUnanswered 用户尚未作答的题目，subjectID 与 difficulty 为空时不过滤
func (r *ExerciseRepository) ListUnanswered(ctx context.Context, userID, subjectID string, difficulty model.Difficulty) ([]model.Exercise, error) {
	answered := r.DB.Model(&model.UserProgress{}).Select("exercise_id").Where("user_id = ?", userID)

	q := r.db(ctx).Where("id NOT IN (?)", answered)
	if subjectID != "" {
		q = q.Where("subject_id = ?", subjectID)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}

	var exercises []model.Exercise
	if err := q.Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("list unanswered exercises: %w", err)
	}
	return exercises, nil
}

func (r *ExerciseRepository) CountByCreator(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.Exercise{}).Where("created_by = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return count, nil
}
