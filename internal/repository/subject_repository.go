package repository

import (
	"context"

	"learngenix_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	crudRepository[model.Subject]
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{crudRepository[model.Subject]{DB: db, name: "subject"}}
}

func (r *SubjectRepository) List(ctx context.Context, skip, limit int) ([]model.Subject, error) {
	return r.page(ctx, r.db(ctx).Order("name"), skip, limit)
}

type TopicRepository struct {
	crudRepository[model.Topic]
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{crudRepository[model.Topic]{DB: db, name: "topic"}}
}

// List subjectID 为空时返回全部主题
func (r *TopicRepository) List(ctx context.Context, subjectID string, skip, limit int) ([]model.Topic, error) {
	q := r.db(ctx).Order("name")
	if subjectID != "" {
		q = q.Where("subject_id = ?", subjectID)
	}
	return r.page(ctx, q, skip, limit)
}
