package service

import (
	"context"
	"encoding/json"
	"errors"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSubjectNotFound     = util.NotFoundError("Subject not found")
	ErrTopicNotFound       = util.NotFoundError("Topic not found")
	ErrAchievementNotFound = util.NotFoundError("Achievement not found")
)

type SubjectCreateRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Icon        string  `json:"icon" binding:"required,max=100"`
	Color       *string `json:"color" binding:"omitempty,max=50"`
}

type SubjectUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,min=1,max=100"`
	Color       *string `json:"color" binding:"omitempty,max=50"`
}

type SubjectService struct {
	Repo *repository.SubjectRepository
}

func NewSubjectService(repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{Repo: repo}
}

func (s *SubjectService) Create(ctx context.Context, req SubjectCreateRequest) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       model.DefaultSubjectColor,
	}
	if req.Color != nil && *req.Color != "" {
		subject.Color = *req.Color
	}
	if err := s.Repo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Get(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context, skip, limit int) ([]model.Subject, error) {
	return s.Repo.List(ctx, skip, limit)
}

func (s *SubjectService) Update(ctx context.Context, id string, req SubjectUpdateRequest) (*model.Subject, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}

	subject, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSubjectNotFound
	}
	return nil
}

type TopicCreateRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	SubjectID   *string          `json:"subject_id" binding:"omitempty,uuid"`
	Description *string          `json:"description"`
	Difficulty  model.Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type TopicUpdateRequest struct {
	Name        *string           `json:"name" binding:"omitempty,min=1,max=100"`
	SubjectID   *string           `json:"subject_id" binding:"omitempty,uuid"`
	Description *string           `json:"description"`
	Difficulty  *model.Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type TopicService struct {
	Repo *repository.TopicRepository
}

func NewTopicService(repo *repository.TopicRepository) *TopicService {
	return &TopicService{Repo: repo}
}

func (s *TopicService) Create(ctx context.Context, req TopicCreateRequest) (*model.Topic, error) {
	topic := &model.Topic{
		Name:        req.Name,
		SubjectID:   util.NormalizeUUID(req.SubjectID),
		Description: req.Description,
		Difficulty:  req.Difficulty,
	}
	if topic.Difficulty == "" {
		topic.Difficulty = model.Medium
	}
	if err := s.Repo.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) Get(ctx context.Context, id string) (*model.Topic, error) {
	topic, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	return topic, nil
}

func (s *TopicService) List(ctx context.Context, subjectID string, skip, limit int) ([]model.Topic, error) {
	return s.Repo.List(ctx, subjectID, skip, limit)
}

func (s *TopicService) Update(ctx context.Context, id string, req TopicUpdateRequest) (*model.Topic, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.SubjectID != nil {
		fields["subject_id"] = util.NormalizeUUID(req.SubjectID)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}

	topic, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	return topic, nil
}

func (s *TopicService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTopicNotFound
	}
	return nil
}

type AchievementCreateRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"required"`
	Icon        string          `json:"icon" binding:"required,max=100"`
	Points      *int            `json:"points" binding:"omitempty,min=0"`
	Criteria    json.RawMessage `json:"criteria" swaggertype:"object"`
}

type AchievementUpdateRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string         `json:"description"`
	Icon        *string         `json:"icon" binding:"omitempty,min=1,max=100"`
	Points      *int            `json:"points" binding:"omitempty,min=0"`
	Criteria    json.RawMessage `json:"criteria" swaggertype:"object"`
}

type AchievementService struct {
	Repo *repository.AchievementRepository
}

func NewAchievementService(repo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{Repo: repo}
}

var errAchievementNameTaken = util.ValidationError("Achievement name already exists")

func criteriaJSON(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, util.ValidationError("criteria must be valid JSON")
	}
	return datatypes.JSON(raw), nil
}

func (s *AchievementService) Create(ctx context.Context, req AchievementCreateRequest) (*model.Achievement, error) {
	criteria, err := criteriaJSON(req.Criteria)
	if err != nil {
		return nil, err
	}

	achievement := &model.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    criteria,
	}
	if req.Points != nil {
		achievement.Points = *req.Points
	}
	if err := s.Repo.Create(ctx, achievement); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errAchievementNameTaken
		}
		return nil, err
	}
	return achievement, nil
}

func (s *AchievementService) Get(ctx context.Context, id string) (*model.Achievement, error) {
	achievement, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, ErrAchievementNotFound
	}
	return achievement, nil
}

func (s *AchievementService) List(ctx context.Context, skip, limit int) ([]model.Achievement, error) {
	return s.Repo.List(ctx, skip, limit)
}

func (s *AchievementService) Update(ctx context.Context, id string, req AchievementUpdateRequest) (*model.Achievement, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Points != nil {
		fields["points"] = *req.Points
	}
	if req.Criteria != nil {
		criteria, err := criteriaJSON(req.Criteria)
		if err != nil {
			return nil, err
		}
		fields["criteria"] = criteria
	}

	achievement, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errAchievementNameTaken
		}
		return nil, err
	}
	if achievement == nil {
		return nil, ErrAchievementNotFound
	}
	return achievement, nil
}

func (s *AchievementService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAchievementNotFound
	}
	return nil
}
