package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"strings"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/util"

	"gorm.io/datatypes"
)

type ExerciseService struct {
	Repo *repository.ExerciseRepository
}

func NewExerciseService(repo *repository.ExerciseRepository) *ExerciseService {
	return &ExerciseService{Repo: repo}
}

type ExerciseCreateRequest struct {
	Title         string             `json:"title" binding:"required,max=255"`
	Description   *string            `json:"description"`
	Content       string             `json:"content" binding:"required"`
	Type          model.ExerciseType `json:"type" binding:"required,oneof=multiple_choice open_ended true_false matching"`
	Difficulty    model.Difficulty   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	SubjectID     *string            `json:"subject_id" binding:"omitempty,uuid"`
	TopicID       *string            `json:"topic_id" binding:"omitempty,uuid"`
	Options       json.RawMessage    `json:"options" swaggertype:"object"`
	CorrectAnswer *string            `json:"correct_answer"`
	Explanation   *string            `json:"explanation"`
	Points        *int               `json:"points" binding:"omitempty,min=0"`
	TimeLimit     *int               `json:"time_limit" binding:"omitempty,min=1"`
}

type ExerciseUpdateRequest struct {
	Title         *string             `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string             `json:"description"`
	Content       *string             `json:"content" binding:"omitempty,min=1"`
	Type          *model.ExerciseType `json:"type" binding:"omitempty,oneof=multiple_choice open_ended true_false matching"`
	Difficulty    *model.Difficulty   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	SubjectID     *string             `json:"subject_id" binding:"omitempty,uuid"`
	TopicID       *string             `json:"topic_id" binding:"omitempty,uuid"`
	Options       json.RawMessage     `json:"options" swaggertype:"object"`
	CorrectAnswer *string             `json:"correct_answer"`
	Explanation   *string             `json:"explanation"`
	Points        *int                `json:"points" binding:"omitempty,min=0"`
	TimeLimit     *int                `json:"time_limit" binding:"omitempty,min=1"`
}

// NextRequest difficulty 缺省为 medium，显式传空串表示不限难度
type NextRequest struct {
	SubjectID  *string `json:"subject_id"`
	Difficulty *string `json:"difficulty"`
}

// NormalizeOptions 选项统一存为对象；列表按 a、b、c... 编号
func NormalizeOptions(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]interface{}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, util.ValidationError("options must be a JSON object or list")
		}
		return datatypes.JSON(trimmed), nil
	case '[':
		var list []interface{}
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, util.ValidationError("options must be a JSON object or list")
		}
		obj := make(map[string]interface{}, len(list))
		for i, v := range list {
			obj[optionKey(i)] = v
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(b), nil
	}
	return nil, util.ValidationError("options must be a JSON object or list")
}

func optionKey(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return strconv.Itoa(i + 1)
}

func (s *ExerciseService) Create(ctx context.Context, creator *model.User, req ExerciseCreateRequest) (*model.Exercise, error) {
	options, err := NormalizeOptions(req.Options)
	if err != nil {
		return nil, err
	}

	exercise := &model.Exercise{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		Type:          req.Type,
		Difficulty:    req.Difficulty,
		SubjectID:     util.NormalizeUUID(req.SubjectID),
		TopicID:       util.NormalizeUUID(req.TopicID),
		Options:       options,
		CorrectAnswer: normalizeAnswer(req.CorrectAnswer),
		Explanation:   req.Explanation,
		Points:        model.DefaultExercisePoints,
		TimeLimit:     req.TimeLimit,
		CreatedBy:     &creator.ID,
	}
	if exercise.Difficulty == "" {
		exercise.Difficulty = model.Medium
	}
	if req.Points != nil {
		exercise.Points = *req.Points
	}

	if err := s.Repo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) Get(ctx context.Context, id string) (*model.Exercise, error) {
	exercise, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, util.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) List(ctx context.Context, filter repository.ExerciseFilter, skip, limit int) ([]model.Exercise, error) {
	return s.Repo.List(ctx, filter, skip, limit)
}

func (s *ExerciseService) Update(ctx context.Context, id string, req ExerciseUpdateRequest) (*model.Exercise, error) {
	fields, err := req.fields()
	if err != nil {
		return nil, err
	}

	exercise, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, util.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrExerciseNotFound
	}
	return nil
}

// Next 从用户未作答的题目中随机选一道
func (s *ExerciseService) Next(ctx context.Context, user *model.User, req NextRequest) (*model.Exercise, error) {
	subjectID := ""
	if id := util.NormalizeUUID(req.SubjectID); id != nil {
		subjectID = *id
	}
	difficulty := model.Medium
	if req.Difficulty != nil {
		difficulty = model.Difficulty(*req.Difficulty)
	}

	candidates, err := s.Repo.ListUnanswered(ctx, user.ID, subjectID, difficulty)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, util.ErrNoExercises
	}
	return &candidates[rand.IntN(len(candidates))], nil
}

func (r ExerciseUpdateRequest) fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Content != nil {
		fields["content"] = *r.Content
	}
	if r.Type != nil {
		fields["type"] = *r.Type
	}
	if r.Difficulty != nil {
		fields["difficulty"] = *r.Difficulty
	}
	if r.SubjectID != nil {
		fields["subject_id"] = util.NormalizeUUID(r.SubjectID)
	}
	if r.TopicID != nil {
		fields["topic_id"] = util.NormalizeUUID(r.TopicID)
	}
	if r.Options != nil {
		options, err := NormalizeOptions(r.Options)
		if err != nil {
			return nil, err
		}
		fields["options"] = options
	}
	if r.CorrectAnswer != nil {
		if answer := normalizeAnswer(r.CorrectAnswer); answer != nil {
			fields["correct_answer"] = *answer
		} else {
			fields["correct_answer"] = nil
		}
	}
	if r.Explanation != nil {
		fields["explanation"] = *r.Explanation
	}
	if r.Points != nil {
		fields["points"] = *r.Points
	}
	if r.TimeLimit != nil {
		fields["time_limit"] = *r.TimeLimit
	}
	return fields, nil
}

// normalizeAnswer 空白的标准答案按未设置处理
func normalizeAnswer(answer *string) *string {
	if answer == nil || strings.TrimSpace(*answer) == "" {
		return nil
	}
	return answer
}
