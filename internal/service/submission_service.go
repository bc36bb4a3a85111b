package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/util"
	"learngenix_backend/pkg/logger"
	"learngenix_backend/pkg/monitoring"
	"learngenix_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmitRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required,uuid"`
	Answer     string `json:"answer"`
	TimeSpent  int    `json:"time_spent" binding:"min=0"`
}

type SubmitResult struct {
	Success   bool    `json:"success"`
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
}

type SubmissionService struct {
	DB                  *gorm.DB
	ExerciseRepo        *repository.ExerciseRepository
	ProgressRepo        *repository.ProgressRepository
	StatsRepo           *repository.StatsRepository
	AchievementRepo     *repository.AchievementRepository
	UserAchievementRepo *repository.UserAchievementRepository
	Guard               SubmissionGuard
}

func NewSubmissionService(
	db *gorm.DB,
	exerciseRepo *repository.ExerciseRepository,
	progressRepo *repository.ProgressRepository,
	statsRepo *repository.StatsRepository,
	achievementRepo *repository.AchievementRepository,
	userAchievementRepo *repository.UserAchievementRepository,
	guard SubmissionGuard,
) *SubmissionService {
	if guard == nil {
		guard = noopGuard{}
	}
	return &SubmissionService{
		DB:                  db,
		ExerciseRepo:        exerciseRepo,
		ProgressRepo:        progressRepo,
		StatsRepo:           statsRepo,
		AchievementRepo:     achievementRepo,
		UserAchievementRepo: userAchievementRepo,
		Guard:               guard,
	}
}

// Grade 忽略首尾空白与大小写比较答案；题目没有标准答案（含空白答案）时视为答错
func Grade(exercise *model.Exercise, answer string) (bool, float64) {
	if exercise.CorrectAnswer == nil {
		return false, 0
	}
	expected := strings.TrimSpace(*exercise.CorrectAnswer)
	if expected == "" {
		return false, 0
	}
	if !strings.EqualFold(strings.TrimSpace(answer), expected) {
		return false, 0
	}
	return true, float64(exercise.Points)
}

// Submit 记录一次作答。作答记录、统计与成就在同一事务内写入，
// (user_id, exercise_id) 唯一索引保证每题只能提交一次。
func (s *SubmissionService) Submit(ctx context.Context, user *model.User, req SubmitRequest) (result *SubmitResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "submission.submit",
		attribute.String("user.id", user.ID),
		attribute.String("exercise.id", req.ExerciseID),
	)
	defer func() {
		monitoring.RecordSubmission(submissionOutcome(result, err))
		tracing.EndSpan(span, err)
	}()

	exercise, err := s.ExerciseRepo.FindByID(ctx, req.ExerciseID)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, util.ErrExerciseNotFound
	}

	isCorrect, score := Grade(exercise, req.Answer)
	span.SetAttributes(attribute.Bool("submission.correct", isCorrect))

	release, err := s.Guard.Acquire(ctx, user.ID, exercise.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.record(ctx, tx, user.ID, exercise.ID, req, isCorrect, score)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Exercise submitted",
		zap.String("user_id", user.ID),
		zap.String("exercise_id", exercise.ID),
		zap.Bool("is_correct", isCorrect),
		zap.Float64("score", score),
	)
	return &SubmitResult{Success: true, IsCorrect: isCorrect, Score: score}, nil
}

func (s *SubmissionService) record(ctx context.Context, tx *gorm.DB, userID, exerciseID string, req SubmitRequest, isCorrect bool, score float64) error {
	progressRepo := s.ProgressRepo.WithTx(tx)

	existing, err := progressRepo.FindByUserAndExercise(ctx, userID, exerciseID)
	if err != nil {
		return err
	}
	if existing != nil {
		return util.ErrAlreadyAnswered
	}

	answer := req.Answer
	progress := &model.UserProgress{
		UserID:      userID,
		ExerciseID:  exerciseID,
		Score:       score,
		TimeSpent:   req.TimeSpent,
		Answer:      &answer,
		IsCorrect:   isCorrect,
		CompletedAt: time.Now().UTC(),
	}
	if err := progressRepo.Create(ctx, progress); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrAlreadyAnswered
		}
		return err
	}

	if err := s.StatsRepo.WithTx(tx).RecordSubmission(ctx, userID, score, req.TimeSpent); err != nil {
		return err
	}

	if isCorrect {
		return s.unlockFirstCorrect(ctx, tx, userID)
	}
	return nil
}

// unlockFirstCorrect 用户还没有任何成就时授予首次答对成就
func (s *SubmissionService) unlockFirstCorrect(ctx context.Context, tx *gorm.DB, userID string) error {
	uaRepo := s.UserAchievementRepo.WithTx(tx)

	count, err := uaRepo.CountByUser(ctx, userID)
	if err != nil || count > 0 {
		return err
	}

	achievement, err := s.AchievementRepo.WithTx(tx).FindByName(ctx, model.FirstCorrectAchievement)
	if err != nil {
		return err
	}
	if achievement == nil {
		logger.Log.Warn("First-correct achievement missing from catalog", zap.String("name", model.FirstCorrectAchievement))
		return nil
	}

	unlocked, err := uaRepo.Unlock(ctx, &model.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		UnlockedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if unlocked {
		logger.Log.Info("Achievement unlocked", zap.String("user_id", userID), zap.String("achievement", achievement.Name))
	}
	return nil
}

func submissionOutcome(result *SubmitResult, err error) string {
	switch {
	case err == nil && result != nil && result.IsCorrect:
		return monitoring.ResultCorrect
	case err == nil:
		return monitoring.ResultIncorrect
	case errors.Is(err, util.ErrConflict):
		return monitoring.ResultConflict
	default:
		return monitoring.ResultError
	}
}
