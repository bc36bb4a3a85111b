package service

import (
	"context"
	"time"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

const recentItems = 5

type DashboardService struct {
	StatsRepo           *repository.StatsRepository
	ProgressRepo        *repository.ProgressRepository
	UserAchievementRepo *repository.UserAchievementRepository
	ExerciseRepo        *repository.ExerciseRepository
}

func NewDashboardService(
	statsRepo *repository.StatsRepository,
	progressRepo *repository.ProgressRepository,
	userAchievementRepo *repository.UserAchievementRepository,
	exerciseRepo *repository.ExerciseRepository,
) *DashboardService {
	return &DashboardService{
		StatsRepo:           statsRepo,
		ProgressRepo:        progressRepo,
		UserAchievementRepo: userAchievementRepo,
		ExerciseRepo:        exerciseRepo,
	}
}

type SummaryUser struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

type SummaryProgress struct {
	General   int            `json:"general"`
	BySubject map[string]int `json:"by_subject"`
}

type SummaryAchievement struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

type SummaryActivity struct {
	ExerciseTitle string    `json:"exercise_title"`
	SubjectID     *string   `json:"subject_id"`
	Score         float64   `json:"score"`
	IsCorrect     bool      `json:"is_correct"`
	CompletedAt   time.Time `json:"completed_at"`
	TimeSpent     int       `json:"time_spent"`
}

// DashboardSummary stats 在用户尚无作答时为空对象
type DashboardSummary struct {
	User             SummaryUser          `json:"user"`
	Progress         SummaryProgress      `json:"progress"`
	Achievements     []SummaryAchievement `json:"achievements"`
	RecentActivity   []SummaryActivity    `json:"recent_activity"`
	Stats            interface{}          `json:"stats"`
	CreatedExercises *int64               `json:"created_exercises,omitempty"`
}

// Summary 并发读取统计、最近成就、最近作答；教师额外统计创建的题目数
func (s *DashboardService) Summary(ctx context.Context, user *model.User) (*DashboardSummary, error) {
	var (
		stats        *model.UserStats
		achievements []model.UserAchievement
		activity     []model.UserProgress
		created      int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.StatsRepo.FindByUser(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		achievements, err = s.UserAchievementRepo.Recent(gctx, user.ID, recentItems)
		return err
	})
	g.Go(func() (err error) {
		activity, err = s.ProgressRepo.Recent(gctx, user.ID, recentItems)
		return err
	})
	if user.Role == model.Teacher {
		g.Go(func() (err error) {
			created, err = s.ExerciseRepo.CountByCreator(gctx, user.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		User: SummaryUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		Progress:       SummaryProgress{BySubject: map[string]int{}},
		Achievements:   make([]SummaryAchievement, 0, len(achievements)),
		RecentActivity: make([]SummaryActivity, 0, len(activity)),
		Stats:          map[string]interface{}{},
	}

	if stats != nil {
		summary.Stats = stats
		summary.Progress.General = GeneralProgress(stats)
	}

	for _, ua := range achievements {
		item := SummaryAchievement{UnlockedAt: ua.UnlockedAt}
		if ua.Achievement != nil {
			item.Name = ua.Achievement.Name
			item.Description = ua.Achievement.Description
			item.Icon = ua.Achievement.Icon
		}
		summary.Achievements = append(summary.Achievements, item)
	}

	for _, p := range activity {
		item := SummaryActivity{
			Score:       p.Score,
			IsCorrect:   p.IsCorrect,
			CompletedAt: p.CompletedAt,
			TimeSpent:   p.TimeSpent,
		}
		if p.Exercise != nil {
			item.ExerciseTitle = p.Exercise.Title
			item.SubjectID = p.Exercise.SubjectID
		}
		summary.RecentActivity = append(summary.RecentActivity, item)
	}

	if user.Role == model.Teacher {
		summary.CreatedExercises = &created
	}
	return summary, nil
}

// GeneralProgress completed/total 的百分比，向下取整
func GeneralProgress(stats *model.UserStats) int {
	if stats == nil || stats.TotalExercises == 0 {
		return 0
	}
	return stats.CompletedExercises * 100 / stats.TotalExercises
}

func (s *DashboardService) Progress(ctx context.Context, user *model.User, skip, limit int) ([]model.UserProgress, error) {
	return s.ProgressRepo.ListByUser(ctx, user.ID, skip, limit)
}

// Stats 没有统计行时返回全零统计
func (s *DashboardService) Stats(ctx context.Context, user *model.User) (*model.UserStats, error) {
	stats, err := s.StatsRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &model.UserStats{UserID: user.ID}, nil
	}
	return stats, nil
}
