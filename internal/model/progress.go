package model

import "time"

// UserProgress 用户对某道题的唯一一次作答
// swagger:model UserProgress
type UserProgress struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);uniqueIndex:idx_user_exercise;not null" json:"user_id"`
	ExerciseID  string    `gorm:"type:varchar(36);uniqueIndex:idx_user_exercise;not null" json:"exercise_id"`
	Score       float64   `gorm:"default:0" json:"score"`
	TimeSpent   int       `gorm:"default:0" json:"time_spent"`
	Answer      *string   `gorm:"type:text" json:"answer"`
	IsCorrect   bool      `gorm:"default:false" json:"is_correct"`
	CompletedAt time.Time `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"exercise,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// UserStats 用户累计统计，每个用户一行
// swagger:model UserStats
type UserStats struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	TotalExercises     int        `gorm:"default:0" json:"total_exercises"`
	CompletedExercises int        `gorm:"default:0" json:"completed_exercises"`
	AverageScore       float64    `gorm:"default:0" json:"average_score"`
	TotalTime          int        `gorm:"default:0" json:"total_time"`
	TotalPoints        int        `gorm:"default:0" json:"total_points"`
	CurrentStreak      int        `gorm:"default:0" json:"current_streak"`
	BestStreak         int        `gorm:"default:0" json:"best_streak"`
	LastActivity       *time.Time `json:"last_activity"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
