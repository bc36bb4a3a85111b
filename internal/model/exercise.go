package model

import "gorm.io/datatypes"

type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple_choice"
	OpenEnded      ExerciseType = "open_ended"
	TrueFalse      ExerciseType = "true_false"
	Matching       ExerciseType = "matching"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const DefaultExercisePoints = 10

// Exercise 练习题
// swagger:model Exercise
type Exercise struct {
	UUIDBase
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   *string        `gorm:"type:text" json:"description"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Type          ExerciseType   `gorm:"size:30;not null" json:"type"`
	Difficulty    Difficulty     `gorm:"size:10;index;default:'medium';not null" json:"difficulty"`
	SubjectID     *string        `gorm:"type:varchar(36);index" json:"subject_id"`
	TopicID       *string        `gorm:"type:varchar(36);index" json:"topic_id"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer *string        `gorm:"type:text" json:"correct_answer"`
	Explanation   *string        `gorm:"type:text" json:"explanation"`
	Points        int            `gorm:"default:10;not null" json:"points"`
	TimeLimit     *int           `json:"time_limit"`
	CreatedBy     *string        `gorm:"type:varchar(36);index" json:"created_by"`
}

func (Exercise) TableName() string {
	return "exercises"
}
