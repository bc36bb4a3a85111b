package model

import (
	"time"

	"gorm.io/datatypes"
)

// FirstCorrectAchievement 第一次答对题目时解锁的成就名称
const FirstCorrectAchievement = "Primer ejercicio correcto"

// Achievement 成就目录，Criteria 仅存储不参与逻辑
// swagger:model Achievement
type Achievement struct {
	UUIDBase
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Icon        string         `gorm:"size:100" json:"icon"`
	Points      int            `gorm:"default:0" json:"points"`
	Criteria    datatypes.JSON `json:"criteria"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// swagger:model UserAchievement
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string    `gorm:"type:varchar(36);uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string    `gorm:"type:varchar(36);uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"index" json:"unlocked_at"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
