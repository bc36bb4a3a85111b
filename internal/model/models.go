package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (a *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subject{},
		&Topic{},
		&Exercise{},
		&Achievement{},
		&UserProgress{},
		&UserStats{},
		&UserAchievement{},
	}
}
