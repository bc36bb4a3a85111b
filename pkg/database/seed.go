package database

import (
	"errors"

	"learngenix_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var defaultAchievements = []model.Achievement{
	{
		Name:        model.FirstCorrectAchievement,
		Description: "Respondiste correctamente tu primer ejercicio",
		Icon:        "trophy",
		Points:      10,
		Criteria:    datatypes.JSON(`{"type":"first_correct"}`),
	},
	{
		Name:        "Racha de 5 días",
		Description: "Practicaste cinco días seguidos",
		Icon:        "flame",
		Points:      25,
		Criteria:    datatypes.JSON(`{"type":"streak","days":5}`),
	},
	{
		Name:        "Cien puntos",
		Description: "Acumulaste 100 puntos",
		Icon:        "star",
		Points:      50,
		Criteria:    datatypes.JSON(`{"type":"points","total":100}`),
	},
}

var defaultSubjects = []model.Subject{
	{Name: "Matemáticas", Description: strPtr("Aritmética, álgebra y geometría"), Icon: "calculator", Color: "bg-blue-500"},
	{Name: "Ciencias", Description: strPtr("Física, química y biología"), Icon: "flask", Color: "bg-green-500"},
	{Name: "Lenguaje", Description: strPtr("Comprensión lectora y gramática"), Icon: "book", Color: "bg-purple-500"},
}

// SeedCatalog 插入默认成就与学科（按名称去重）
func SeedCatalog(db *gorm.DB) error {
	for _, a := range defaultAchievements {
		a := a
		if err := firstOrCreate(db, &model.Achievement{}, "name = ?", a.Name, &a); err != nil {
			return err
		}
	}
	for _, s := range defaultSubjects {
		s := s
		if err := firstOrCreate(db, &model.Subject{}, "name = ?", s.Name, &s); err != nil {
			return err
		}
	}
	return nil
}

func firstOrCreate(db *gorm.DB, existing interface{}, query string, arg interface{}, value interface{}) error {
	err := db.Where(query, arg).First(existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(value).Error
}
