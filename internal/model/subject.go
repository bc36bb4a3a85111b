package model

const DefaultSubjectColor = "bg-blue-500"

// swagger:model Subject
type Subject struct {
	UUIDBase
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Icon        string  `gorm:"size:100;not null" json:"icon"`
	Color       string  `gorm:"size:50;default:'bg-blue-500'" json:"color"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Topic
type Topic struct {
	UUIDBase
	Name        string     `gorm:"size:100;not null" json:"name"`
	SubjectID   *string    `gorm:"type:varchar(36);index" json:"subject_id"`
	Description *string    `gorm:"type:text" json:"description"`
	Difficulty  Difficulty `gorm:"size:10;default:'medium'" json:"difficulty"`
}

func (Topic) TableName() string {
	return "topics"
}
