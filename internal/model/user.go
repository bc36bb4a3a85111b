package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

// User 用户资料，ID 与认证服务中的用户 ID 一致
// swagger:model User
type User struct {
	UUIDBase
	Email     string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string   `gorm:"size:100;not null" json:"name"`
	Role      UserRole `gorm:"size:20;default:'student';not null" json:"role"`
	AvatarURL *string  `gorm:"size:500" json:"avatar_url"`
}

func (User) TableName() string {
	return "users"
}
