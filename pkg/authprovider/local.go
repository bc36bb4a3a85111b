package authprovider

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential 本地模式下的账号与密码哈希
type Credential struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Confirmed    bool      `gorm:"default:false"`
	CreatedAt    time.Time
}

func (Credential) TableName() string {
	return "user_credentials"
}

// LocalStore 无托管认证服务时使用，密码以 bcrypt 存储在同一数据库
type LocalStore struct {
	DB *gorm.DB
}

func NewLocalStore(db *gorm.DB) *LocalStore {
	return &LocalStore{DB: db}
}

func (s *LocalStore) CreateUser(ctx context.Context, user NewUser) (*Identity, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &Credential{
		ID:           uuid.New().String(),
		Email:        user.Email,
		PasswordHash: string(hashed),
		Confirmed:    user.EmailConfirm,
	}
	if err := s.DB.WithContext(ctx).Create(cred).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &Identity{ID: cred.ID, Email: cred.Email}, nil
}

func (s *LocalStore) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var cred Credential
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: cred.ID, Email: cred.Email}, nil
}

// ResendConfirmation 本地模式没有邮件通道，只校验账号存在
func (s *LocalStore) ResendConfirmation(ctx context.Context, email string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&Credential{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *LocalStore) DeleteUser(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Delete(&Credential{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
