package authprovider

import (
	"context"
	"errors"
	"fmt"

	"learngenix_backend/internal/config"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Identity 认证服务中的用户
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUser 创建认证用户的参数
type NewUser struct {
	Email        string
	Password     string
	EmailConfirm bool
	Metadata     map[string]interface{}
}

// CredentialStore 外部认证服务，负责账号与密码
type CredentialStore interface {
	CreateUser(ctx context.Context, user NewUser) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	ResendConfirmation(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, id string) error
}

// New 按配置选择托管认证或本地凭据表
func New(cfg *config.Config, db *gorm.DB) (CredentialStore, error) {
	switch cfg.Auth.Provider {
	case config.ProviderHosted:
		return NewHostedStore(&cfg.Store, cfg.Auth.RedirectURL), nil
	case config.ProviderLocal:
		return NewLocalStore(db), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
