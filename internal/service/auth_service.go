package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/util"
	"learngenix_backend/pkg/authprovider"
	"learngenix_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Store    authprovider.CredentialStore
	Storage  *StorageService
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, store authprovider.CredentialStore, storage *StorageService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Store:    store,
		Storage:  storage,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Name     string         `json:"name" binding:"required"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=student teacher admin"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResendResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
}

// TokenResponse 注册与登录的响应
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 先在认证服务建号，再写用户资料；资料写入失败时尽力删除认证账号
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	email := normalizeEmail(req.Email)
	role := req.Role
	if role == "" {
		role = model.Student
	}

	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	identity, err := s.Store.CreateUser(ctx, authprovider.NewUser{
		Email:        email,
		Password:     req.Password,
		EmailConfirm: s.Cfg.Auth.AutoConfirmEmail,
		Metadata:     map[string]interface{}{"name": req.Name, "role": role},
	})
	if errors.Is(err, authprovider.ErrEmailTaken) {
		return nil, util.ErrEmailRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	user := &model.User{
		UUIDBase: model.UUIDBase{ID: identity.ID},
		Email:    email,
		Name:     req.Name,
		Role:     role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if delErr := s.Store.DeleteUser(ctx, identity.ID); delErr != nil {
			logger.Log.Warn("Failed to clean up credential after profile insert failure",
				zap.String("user_id", identity.ID), zap.Error(delErr))
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	logger.Log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	email = normalizeEmail(email)

	if _, err := s.Store.SignIn(ctx, email, password); err != nil {
		if errors.Is(err, authprovider.ErrInvalidCredentials) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (*ResendResponse, error) {
	email = normalizeEmail(email)
	if err := s.Store.ResendConfirmation(ctx, email); err != nil {
		if errors.Is(err, authprovider.ErrUserNotFound) {
			return nil, util.NotFoundError("User not found")
		}
		return nil, fmt.Errorf("resend confirmation: %w", err)
	}
	return &ResendResponse{Message: "Confirmation email sent", Email: email}, nil
}

// UserForToken 解析 token 并加载对应用户
func (s *AuthService) UserForToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, util.ErrInvalidToken
	}
	user, err := s.UserRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, req UpdateProfileRequest) (*model.User, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, util.ValidationError("name must not be empty")
		}
		fields["name"] = name
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	updated, err := s.UserRepo.Update(ctx, user.ID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, util.NotFoundError("User not found")
	}
	return updated, nil
}

// UploadAvatar 校验图片类型与大小后保存，并更新 avatar_url
func (s *AuthService) UploadAvatar(ctx context.Context, user *model.User, file *multipart.FileHeader) (*model.User, error) {
	if file.Size > util.MaxAvatarSize {
		return nil, util.ValidationError("avatar must be at most 2 MiB")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, util.ValidationError("avatar must be an image")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	url, err := s.Storage.SaveAvatar(ctx, user.ID, src, file.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	previous := user.AvatarURL
	updated, err := s.UpdateProfile(ctx, user, UpdateProfileRequest{AvatarURL: &url})
	if err != nil {
		return nil, err
	}
	if previous != nil && *previous != url {
		if err := s.Storage.RemoveAvatar(ctx, user.ID, *previous); err != nil {
			logger.Log.Warn("Failed to remove previous avatar", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// ListUsers 按注册时间分页列出用户资料
func (s *AuthService) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	return s.UserRepo.List(ctx, skip, limit)
}

func (s *AuthService) issueToken(user *model.User) (*TokenResponse, error) {
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   util.TokenType,
		User:        user,
	}, nil
}
