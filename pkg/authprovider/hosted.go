package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"learngenix_backend/internal/config"
	"learngenix_backend/pkg/logger"

	"go.uber.org/zap"
)

// APIError 认证服务返回的非 2xx 响应
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %d %s: %s", e.Status, e.Code, e.Message)
}

// HostedStore 通过 REST 接口访问托管认证服务
type HostedStore struct {
	baseURL     string
	anonKey     string
	serviceKey  string
	redirectURL string
	client      *http.Client
}

func NewHostedStore(cfg *config.StoreConfig, redirectURL string) *HostedStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HostedStore{
		baseURL:     strings.TrimRight(cfg.URL, "/") + "/auth/v1",
		anonKey:     cfg.AnonKey,
		serviceKey:  cfg.ServiceKey,
		redirectURL: redirectURL,
		client:      &http.Client{Timeout: timeout},
	}
}

func (s *HostedStore) CreateUser(ctx context.Context, user NewUser) (*Identity, error) {
	body := map[string]interface{}{
		"email":         user.Email,
		"password":      user.Password,
		"email_confirm": user.EmailConfirm,
		"user_metadata": user.Metadata,
	}

	var identity Identity
	err := s.do(ctx, http.MethodPost, "/admin/users", s.serviceKey, body, &identity)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && isEmailTaken(apiErr) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("auth api: create user returned no id")
	}
	return &identity, nil
}

func (s *HostedStore) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		AccessToken string   `json:"access_token"`
		User        Identity `json:"user"`
	}
	err := s.do(ctx, http.MethodPost, "/token?grant_type=password", s.anonKey, body, &resp)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &resp.User, nil
}

func (s *HostedStore) ResendConfirmation(ctx context.Context, email string) error {
	body := map[string]interface{}{"type": "signup", "email": email}
	if s.redirectURL != "" {
		body["options"] = map[string]string{"email_redirect_to": s.redirectURL}
	}
	return s.do(ctx, http.MethodPost, "/resend", s.anonKey, body, nil)
}

func (s *HostedStore) DeleteUser(ctx context.Context, id string) error {
	err := s.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), s.serviceKey, nil, nil)
	if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusNotFound {
		return ErrUserNotFound
	}
	return err
}

func (s *HostedStore) do(ctx context.Context, method, path, key string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth api: %w", err)
	}
	defer resp.Body.Close()

	logger.Log.Debug("auth api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func parseAPIError(status int, data []byte) *APIError {
	var body struct {
		Code             interface{} `json:"code"`
		ErrorCode        string      `json:"error_code"`
		Error            string      `json:"error"`
		ErrorDescription string      `json:"error_description"`
		Msg              string      `json:"msg"`
		Message          string      `json:"message"`
	}
	_ = json.Unmarshal(data, &body)

	apiErr := &APIError{Status: status, Code: body.ErrorCode}
	if apiErr.Code == "" {
		apiErr.Code = body.Error
	}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func isEmailTaken(err *APIError) bool {
	if err.Code == "email_exists" || err.Code == "user_already_exists" {
		return true
	}
	msg := strings.ToLower(err.Message)
	return strings.Contains(msg, "already been registered") || strings.Contains(msg, "already registered")
}
