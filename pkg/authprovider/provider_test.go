package authprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learngenix_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newHosted(t *testing.T, handler http.HandlerFunc) *HostedStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHostedStore(&config.StoreConfig{
		URL:        srv.URL,
		AnonKey:    "anon",
		ServiceKey: "service",
	}, "")
}

func TestHostedCreateUserUsesServiceKey(t *testing.T) {
	store := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "service", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@test.com", body["email"])
		assert.Equal(t, true, body["email_confirm"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7f1c5f3e-7c1a-4b8e-9a55-3f3f0e4f2a10","email":"ana@test.com"}`))
	})

	id, err := store.CreateUser(context.Background(), NewUser{
		Email:        "ana@test.com",
		Password:     "secret123",
		EmailConfirm: true,
		Metadata:     map[string]interface{}{"name": "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "7f1c5f3e-7c1a-4b8e-9a55-3f3f0e4f2a10", id.ID)
}

func TestHostedCreateUserEmailTaken(t *testing.T) {
	store := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
	})

	_, err := store.CreateUser(context.Background(), NewUser{Email: "ana@test.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestHostedSignIn(t *testing.T) {
	store := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "right" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","email":"ana@test.com"}}`))
	})

	id, err := store.SignIn(context.Background(), "ana@test.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)

	_, err = store.SignIn(context.Background(), "ana@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHostedResendAndDelete(t *testing.T) {
	var calls []string
	store := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "signup", body["type"])
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"User not found"}`))
	})

	require.NoError(t, store.ResendConfirmation(context.Background(), "ana@test.com"))
	assert.ErrorIs(t, store.DeleteUser(context.Background(), "u1"), ErrUserNotFound)
	assert.Equal(t, []string{"POST /auth/v1/resend", "DELETE /auth/v1/admin/users/u1"}, calls)
}

func TestHostedServerErrorIsReturned(t *testing.T) {
	store := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := store.SignIn(context.Background(), "ana@test.com", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestLocalStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Credential{}))

	store := NewLocalStore(db)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, NewUser{Email: "ana@test.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, id.ID)

	_, err = store.CreateUser(ctx, NewUser{Email: "ana@test.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	signed, err := store.SignIn(ctx, "ana@test.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id.ID, signed.ID)

	_, err = store.SignIn(ctx, "ana@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = store.SignIn(ctx, "nobody@test.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.NoError(t, store.ResendConfirmation(ctx, "ana@test.com"))
	assert.ErrorIs(t, store.ResendConfirmation(ctx, "nobody@test.com"), ErrUserNotFound)

	require.NoError(t, store.DeleteUser(ctx, id.ID))
	assert.ErrorIs(t, store.DeleteUser(ctx, id.ID), ErrUserNotFound)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Provider = config.ProviderHosted
	store, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &HostedStore{}, store)

	cfg.Auth.Provider = config.ProviderLocal
	store, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	cfg.Auth.Provider = "ldap"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}
