package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeResolver map[string]*model.User

func (f fakeResolver) UserForToken(_ context.Context, token string) (*model.User, error) {
	if token == "boom" {
		return nil, errors.New("db down")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, util.ErrInvalidToken
}

func newRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := fakeResolver{
		"student-token": {Email: "s@test.com", Role: model.Student},
		"teacher-token": {Email: "t@test.com", Role: model.Teacher},
		"admin-token":   {Email: "a@test.com", Role: model.Admin},
	}

	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(resolver)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).Email)
	})
	r.GET("/me", handlers...)
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	rec := do(r, "Bearer student-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s@test.com", rec.Body.String())

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer unknown"} {
		rec = do(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), header)
	}

	rec = do(r, "Bearer boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(model.Teacher)

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer student-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer teacher-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer admin-token").Code)
}
