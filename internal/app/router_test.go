package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"
	"learngenix_backend/internal/testutil"
	"learngenix_backend/pkg/authprovider"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	app    *App
	db     *gorm.DB
	prefix string
}

func newTestServer(t *testing.T, rdb *redis.Client) *testServer {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.APIPrefix = "/api/v1"
	cfg.Server.ProjectName = "LearnGenix API"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.ExpireTime = time.Minute
	cfg.Auth.Provider = config.ProviderLocal
	cfg.Auth.AutoConfirmEmail = true
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	cfg.CORS.AllowedOrigins = config.DefaultCORSOrigins
	cfg.RateLimit.MaxRequests = 10000
	cfg.Redis.SubmitTTL = 5 * time.Second

	db := testutil.NewDB(t)
	application := New(cfg, db, rdb, authprovider.NewLocalStore(db))
	return &testServer{t: t, app: application, db: db, prefix: cfg.Server.APIPrefix}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) register(email string, role model.UserRole) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, s.prefix+"/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "secret123",
		"name":     "Tester",
		"role":     role,
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &token))
	require.Equal(s.t, "bearer", token.TokenType)
	return token.AccessToken
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t, nil)

	w, env := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to LearnGenix API"}`, string(env.Data))

	w, env = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("ana@test.com", model.Student)

	w, env := s.do(http.MethodGet, s.prefix+"/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ana@test.com", me.Email)
	assert.Equal(t, model.Student, me.Role)

	w, _ = s.do(http.MethodGet, s.prefix+"/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w, _ = s.do(http.MethodGet, s.prefix+"/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 重复注册
	w, env = s.do(http.MethodPost, s.prefix+"/auth/register", "", map[string]interface{}{
		"email": "ana@test.com", "password": "secret123", "name": "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", env.Message)

	w, _ = s.do(http.MethodPost, s.prefix+"/auth/login", "", map[string]string{
		"email": "ana@test.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, s.prefix+"/auth/login", "", map[string]string{
		"email": "ana@test.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAcceptsPasswordForm(t *testing.T) {
	s := newTestServer(t, nil)
	s.register("form@test.com", model.Student)

	form := url.Values{"username": {"form@test.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, s.prefix+"/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	s := newTestServer(t, nil)
	w, _ := s.do(http.MethodPost, s.prefix+"/auth/register", "", map[string]interface{}{
		"email": "x@test.com", "password": "secret123", "name": "X", "is_admin": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExerciseSubmissionFlow(t *testing.T) {
	s := newTestServer(t, nil)
	teacher := s.register("teacher@test.com", model.Teacher)
	student := s.register("student@test.com", model.Student)
	testutil.CreateAchievement(t, s.db, model.FirstCorrectAchievement)

	w, env := s.do(http.MethodPost, s.prefix+"/exercises", teacher, map[string]interface{}{
		"title":          "Meaning of life",
		"content":        "What is 6 x 7?",
		"type":           "open_ended",
		"correct_answer": "42",
		"points":         10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var exercise model.Exercise
	require.NoError(t, json.Unmarshal(env.Data, &exercise))
	assert.Equal(t, model.Medium, exercise.Difficulty)

	w, _ = s.do(http.MethodGet, s.prefix+"/exercises/"+exercise.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPost, s.prefix+"/exercises/next", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var next model.Exercise
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, exercise.ID, next.ID)

	submit := map[string]interface{}{"exercise_id": exercise.ID, "answer": " 42 ", "time_spent": 30}
	w, env = s.do(http.MethodPost, s.prefix+"/exercises/submit", student, submit)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"is_correct":true,"score":10}`, string(env.Data))

	// 同一题只能作答一次
	w, _ = s.do(http.MethodPost, s.prefix+"/exercises/submit", student, submit)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var rows int64
	require.NoError(t, s.db.Model(&model.UserProgress{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	w, _ = s.do(http.MethodPost, s.prefix+"/exercises/next", student, map[string]interface{}{"difficulty": nil})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodGet, s.prefix+"/dashboard/summary", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Progress struct {
			General int `json:"general"`
		} `json:"progress"`
		Achievements []struct {
			Name string `json:"name"`
		} `json:"achievements"`
		RecentActivity []json.RawMessage `json:"recent_activity"`
		Stats          struct {
			CompletedExercises int     `json:"completed_exercises"`
			AverageScore       float64 `json:"average_score"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.Stats.CompletedExercises)
	assert.Equal(t, 10.0, summary.Stats.AverageScore)
	require.Len(t, summary.Achievements, 1)
	assert.Equal(t, model.FirstCorrectAchievement, summary.Achievements[0].Name)
	assert.Len(t, summary.RecentActivity, 1)

	w, _ = s.do(http.MethodGet, s.prefix+"/dashboard/progress", student, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, s.prefix+"/dashboard/stats", student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, s.prefix+"/exercises/"+exercise.ID, teacher, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = s.do(http.MethodGet, s.prefix+"/exercises/"+exercise.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitRequiresAuthAndValidBody(t *testing.T) {
	s := newTestServer(t, nil)
	student := s.register("student@test.com", model.Student)

	w, _ := s.do(http.MethodPost, s.prefix+"/exercises/submit", "", map[string]interface{}{"exercise_id": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, s.prefix+"/exercises/submit", student, map[string]interface{}{"exercise_id": "not-a-uuid", "answer": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, s.prefix+"/exercises/submit", student, map[string]interface{}{
		"exercise_id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "answer": "1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitWithRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, rdb)
	student := s.register("student@test.com", model.Student)
	exercise := testutil.CreateExercise(t, s.db, nil)

	w, env := s.do(http.MethodPost, s.prefix+"/exercises/submit", student, map[string]interface{}{
		"exercise_id": exercise.ID, "answer": "41",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"is_correct":false,"score":0}`, string(env.Data))
	// 提交结束后释放锁
	assert.Empty(t, mr.Keys())
}

func TestCatalogWritesRequireTeacher(t *testing.T) {
	s := newTestServer(t, nil)
	student := s.register("student@test.com", model.Student)
	teacher := s.register("teacher@test.com", model.Teacher)
	subject := map[string]interface{}{"name": "Historia", "icon": "landmark"}

	w, _ := s.do(http.MethodPost, s.prefix+"/dashboard/subjects", "", subject)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, s.prefix+"/dashboard/subjects", student, subject)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodPost, s.prefix+"/dashboard/subjects", teacher, subject)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Subject
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, model.DefaultSubjectColor, created.Color)

	w, env = s.do(http.MethodGet, s.prefix+"/dashboard/subjects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subjects []model.Subject
	require.NoError(t, json.Unmarshal(env.Data, &subjects))
	assert.Len(t, subjects, 1)

	w, env = s.do(http.MethodPost, s.prefix+"/dashboard/topics", teacher, map[string]interface{}{
		"name": "Edad Media", "subject_id": created.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodGet, s.prefix+"/dashboard/topics?subject_id="+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, s.prefix+"/dashboard/subjects/"+created.ID, teacher, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = s.do(http.MethodGet, s.prefix+"/dashboard/subjects/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, s.prefix+"/dashboard/achievements", teacher, map[string]interface{}{
		"name": "Madrugador", "description": "Primer ejercicio antes de las 8", "icon": "sun",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestListUsersAdminOnly(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.register("admin@test.com", model.Admin)
	teacher := s.register("teacher@test.com", model.Teacher)
	student := s.register("student@test.com", model.Student)

	w, _ := s.do(http.MethodGet, s.prefix+"/auth/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, s.prefix+"/auth/users", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, s.prefix+"/auth/users", teacher, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodGet, s.prefix+"/auth/users?limit=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		List  []model.User `json:"list"`
		Skip  int          `json:"skip"`
		Limit int          `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.List, 2)
	assert.Equal(t, 2, page.Limit)
	assert.NotContains(t, w.Body.String(), "secret123")

	w, _ = s.do(http.MethodGet, s.prefix+"/auth/users?skip=-1", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
