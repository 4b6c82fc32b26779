package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/middleware"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
)

const testSecret = "controller-test-secret-0123456789"

type memQuizzes struct {
	mu      sync.Mutex
	quizzes []model.Quiz
}

func (r *memQuizzes) Create(ctx context.Context, q *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = model.GenerateUUID()
	r.quizzes = append(r.quizzes, *q)
	return nil
}

func (r *memQuizzes) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quizzes {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, util.ErrQuizNotFound
}

func (r *memQuizzes) List(ctx context.Context, activeOnly bool) ([]model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Quiz{}
	for _, q := range r.quizzes {
		if !activeOnly || q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memQuizzes) Count(ctx context.Context, activeOnly bool) (int64, error) {
	list, _ := r.List(ctx, activeOnly)
	return int64(len(list)), nil
}

type memStudents struct {
	mu       sync.Mutex
	students []model.Student
}

func (r *memStudents) Create(ctx context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.students {
		if existing.Username == s.Username {
			return util.ErrUsernameTaken
		}
	}
	s.ID = model.GenerateUUID()
	s.CreatedAt = time.Now()
	r.students = append([]model.Student{*s}, r.students...)
	return nil
}

func (r *memStudents) FindByID(ctx context.Context, id string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, util.ErrStudentNotFound
}

func (r *memStudents) FindByUsername(ctx context.Context, username string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Username == username {
			s := s
			return &s, nil
		}
	}
	return nil, util.ErrStudentNotFound
}

func (r *memStudents) List(ctx context.Context) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Student{}, r.students...), nil
}

func (r *memStudents) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.students {
		if s.ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return util.ErrStudentNotFound
}

func (r *memStudents) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), nil
}

type memIdentities struct {
	mu      sync.Mutex
	byEmail map[string]model.Identity
}

func (r *memIdentities) Create(ctx context.Context, identity *model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[identity.Email]; ok {
		return util.ErrEmailRegistered
	}
	identity.ID = model.GenerateUUID()
	r.byEmail[identity.Email] = *identity
	return nil
}

func (r *memIdentities) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byEmail[email]
	if !ok {
		return nil, util.ErrIdentityNotFound
	}
	return &identity, nil
}

func (r *memIdentities) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, identity := range r.byEmail {
		if identity.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return util.ErrIdentityNotFound
}

func (r *memIdentities) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return nil
}

type memSettings struct {
	settings model.PlatformSettings
}

func (r *memSettings) Get(ctx context.Context) (*model.PlatformSettings, error) {
	s := r.settings
	return &s, nil
}

func (r *memSettings) Save(ctx context.Context, s *model.PlatformSettings) error {
	s.ID = 1
	r.settings = *s
	return nil
}

type memUploads struct {
	mu    sync.Mutex
	files map[string]bool
}

func (u *memUploads) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[filename] = true
	return util.LocalFilesURLPrefix + "/" + filename, nil
}

func (u *memUploads) Delete(ctx context.Context, filename string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.files[filename] {
		return util.ErrFileNotFound
	}
	delete(u.files, filename)
	return nil
}

type testEnv struct {
	router     *gin.Engine
	identities *memIdentities
	students   *memStudents
}

// newTestEnv 用内存仓储组装与线上相同的路由
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Admin: config.AdminConfig{Username: "admin", Password: "admin123", Email: "admin@quizmaster.com"},
	}

	quizzes := &memQuizzes{}
	students := &memStudents{}
	identityRepo := &memIdentities{byEmail: make(map[string]model.Identity)}
	settingsRepo := &memSettings{settings: model.DefaultPlatformSettings()}

	identities := service.NewIdentityService(identityRepo)
	identities.Cost = bcrypt.MinCost
	store := session.NewMemoryStore()
	sessions := session.NewManager(store, cfg.JWT.ExpireTime)
	settings := service.NewSettingsService(settingsRepo)

	auth := NewAuthController(service.NewAuthService(students, identities, sessions, cfg))
	quiz := NewQuizController(service.NewQuizService(quizzes, store, settings, &memUploads{files: make(map[string]bool)}))
	student := NewStudentController(service.NewStudentService(students, identities))
	dashboard := NewDashboardController(service.NewDashboardService(quizzes, students), settings)

	r := gin.New()
	r.POST("/api/admin/login", auth.AdminLogin)
	r.POST("/api/student/login", auth.StudentLogin)

	api := r.Group("/api", middleware.AuthMiddleware(cfg, sessions))
	api.POST("/logout", auth.Logout)
	api.GET("/session", auth.CurrentSession)

	st := api.Group("/student", middleware.RoleMiddleware(model.RoleStudent))
	st.GET("/dashboard", dashboard.StudentDashboard)

	admin := api.Group("/admin", middleware.RoleMiddleware(model.RoleAdmin))
	admin.GET("/dashboard", dashboard.AdminDashboard)
	admin.GET("/analytics", dashboard.Analytics)
	admin.GET("/settings", dashboard.GetSettings)
	admin.PUT("/settings", dashboard.UpdateSettings)
	admin.POST("/quizzes", quiz.CreateQuiz)
	admin.GET("/quizzes", quiz.ListQuizzes)
	admin.GET("/quizzes/:id", quiz.GetQuiz)
	admin.POST("/quizzes/:id/export", quiz.ExportQuiz)
	admin.DELETE("/quizzes/:id/export", quiz.DeleteExport)
	admin.POST("/quiz-drafts", quiz.CreateDraft)
	admin.GET("/quiz-drafts/:id", quiz.GetDraft)
	admin.PUT("/quiz-drafts/:id", quiz.UpdateDraft)
	admin.POST("/quiz-drafts/:id/questions", quiz.AddDraftQuestion)
	admin.DELETE("/quiz-drafts/:id/questions/:questionId", quiz.RemoveDraftQuestion)
	admin.POST("/quiz-drafts/:id/submit", quiz.SubmitDraft)
	admin.GET("/students", student.ListStudents)
	admin.POST("/students", student.CreateStudent)
	admin.DELETE("/students/:id", student.DeleteStudent)

	return &testEnv{router: r, identities: identityRepo, students: students}
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func (e *testEnv) login(t *testing.T, path, username, password string) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, path, "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, code, resp.Message)
	var result service.LoginResult
	decode(t, resp.Data, &result)
	return result.Token
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.login(t, "/api/admin/login", "admin", "admin123")
}
