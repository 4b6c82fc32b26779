package session

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrDataNotFound is returned when a session-scoped value does not exist.
var ErrDataNotFound = errors.New("session data not found")

// Session is the role context of one signed-in user. It is created at sign-in
// and lives until sign-out or ExpiresAt, whichever comes first.
// swagger:model Session
type Session struct {
	ID         string         `json:"id"`
	Role       model.UserRole `json:"role"`
	IdentityID string         `json:"identityId"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpiresAt  time.Time      `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions and small values scoped to a session. Deleting a
// session deletes its scoped values too.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error

	PutData(ctx context.Context, s *Session, field string, value []byte) error
	GetData(ctx context.Context, s *Session, field string) ([]byte, error)
	DeleteData(ctx context.Context, s *Session, field string) error
}

type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

func (m *Manager) Store() Store {
	return m.store
}

// SignIn 创建新会话
func (m *Manager) SignIn(ctx context.Context, role model.UserRole, identityID, username, email string) (*Session, error) {
	if !role.Valid() {
		return nil, util.ErrPermissionDenied
	}
	now := m.now()
	s := &Session{
		ID:         uuid.New().String(),
		Role:       role,
		IdentityID: identityID,
		Username:   username,
		Email:      email,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve loads a live session. Expired sessions are removed and reported as
// util.ErrSessionNotFound.
func (m *Manager) Resolve(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, util.ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) SignOut(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

type ctxKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Current 返回中间件放入 gin.Context 的会话，未登录时为 nil
func Current(c *gin.Context) *Session {
	v, exists := c.Get(util.ContextKeySession)
	if !exists {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// Attach 把会话同时放入 gin.Context 和请求的 context.Context
func Attach(c *gin.Context, s *Session) {
	c.Set(util.ContextKeySession, s)
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), s))
}
