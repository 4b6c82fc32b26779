package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/monitoring"
	"strings"
)

// LoginRequest 管理员与学生共用的登录请求
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录成功后返回的令牌与会话
// swagger:model LoginResult
type LoginResult struct {
	Token          string           `json:"token"`
	Session        *session.Session `json:"session"`
	AccountCreated bool             `json:"accountCreated,omitempty"`
}

type AuthService struct {
	Students   StudentStore
	Identities IdentityProvider
	Sessions   *session.Manager
	Cfg        *config.Config
}

func NewAuthService(students StudentStore, identities IdentityProvider, sessions *session.Manager, cfg *config.Config) *AuthService {
	return &AuthService{
		Students:   students,
		Identities: identities,
		Sessions:   sessions,
		Cfg:        cfg,
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// AdminLogin 校验固定的管理员账号；首次登录时在身份服务中创建管理员身份
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	result, err := s.adminLogin(ctx, username, password)
	recordLogin(model.RoleAdmin, err)
	return result, err
}

func (s *AuthService) adminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	admin := s.Cfg.Admin
	userOK := constantTimeEqual(strings.TrimSpace(username), admin.Username)
	passOK := constantTimeEqual(password, admin.Password)
	if !userOK || !passOK {
		return nil, util.ErrInvalidCredentials
	}

	created := false
	identity, err := s.Identities.VerifyPassword(ctx, admin.Email, password)
	if errors.Is(err, util.ErrIdentityNotFound) || errors.Is(err, util.ErrInvalidCredentials) {
		identity, err = s.Identities.CreateUser(ctx, admin.Email, password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrAdminSetupFailed, err)
		}
		created = true
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAuthService, err)
	}

	result, err := s.startSession(ctx, model.RoleAdmin, identity.ID, admin.Username, identity.Email)
	if err != nil {
		return nil, err
	}
	result.AccountCreated = created
	return result, nil
}

// StudentLogin 按用户名精确查找学生记录，密码只交给身份服务校验
func (s *AuthService) StudentLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	result, err := s.studentLogin(ctx, username, password)
	recordLogin(model.RoleStudent, err)
	return result, err
}

func (s *AuthService) studentLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	student, err := s.Students.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	identity, err := s.Identities.VerifyPassword(ctx, student.Email, password)
	if errors.Is(err, util.ErrInvalidCredentials) {
		return nil, util.ErrWrongPassword
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAuthService, err)
	}

	return s.startSession(ctx, model.RoleStudent, identity.ID, student.Username, identity.Email)
}

func (s *AuthService) startSession(ctx context.Context, role model.UserRole, identityID, username, email string) (*LoginResult, error) {
	sess, err := s.Sessions.SignIn(ctx, role, identityID, username, email)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(sess.ID, sess.Role, sess.Email, s.Cfg.JWT.Secret, sess.ExpiresAt)
	if err != nil {
		_ = s.Sessions.SignOut(ctx, sess.ID)
		return nil, err
	}

	return &LoginResult{Token: token, Session: sess}, nil
}

// Logout 结束会话，会话内的测验草稿一并清除
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return util.ErrSessionNotFound
	}
	return s.Sessions.SignOut(ctx, sess.ID)
}

func recordLogin(role model.UserRole, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrWrongPassword):
		outcome = "rejected"
	case errors.Is(err, util.ErrStudentNotFound):
		outcome = "unknown_user"
	default:
		outcome = "error"
	}
	monitoring.LoginAttempts.WithLabelValues(string(role), outcome).Inc()
}
