package service

import (
	"context"
	"errors"
	"fmt"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/logger"
	"quizmaster_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
)

type StudentStore interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id string) (*model.Student, error)
	FindByUsername(ctx context.Context, username string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ProvisionStudentRequest 管理员创建学生账号
// swagger:model ProvisionStudentRequest
type ProvisionStudentRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type StudentService struct {
	Repo       StudentStore
	Identities IdentityProvider
}

func NewStudentService(repo StudentStore, identities IdentityProvider) *StudentService {
	return &StudentService{Repo: repo, Identities: identities}
}

func (s *StudentService) validate(req *ProvisionStudentRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = NormalizeEmail(req.Email)

	var fields []string
	if req.Username == "" {
		fields = append(fields, "username")
	}
	if err := fieldValidator.Var(req.Email, "required,email"); err != nil {
		fields = append(fields, "email")
	}
	if len(fields) > 0 {
		return &ValidationError{Message: "please fill in all fields", Fields: fields}
	}
	if len(req.Password) < MinPasswordLength {
		return util.ErrWeakPassword
	}
	return nil
}

// Provision 创建身份再写学生记录；记录写入失败时删除刚创建的身份
func (s *StudentService) Provision(ctx context.Context, req ProvisionStudentRequest) (*model.Student, error) {
	student, err := s.provision(ctx, req)
	outcome := "created"
	if err != nil {
		outcome = "failed"
	}
	monitoring.StudentProvisioning.WithLabelValues(outcome).Inc()
	return student, err
}

func (s *StudentService) provision(ctx context.Context, req ProvisionStudentRequest) (*model.Student, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	// 用户名重复时不触碰身份服务
	_, err := s.Repo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	}
	if !errors.Is(err, util.ErrStudentNotFound) {
		return nil, err
	}

	identity, err := s.Identities.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Username:   req.Username,
		Email:      identity.Email,
		IdentityID: identity.ID,
	}
	if err := s.Repo.Create(ctx, student); err != nil {
		if rbErr := s.Identities.DeleteUser(ctx, identity.ID); rbErr != nil {
			logger.Log.Error("Failed to roll back identity after student write failed",
				zap.String("identityId", identity.ID),
				zap.String("email", identity.Email),
				zap.Error(rbErr),
			)
			return nil, errors.Join(err, fmt.Errorf("rollback identity %s: %w", identity.ID, rbErr))
		}
		logger.Log.Warn("Student write failed, identity rolled back",
			zap.String("identityId", identity.ID),
			zap.String("username", req.Username),
			zap.Error(err),
		)
		return nil, err
	}

	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.Repo.List(ctx)
}

// Delete 只删除学生记录，对应的身份保留在身份服务中
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Warn("Student record deleted, identity left in place",
		zap.String("studentId", student.ID),
		zap.String("identityId", student.IdentityID),
		zap.String("email", student.Email),
	)
	return nil
}
