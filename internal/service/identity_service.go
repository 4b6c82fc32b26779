package service

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// IdentityProvider is the authentication component: it owns email+password
// credentials and is the only place passwords are checked.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (*model.Identity, error)
	VerifyPassword(ctx context.Context, email, password string) (*model.Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

type IdentityStore interface {
	Create(ctx context.Context, identity *model.Identity) error
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
	Delete(ctx context.Context, id string) error
	TouchSignIn(ctx context.Context, id string, at time.Time) error
}

type IdentityService struct {
	Repo IdentityStore
	Cost int
}

func NewIdentityService(repo IdentityStore) *IdentityService {
	return &IdentityService{Repo: repo, Cost: bcrypt.DefaultCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *IdentityService) CreateUser(ctx context.Context, email, password string) (*model.Identity, error) {
	if len(password) < MinPasswordLength {
		return nil, util.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return nil, err
	}

	identity := &model.Identity{
		Email:        NormalizeEmail(email),
		PasswordHash: string(hashed),
	}
	if err := s.Repo.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// VerifyPassword returns util.ErrIdentityNotFound for unknown emails and
// util.ErrInvalidCredentials for a wrong password.
func (s *IdentityService) VerifyPassword(ctx context.Context, email, password string) (*model.Identity, error) {
	identity, err := s.Repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if err := s.Repo.TouchSignIn(ctx, identity.ID, now); err == nil {
		identity.LastSignInAt = &now
	}
	return identity, nil
}

func (s *IdentityService) DeleteUser(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
