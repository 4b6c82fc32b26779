package service

import (
	"context"
	"quizmaster_backend/internal/model"
)

type SettingsStore interface {
	Get(ctx context.Context) (*model.PlatformSettings, error)
	Save(ctx context.Context, s *model.PlatformSettings) error
}

type SettingsService struct {
	Repo SettingsStore
}

func NewSettingsService(repo SettingsStore) *SettingsService {
	return &SettingsService{Repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (*model.PlatformSettings, error) {
	return s.Repo.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, in model.PlatformSettings) (*model.PlatformSettings, error) {
	if in.DefaultTimeLimit < 1 {
		return nil, &ValidationError{Message: "default time limit must be at least one minute", Fields: []string{"defaultTimeLimit"}}
	}
	if err := s.Repo.Save(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// DefaultTimeLimit 新建测验时预填的时长（分钟）。读取失败时回退到 30。
func (s *SettingsService) DefaultTimeLimit(ctx context.Context) int {
	settings, err := s.Repo.Get(ctx)
	if err != nil || settings.DefaultTimeLimit < 1 {
		return model.DefaultTimeLimit
	}
	return settings.DefaultTimeLimit
}
