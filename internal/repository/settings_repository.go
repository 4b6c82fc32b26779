package repository

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get 读取唯一的设置行，不存在时返回默认值
func (r *SettingsRepository) Get(ctx context.Context) (*model.PlatformSettings, error) {
	var s model.PlatformSettings
	err := r.DB.WithContext(ctx).First(&s, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := model.DefaultPlatformSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *model.PlatformSettings) error {
	s.ID = 1
	return r.DB.WithContext(ctx).Save(s).Error
}
