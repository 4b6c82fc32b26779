package repository

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type IdentityRepository struct {
	DB *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{DB: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *model.Identity) error {
	err := r.DB.WithContext(ctx).Create(identity).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrEmailRegistered
	}
	return err
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Identity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Identity{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).
		Error
}
