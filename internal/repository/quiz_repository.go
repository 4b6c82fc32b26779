package repository

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// Create 一次写入整份测验文档（题目作为 JSON 列）
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) List(ctx context.Context, activeOnly bool) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.WithContext(ctx).Model(&model.Quiz{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Quiz{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Count(&total).Error
	return total, err
}
