package repository

import (
	"context"
	"errors"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	err := r.DB.WithContext(ctx).Create(student).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 唯一索引冲突：区分用户名和邮箱
		var n int64
		if cerr := r.DB.WithContext(ctx).Model(&model.Student{}).Where("username = ?", student.Username).Count(&n).Error; cerr != nil {
			return err
		}
		if n > 0 {
			return util.ErrUsernameTaken
		}
		return util.ErrEmailRegistered
	}
	return err
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUsername 精确匹配用户名（区分大小写与重音）。
// 列的排序规则不区分大小写时，数据库可能返回多条候选，这里再按字节比较筛选。
func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*model.Student, error) {
	var candidates []model.Student
	if err := r.DB.WithContext(ctx).Where("username = ?", username).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Username == username {
			return &candidates[i], nil
		}
	}
	return nil, util.ErrStudentNotFound
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.WithContext(ctx).Order("created_at desc").Find(&students).Error
	return students, err
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Student{}).Count(&total).Error
	return total, err
}
