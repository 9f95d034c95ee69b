package repository

import (
	"context"

	"gorm.io/gorm"

	"labtrack/backend/internal/model"
)

// LabRepository 实验室数据访问接口
type LabRepository interface {
	Create(ctx context.Context, lab *model.Lab) error
	GetByID(ctx context.Context, id string) (*model.Lab, error)
	GetByName(ctx context.Context, name string) (*model.Lab, error)
	List(ctx context.Context, subject string) ([]model.Lab, error)
	Update(ctx context.Context, lab *model.Lab) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (sessions int64, attendance int64, err error)
}

type labRepo struct {
	db *gorm.DB
}

// NewLabRepo 创建 LabRepository 实例
func NewLabRepo(db *gorm.DB) LabRepository {
	return &labRepo{db: db}
}

func (r *labRepo) Create(ctx context.Context, lab *model.Lab) error {
	return r.db.WithContext(ctx).Create(lab).Error
}

func (r *labRepo) GetByID(ctx context.Context, id string) (*model.Lab, error) {
	var lab model.Lab
	err := r.db.WithContext(ctx).
		Where("lab_id = ?", id).
		First(&lab).Error
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

func (r *labRepo) GetByName(ctx context.Context, name string) (*model.Lab, error) {
	var lab model.Lab
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&lab).Error
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

func (r *labRepo) List(ctx context.Context, subject string) ([]model.Lab, error) {
	var labs []model.Lab
	db := r.db.WithContext(ctx)
	if subject != "" {
		db = db.Where("subject = ?", subject)
	}
	err := db.Order("name ASC").Find(&labs).Error
	return labs, err
}

func (r *labRepo) Update(ctx context.Context, lab *model.Lab) error {
	return r.db.WithContext(ctx).Save(lab).Error
}

func (r *labRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lab_id = ?", id).
		Delete(&model.Lab{}).Error
}

// CountDependents 统计实验室下挂的时段数与签到记录数，删除前检查用
func (r *labRepo) CountDependents(ctx context.Context, id string) (int64, int64, error) {
	var sessions, attendance int64
	if err := r.db.WithContext(ctx).
		Model(&model.LabSession{}).
		Where("lab_id = ?", id).
		Count(&sessions).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("lab_id = ?", id).
		Count(&attendance).Error; err != nil {
		return 0, 0, err
	}
	return sessions, attendance, nil
}
