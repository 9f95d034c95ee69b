package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labtrack/backend/internal/model"
	pkgerrors "labtrack/backend/pkg/errors"
)

// LabSessionRepository 实验时段数据访问接口
//
// CreateExclusive / UpdateExclusive 在事务内对所属实验室行加
// FOR UPDATE 锁后再做重叠扫描，串行化同一实验室的并发写入，
// 防止两个不冲突检查同时通过后写入重叠时段
type LabSessionRepository interface {
	CreateExclusive(ctx context.Context, session *model.LabSession) error
	UpdateExclusive(ctx context.Context, session *model.LabSession) error
	GetByID(ctx context.Context, id string) (*model.LabSession, error)
	ListByLab(ctx context.Context, labID string) ([]model.LabSession, error)
	ListAll(ctx context.Context) ([]model.LabSession, error)
	ListByDay(ctx context.Context, dayOfWeek int) ([]model.LabSession, error)
	Delete(ctx context.Context, id string) error
	CountAttendance(ctx context.Context, id string) (int64, error)
}

type labSessionRepo struct {
	db *gorm.DB
}

// NewLabSessionRepo 创建 LabSessionRepository 实例
func NewLabSessionRepo(db *gorm.DB) LabSessionRepository {
	return &labSessionRepo{db: db}
}

func (r *labSessionRepo) CreateExclusive(ctx context.Context, session *model.LabSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLab(tx, session.LabID); err != nil {
			return err
		}
		overlap, err := hasOverlap(tx, session, "")
		if err != nil {
			return err
		}
		if overlap {
			return pkgerrors.ErrScheduleOverlap
		}
		return tx.Create(session).Error
	})
}

func (r *labSessionRepo) UpdateExclusive(ctx context.Context, session *model.LabSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLab(tx, session.LabID); err != nil {
			return err
		}
		overlap, err := hasOverlap(tx, session, session.LabSessionID)
		if err != nil {
			return err
		}
		if overlap {
			return pkgerrors.ErrScheduleOverlap
		}
		return tx.Save(session).Error
	})
}

// lockLab 锁定实验室行，不存在时返回 gorm.ErrRecordNotFound
func lockLab(tx *gorm.DB, labID string) error {
	var lab model.Lab
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lab_id = ?", labID).
		First(&lab).Error
}

// hasOverlap 同一实验室同一天的时段重叠扫描
// 判定条件: start_time < 新时段结束 AND end_time > 新时段开始，
// 边界相接（前一时段结束 == 后一时段开始）不视为重叠
func hasOverlap(tx *gorm.DB, session *model.LabSession, excludeID string) (bool, error) {
	var count int64
	db := tx.Model(&model.LabSession{}).
		Where("lab_id = ? AND day_of_week = ?", session.LabID, session.DayOfWeek).
		Where("start_time < ? AND end_time > ?", session.EndTime, session.StartTime)
	if excludeID != "" {
		db = db.Where("lab_session_id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *labSessionRepo) GetByID(ctx context.Context, id string) (*model.LabSession, error) {
	var session model.LabSession
	err := r.db.WithContext(ctx).
		Preload("Lab").
		Where("lab_session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *labSessionRepo) ListByLab(ctx context.Context, labID string) ([]model.LabSession, error) {
	var sessions []model.LabSession
	err := r.db.WithContext(ctx).
		Where("lab_id = ?", labID).
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *labSessionRepo) ListAll(ctx context.Context) ([]model.LabSession, error) {
	var sessions []model.LabSession
	err := r.db.WithContext(ctx).
		Preload("Lab").
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *labSessionRepo) ListByDay(ctx context.Context, dayOfWeek int) ([]model.LabSession, error) {
	var sessions []model.LabSession
	err := r.db.WithContext(ctx).
		Preload("Lab").
		Where("day_of_week = ?", dayOfWeek).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *labSessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lab_session_id = ?", id).
		Delete(&model.LabSession{}).Error
}

// CountAttendance 统计时段下签到记录数，删除前检查用
func (r *labSessionRepo) CountAttendance(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("lab_session_id = ?", id).
		Count(&count).Error
	return count, err
}
