package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"labtrack/backend/internal/model"
)

// AttendanceStats 区间统计结果
type AttendanceStats struct {
	Total            int64 `json:"total"`
	DistinctStudents int64 `json:"distinct_students"`
	DistinctSessions int64 `json:"distinct_sessions"`
}

// LabAttendanceCount 按实验室分组的签到数
type LabAttendanceCount struct {
	LabID   string `json:"lab_id"`
	LabName string `json:"lab_name"`
	Count   int64  `json:"count"`
}

// StudentAttendanceCount 按学生分组的签到数
type StudentAttendanceCount struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Count    int64  `json:"count"`
}

// AttendanceRepository 签到记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, rec *model.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
	ExistsForDay(ctx context.Context, userID, sessionID string, date time.Time) (bool, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error)
	ListBySession(ctx context.Context, sessionID string, date *time.Time) ([]model.AttendanceRecord, error)
	ListPending(ctx context.Context, subject string) ([]model.AttendanceRecord, error)
	CountBySessionOnDate(ctx context.Context, sessionIDs []string, date time.Time) (map[string]int64, error)
	Stats(ctx context.Context, from, to time.Time) (*AttendanceStats, error)
	CountByLab(ctx context.Context, from, to time.Time) ([]LabAttendanceCount, error)
	CountByStudent(ctx context.Context, from, to time.Time) ([]StudentAttendanceCount, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// Create 写入签到记录
// 并发重复签到由 (user_id, lab_session_id, attendance_date) 唯一约束兜底，
// 冲突时返回 gorm.ErrDuplicatedKey（TranslateError 已开启）
func (r *attendanceRepo) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Lab").
		Preload("LabSession").
		Where("attendance_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) ExistsForDay(ctx context.Context, userID, sessionID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("user_id = ? AND lab_session_id = ? AND attendance_date = ?",
			userID, sessionID, date.Format("2006-01-02")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *attendanceRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("attendance_id = ?", id).
		Update("approved", approved).Error
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		Delete(&model.AttendanceRecord{}).Error
}

// DeleteOwned 学生撤销本人签到；记录不存在或不属于该学生时返回 false
func (r *attendanceRepo) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("attendance_id = ? AND user_id = ?", id, userID).
		Delete(&model.AttendanceRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *attendanceRepo) ListByUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Lab").
		Preload("LabSession").
		Where("user_id = ?", userID).
		Order("attendance_date DESC, created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *attendanceRepo) ListBySession(ctx context.Context, sessionID string, date *time.Time) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	db := r.db.WithContext(ctx).
		Preload("User").
		Where("lab_session_id = ?", sessionID)
	if date != nil {
		db = db.Where("attendance_date = ?", date.Format("2006-01-02"))
	}
	err := db.Order("attendance_date DESC, created_at DESC").Find(&recs).Error
	return recs, err
}

// ListPending 待审批记录，可按所属实验室学科过滤
func (r *attendanceRepo) ListPending(ctx context.Context, subject string) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	db := r.db.WithContext(ctx).
		Preload("User").
		Preload("Lab").
		Preload("LabSession").
		Where("approved = ?", false)
	if subject != "" {
		db = db.Joins("JOIN labs ON labs.lab_id = attendance_records.lab_id").
			Where("labs.subject = ?", subject)
	}
	// 最新提交在前
	err := db.Order("attendance_records.created_at DESC").Find(&recs).Error
	return recs, err
}

// CountBySessionOnDate 指定日期各时段的签到人数，无记录的时段不在结果中
func (r *attendanceRepo) CountBySessionOnDate(ctx context.Context, sessionIDs []string, date time.Time) (map[string]int64, error) {
	if len(sessionIDs) == 0 {
		return map[string]int64{}, nil
	}
	type row struct {
		LabSessionID string
		Count        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("lab_session_id, COUNT(*) AS count").
		Where("lab_session_id IN ? AND attendance_date = ?", sessionIDs, date.Format("2006-01-02")).
		Group("lab_session_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.LabSessionID] = r.Count
	}
	return counts, nil
}

func (r *attendanceRepo) Stats(ctx context.Context, from, to time.Time) (*AttendanceStats, error) {
	var stats AttendanceStats
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT user_id) AS distinct_students, COUNT(DISTINCT lab_session_id) AS distinct_sessions").
		Where("attendance_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *attendanceRepo) CountByLab(ctx context.Context, from, to time.Time) ([]LabAttendanceCount, error) {
	var rows []LabAttendanceCount
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("attendance_records.lab_id, labs.name AS lab_name, COUNT(*) AS count").
		Joins("JOIN labs ON labs.lab_id = attendance_records.lab_id").
		Where("attendance_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("attendance_records.lab_id, labs.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *attendanceRepo) CountByStudent(ctx context.Context, from, to time.Time) ([]StudentAttendanceCount, error) {
	var rows []StudentAttendanceCount
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("attendance_records.user_id, users.name AS user_name, COUNT(*) AS count").
		Joins("JOIN users ON users.user_id = attendance_records.user_id").
		Where("attendance_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("attendance_records.user_id, users.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
