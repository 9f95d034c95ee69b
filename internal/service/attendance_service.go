package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack/backend/config"
	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
)

// ── 签到台账业务错误 ──

var (
	ErrAttendanceNotFound  = errors.New("签到记录不存在")
	ErrDuplicateAttendance = errors.New("今日已在该时段签到")
	ErrOutsideTimeWindow   = errors.New("当前不在该时段的签到时间窗口内")
)

// AttendanceService 签到台账业务接口
// 记录生命周期：pending（默认）→ approved（教师审批）；驳回即删除
type AttendanceService interface {
	Mark(ctx context.Context, userID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AttendanceResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.AttendanceResponse, error)
	DeleteOwn(ctx context.Context, id, userID string) (*dto.DeleteAttendanceResponse, error)
	ListPending(ctx context.Context, req *dto.PendingListRequest) ([]dto.AttendanceResponse, error)
	ListBySession(ctx context.Context, sessionID string, req *dto.SessionAttendanceRequest) ([]dto.AttendanceResponse, error)
	Approve(ctx context.Context, id string) (*dto.AttendanceResponse, error)
	Reject(ctx context.Context, id string) error
	Stats(ctx context.Context, req *dto.StatsRequest) (*dto.AttendanceStatsResponse, error)
}

type attendanceService struct {
	repo              *repository.Repository
	logger            *zap.Logger
	enforceTimeWindow bool
	now               func() time.Time // 测试可注入
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:              repo,
		logger:            logger,
		enforceTimeWindow: cfg.Attendance.EnforceTimeWindow,
		now:               time.Now,
	}
}

// Mark 学生签到
// 同一学生同一时段同一天只能签到一次：先做友好预检，
// 并发场景由数据库唯一约束兜底（ErrDuplicatedKey 同样映射为重复签到）
func (s *attendanceService) Mark(ctx context.Context, userID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error) {
	session, err := s.repo.LabSession.GetByID(ctx, req.LabSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabSessionNotFound
		}
		s.logger.Error("查询实验时段失败", zap.Error(err))
		return nil, err
	}

	now := s.now()

	// 开启 enforce_time_window 时校验当前时间落在时段窗口内；
	// 未开启时由调用方保证
	if s.enforceTimeWindow && !inTimeWindow(session, now) {
		return nil, ErrOutsideTimeWindow
	}

	today := localDate(now)
	exists, err := s.repo.Attendance.ExistsForDay(ctx, userID, session.LabSessionID, today)
	if err != nil {
		s.logger.Error("签到预检失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAttendance
	}

	rec := &model.AttendanceRecord{
		UserID:         userID,
		LabID:          session.LabID,
		LabSessionID:   session.LabSessionID,
		AttendanceDate: today,
		Approved:       false,
	}
	rec.CreatedBy = &userID
	rec.UpdatedBy = &userID

	if err := s.repo.Attendance.Create(ctx, rec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAttendance
		}
		s.logger.Error("写入签到记录失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Attendance.GetByID(ctx, rec.AttendanceID)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponse(created), nil
}

// inTimeWindow 当前时间是否落在时段的星期与起止窗口内
func inTimeWindow(session *model.LabSession, now time.Time) bool {
	dow := int(now.Weekday())
	if dow == 0 {
		dow = 7 // Sunday
	}
	if dow != session.DayOfWeek {
		return false
	}
	clock := now.Format("15:04")
	return clockHHMM(session.StartTime) <= clock && clock < clockHHMM(session.EndTime)
}

// clockHHMM 截取 "HH:MM"，兼容数据库回读的 "HH:MM:SS"
func clockHHMM(v string) string {
	if len(v) > 5 {
		return v[:5]
	}
	return v
}

// localDate 取 t 所在时区的自然日零点
// Truncate 按 UTC 切日，跨时区部署时午夜前后会落到同一天
func localDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *attendanceService) GetByID(ctx context.Context, id string) (*dto.AttendanceResponse, error) {
	rec, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询签到记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

func (s *attendanceService) ListMine(ctx context.Context, userID string) ([]dto.AttendanceResponse, error) {
	recs, err := s.repo.Attendance.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出签到记录失败", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(recs), nil
}

// DeleteOwn 学生撤销本人签到
// 记录不存在或不属于该学生时返回 deleted=false，不报错
func (s *attendanceService) DeleteOwn(ctx context.Context, id, userID string) (*dto.DeleteAttendanceResponse, error) {
	deleted, err := s.repo.Attendance.DeleteOwned(ctx, id, userID)
	if err != nil {
		s.logger.Error("撤销签到失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.DeleteAttendanceResponse{Deleted: deleted}, nil
}

func (s *attendanceService) ListPending(ctx context.Context, req *dto.PendingListRequest) ([]dto.AttendanceResponse, error) {
	recs, err := s.repo.Attendance.ListPending(ctx, req.Subject)
	if err != nil {
		s.logger.Error("列出待审批记录失败", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(recs), nil
}

func (s *attendanceService) ListBySession(ctx context.Context, sessionID string, req *dto.SessionAttendanceRequest) ([]dto.AttendanceResponse, error) {
	if _, err := s.repo.LabSession.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabSessionNotFound
		}
		return nil, err
	}

	var date *time.Time
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}

	recs, err := s.repo.Attendance.ListBySession(ctx, sessionID, date)
	if err != nil {
		s.logger.Error("按时段列出签到失败", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(recs), nil
}

// Approve 审批通过；重复审批幂等
func (s *attendanceService) Approve(ctx context.Context, id string) (*dto.AttendanceResponse, error) {
	if _, err := s.repo.Attendance.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询签到记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.Attendance.SetApproved(ctx, id, true); err != nil {
		s.logger.Error("审批签到失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	rec, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

// Reject 驳回即删除记录，学生次日可重新签到
func (s *attendanceService) Reject(ctx context.Context, id string) error {
	if _, err := s.repo.Attendance.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		s.logger.Error("查询签到记录失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Attendance.Delete(ctx, id); err != nil {
		s.logger.Error("驳回签到失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *attendanceService) Stats(ctx context.Context, req *dto.StatsRequest) (*dto.AttendanceStatsResponse, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Attendance.Stats(ctx, from, to)
	if err != nil {
		s.logger.Error("统计签到失败", zap.Error(err))
		return nil, err
	}
	byLab, err := s.repo.Attendance.CountByLab(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byStudent, err := s.repo.Attendance.CountByStudent(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.AttendanceStatsResponse{
		From:             req.From,
		To:               req.To,
		Total:            stats.Total,
		DistinctStudents: stats.DistinctStudents,
		DistinctSessions: stats.DistinctSessions,
		ByLab:            make([]dto.LabCountItem, 0, len(byLab)),
		ByStudent:        make([]dto.StudentCountItem, 0, len(byStudent)),
	}
	for _, item := range byLab {
		resp.ByLab = append(resp.ByLab, dto.LabCountItem{
			LabID:   item.LabID,
			LabName: item.LabName,
			Count:   item.Count,
		})
	}
	for _, item := range byStudent {
		resp.ByStudent = append(resp.ByStudent, dto.StudentCountItem{
			UserID:   item.UserID,
			UserName: item.UserName,
			Count:    item.Count,
		})
	}
	return resp, nil
}

func toAttendanceResponse(rec *model.AttendanceRecord) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:             rec.AttendanceID,
		UserID:         rec.UserID,
		LabID:          rec.LabID,
		LabSessionID:   rec.LabSessionID,
		AttendanceDate: rec.AttendanceDate.Format("2006-01-02"),
		Approved:       rec.Approved,
		CreatedAt:      rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if rec.User != nil {
		resp.UserName = rec.User.Name
		resp.StudentNo = rec.User.StudentNo
	}
	if rec.Lab != nil {
		resp.LabName = rec.Lab.Name
	}
	if rec.LabSession != nil {
		resp.SessionName = rec.LabSession.Name
	}
	return resp
}

func toAttendanceResponses(recs []model.AttendanceRecord) []dto.AttendanceResponse {
	result := make([]dto.AttendanceResponse, 0, len(recs))
	for i := range recs {
		result = append(result, *toAttendanceResponse(&recs[i]))
	}
	return result
}
