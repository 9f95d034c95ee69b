package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
	pkgerrors "labtrack/backend/pkg/errors"
)

// ── 实验时段模块业务错误 ──

var (
	ErrLabSessionNotFound   = errors.New("实验时段不存在")
	ErrScheduleConflict     = errors.New("该时段与同实验室已有时段重叠")
	ErrInvalidTimeRange     = errors.New("时间格式无效或开始时间不早于结束时间")
	ErrSessionHasAttendance = errors.New("时段下存在签到记录，无法删除")
)

// LabSessionService 实验时段业务接口（每周固定排程目录）
type LabSessionService interface {
	Create(ctx context.Context, req *dto.CreateLabSessionRequest, callerID string) (*dto.LabSessionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LabSessionResponse, error)
	List(ctx context.Context, req *dto.LabSessionListRequest) ([]dto.LabSessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLabSessionRequest, callerID string) (*dto.LabSessionResponse, error)
	Delete(ctx context.Context, id string) error
}

type labSessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLabSessionService 创建 LabSessionService 实例
func NewLabSessionService(repo *repository.Repository, logger *zap.Logger) LabSessionService {
	return &labSessionService{repo: repo, logger: logger}
}

// validTimeRange 校验时间格式且 start < end
// 兼容 "HH:MM" 与数据库回读的 "HH:MM:SS"
func validTimeRange(start, end string) bool {
	return validClock(start) && validClock(end) && start < end
}

func validClock(v string) bool {
	if _, err := time.Parse("15:04", v); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", v)
	return err == nil
}

func (s *labSessionService) Create(ctx context.Context, req *dto.CreateLabSessionRequest, callerID string) (*dto.LabSessionResponse, error) {
	if !validTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	session := &model.LabSession{
		LabID:       req.LabID,
		Name:        req.Name,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxStudents: req.MaxStudents,
	}
	session.CreatedBy = &callerID
	session.UpdatedBy = &callerID

	// 事务内锁定实验室行并做重叠扫描，见 LabSessionRepository
	if err := s.repo.LabSession.CreateExclusive(ctx, session); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrScheduleOverlap):
			return nil, ErrScheduleConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrLabNotFound
		}
		s.logger.Error("创建实验时段失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联
	created, err := s.repo.LabSession.GetByID(ctx, session.LabSessionID)
	if err != nil {
		return nil, err
	}
	return toLabSessionResponse(created), nil
}

func (s *labSessionService) GetByID(ctx context.Context, id string) (*dto.LabSessionResponse, error) {
	session, err := s.repo.LabSession.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabSessionNotFound
		}
		s.logger.Error("查询实验时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toLabSessionResponse(session), nil
}

func (s *labSessionService) List(ctx context.Context, req *dto.LabSessionListRequest) ([]dto.LabSessionResponse, error) {
	var (
		sessions []model.LabSession
		err      error
	)
	switch {
	case req.LabID != "":
		sessions, err = s.repo.LabSession.ListByLab(ctx, req.LabID)
	case req.DayOfWeek != nil:
		sessions, err = s.repo.LabSession.ListByDay(ctx, *req.DayOfWeek)
	default:
		sessions, err = s.repo.LabSession.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error("列出实验时段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LabSessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toLabSessionResponse(&sessions[i]))
	}
	return result, nil
}

func (s *labSessionService) Update(ctx context.Context, id string, req *dto.UpdateLabSessionRequest, callerID string) (*dto.LabSessionResponse, error) {
	session, err := s.repo.LabSession.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabSessionNotFound
		}
		s.logger.Error("查询实验时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		session.Name = *req.Name
	}
	if req.DayOfWeek != nil {
		session.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if req.MaxStudents != nil {
		session.MaxStudents = *req.MaxStudents
	}
	if !validTimeRange(session.StartTime, session.EndTime) {
		return nil, ErrInvalidTimeRange
	}
	session.UpdatedBy = &callerID
	session.Lab = nil // Save 不应级联写关联

	if err := s.repo.LabSession.UpdateExclusive(ctx, session); err != nil {
		if errors.Is(err, pkgerrors.ErrScheduleOverlap) {
			return nil, ErrScheduleConflict
		}
		s.logger.Error("更新实验时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.LabSession.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLabSessionResponse(updated), nil
}

// Delete 删除时段；存在签到记录时拒绝
func (s *labSessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.LabSession.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabSessionNotFound
		}
		s.logger.Error("查询实验时段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.LabSession.CountAttendance(ctx, id)
	if err != nil {
		s.logger.Error("统计时段签到失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrSessionHasAttendance
	}

	if err := s.repo.LabSession.Delete(ctx, id); err != nil {
		s.logger.Error("删除实验时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toLabSessionResponse(session *model.LabSession) *dto.LabSessionResponse {
	resp := &dto.LabSessionResponse{
		ID:          session.LabSessionID,
		LabID:       session.LabID,
		Name:        session.Name,
		DayOfWeek:   session.DayOfWeek,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		MaxStudents: session.MaxStudents,
		CreatedAt:   session.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   session.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if session.Lab != nil {
		resp.Lab = &dto.LabBrief{
			ID:   session.Lab.LabID,
			Name: session.Lab.Name,
		}
	}
	return resp
}
