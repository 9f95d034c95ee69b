package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/repository"
)

var ErrInvalidDayOfWeek = errors.New("无效的星期值")

// AvailabilityService 容量可用性查询
// 返回指定星期的全部时段及其今日签到数与可约标志；
// max_students 为软上限，满员时段仍返回，仅 available=false
type AvailabilityService interface {
	ForDay(ctx context.Context, dayOfWeek int) (*dto.AvailabilityResponse, error)
	Today(ctx context.Context) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试可注入
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger, now: time.Now}
}

// Today 查询当天星期对应的时段
func (s *availabilityService) Today(ctx context.Context) (*dto.AvailabilityResponse, error) {
	dow := int(s.now().Weekday())
	if dow == 0 {
		dow = 7 // Sunday
	}
	return s.ForDay(ctx, dow)
}

// ForDay 查询指定星期的时段；签到数始终按今天统计
func (s *availabilityService) ForDay(ctx context.Context, dayOfWeek int) (*dto.AvailabilityResponse, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, ErrInvalidDayOfWeek
	}
	today := localDate(s.now())

	sessions, err := s.repo.LabSession.ListByDay(ctx, dayOfWeek)
	if err != nil {
		s.logger.Error("查询时段失败", zap.Int("day_of_week", dayOfWeek), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(sessions))
	for i := range sessions {
		ids = append(ids, sessions[i].LabSessionID)
	}
	counts, err := s.repo.Attendance.CountBySessionOnDate(ctx, ids, today)
	if err != nil {
		s.logger.Error("统计今日签到数失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.AvailabilityItem, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		count := counts[sess.LabSessionID] // 无记录即 0
		item := dto.AvailabilityItem{
			LabSessionID: sess.LabSessionID,
			SessionName:  sess.Name,
			LabID:        sess.LabID,
			StartTime:    sess.StartTime,
			EndTime:      sess.EndTime,
			MaxStudents:  sess.MaxStudents,
			CurrentCount: count,
			// max_students 为 0 表示不设上限
			Available: sess.MaxStudents == 0 || count < int64(sess.MaxStudents),
		}
		if sess.Lab != nil {
			item.LabName = sess.Lab.Name
		}
		items = append(items, item)
	}

	return &dto.AvailabilityResponse{
		Date:      today.Format("2006-01-02"),
		DayOfWeek: dayOfWeek,
		Sessions:  items,
	}, nil
}
