package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("该区间内无签到记录")
	ErrExportNoSessions   = errors.New("暂无实验时段可导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 签到台账导出为 Excel (.xlsx)，按日期倒序平铺
//   - 每周时段安排导出为 iCalendar (.ics)，每个时段一个每周循环事件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendanceSheet 导出区间内签到台账为 Excel
	ExportAttendanceSheet(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error)
	// ExportSessionPlan 导出每周时段安排为 iCalendar
	ExportSessionPlan(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendanceSheet — 导出签到台账为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 表头: | 日期 | 学生 | 学号 | 实验室 | 时段 | 状态 |
//   - 按实验室统计与按学生统计附在数据区下方
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendanceSheet(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error) {
	byLab, err := s.repo.Attendance.CountByLab(ctx, from, to)
	if err != nil {
		s.logger.Error("统计签到失败", zap.Error(err))
		return nil, "", err
	}

	// 逐实验室拉取明细过重，这里直接取全部待导出记录
	stats, err := s.repo.Attendance.Stats(ctx, from, to)
	if err != nil {
		s.logger.Error("统计签到失败", zap.Error(err))
		return nil, "", err
	}
	if stats.Total == 0 {
		return nil, "", ErrExportNoRecords
	}

	byStudent, err := s.repo.Attendance.CountByStudent(ctx, from, to)
	if err != nil {
		s.logger.Error("统计签到失败", zap.Error(err))
		return nil, "", err
	}

	sessions, err := s.repo.LabSession.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询时段失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "签到台账"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("签到台账 %s ~ %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 明细表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "日期")
	f.SetCellValue(sheetName, cell("B", row), "学生")
	f.SetCellValue(sheetName, cell("C", row), "学号")
	f.SetCellValue(sheetName, cell("D", row), "实验室")
	f.SetCellValue(sheetName, cell("E", row), "时段")
	f.SetCellValue(sheetName, cell("F", row), "状态")

	// 明细行：按时段逐一拉取区间内记录
	row = 3
	for i := range sessions {
		recs, err := s.repo.Attendance.ListBySession(ctx, sessions[i].LabSessionID, nil)
		if err != nil {
			s.logger.Error("查询时段签到失败", zap.Error(err))
			return nil, "", err
		}
		for j := range recs {
			rec := &recs[j]
			if rec.AttendanceDate.Before(from) || rec.AttendanceDate.After(to) {
				continue
			}
			f.SetCellValue(sheetName, cell("A", row), rec.AttendanceDate.Format("2006-01-02"))
			if rec.User != nil {
				f.SetCellValue(sheetName, cell("B", row), rec.User.Name)
				f.SetCellValue(sheetName, cell("C", row), rec.User.StudentNo)
			}
			if sessions[i].Lab != nil {
				f.SetCellValue(sheetName, cell("D", row), sessions[i].Lab.Name)
			}
			f.SetCellValue(sheetName, cell("E", row), sessions[i].Name)
			status := "待审批"
			if rec.Approved {
				status = "已通过"
			}
			f.SetCellValue(sheetName, cell("F", row), status)
			row++
		}
	}

	// 汇总区
	row++
	f.SetCellValue(sheetName, cell("A", row), "按实验室汇总")
	row++
	for _, item := range byLab {
		f.SetCellValue(sheetName, cell("A", row), item.LabName)
		f.SetCellValue(sheetName, cell("B", row), item.Count)
		row++
	}
	row++
	f.SetCellValue(sheetName, cell("A", row), "按学生汇总")
	row++
	for _, item := range byStudent {
		f.SetCellValue(sheetName, cell("A", row), item.UserName)
		f.SetCellValue(sheetName, cell("B", row), item.Count)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("签到台账_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportSessionPlan — 导出每周时段安排为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个实验时段生成一个 VEVENT，RRULE:FREQ=WEEKLY 按周循环，
// DTSTART 取下一个匹配的星期几

var icsByDay = map[int]string{1: "MO", 2: "TU", 3: "WE", 4: "TH", 5: "FR", 6: "SA", 7: "SU"}

func (s *exportService) ExportSessionPlan(ctx context.Context) (*bytes.Buffer, string, error) {
	sessions, err := s.repo.LabSession.ListAll(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportNoSessions
		}
		s.logger.Error("查询时段失败", zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoSessions
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//labtrack//session plan//CN")

	now := time.Now()
	for i := range sessions {
		sess := &sessions[i]

		start, err := nextOccurrence(now, sess.DayOfWeek, sess.StartTime)
		if err != nil {
			s.logger.Warn("时段时间格式异常，跳过", zap.String("id", sess.LabSessionID), zap.Error(err))
			continue
		}
		end, err := nextOccurrence(now, sess.DayOfWeek, sess.EndTime)
		if err != nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@labtrack", sess.LabSessionID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(sess.Name)
		if sess.Lab != nil {
			event.SetLocation(sess.Lab.Name)
		}
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsByDay[sess.DayOfWeek]))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "session_plan.ics", nil
}

// nextOccurrence 从 base 起下一个落在 dayOfWeek(1-7) 的 clock("HH:MM") 时刻
func nextOccurrence(base time.Time, dayOfWeek int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clockHHMM(clock))
	if err != nil {
		return time.Time{}, err
	}

	dow := int(base.Weekday())
	if dow == 0 {
		dow = 7
	}
	days := (dayOfWeek - dow + 7) % 7

	day := base.AddDate(0, 0, days)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, base.Location()), nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
