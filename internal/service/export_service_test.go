package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockLabSessionRepo, *mockAttendanceRepo) {
	labRepo := newMockLabRepo()
	seedLab(labRepo)
	sessionRepo := newMockLabSessionRepo(labRepo)
	attRepo := newMockAttendanceRepo()
	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Lab:        labRepo,
		LabSession: sessionRepo,
		Attendance: attRepo,
	}
	svc := NewExportService(repo, zap.NewNop())
	return svc, sessionRepo, attRepo
}

// ── ExportAttendanceSheet 测试 ──

func TestExportService_AttendanceSheet_NoRecords(t *testing.T) {
	svc, _, _ := setupTestExportService()

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.ExportAttendanceSheet(context.Background(), from, to)
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}

func TestExportService_AttendanceSheet_Success(t *testing.T) {
	svc, sessionRepo, attRepo := setupTestExportService()

	sessionRepo.sessions["sess-001"] = &model.LabSession{
		LabSessionID: "sess-001", LabID: "lab-001", Name: "周一上午实验",
		DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00",
	}
	attRepo.records["att-1"] = &model.AttendanceRecord{
		AttendanceID: "att-1", UserID: "stu-001", LabID: "lab-001", LabSessionID: "sess-001",
		AttendanceDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		User:           &model.User{UserID: "stu-001", Name: "测试学生", StudentNo: "S20250001"},
	}

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	buf, filename, err := svc.ExportAttendanceSheet(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ExportAttendanceSheet 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("期望 .xlsx 文件名，实际=%s", filename)
	}
}

// ── ExportSessionPlan 测试 ──

func TestExportService_SessionPlan_NoSessions(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportSessionPlan(context.Background())
	if !errors.Is(err, ErrExportNoSessions) {
		t.Errorf("期望 ErrExportNoSessions，实际: %v", err)
	}
}

func TestExportService_SessionPlan_WeeklyRecurrence(t *testing.T) {
	svc, sessionRepo, _ := setupTestExportService()

	sessionRepo.sessions["sess-001"] = &model.LabSession{
		LabSessionID: "sess-001", LabID: "lab-001", Name: "周三下午实验",
		DayOfWeek: 3, StartTime: "14:00", EndTime: "16:00",
	}

	buf, filename, err := svc.ExportSessionPlan(context.Background())
	if err != nil {
		t.Fatalf("ExportSessionPlan 应成功: %v", err)
	}
	if filename != "session_plan.ics" {
		t.Errorf("期望 session_plan.ics，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar 格式")
	}
	if !strings.Contains(content, "FREQ=WEEKLY") {
		t.Error("事件应按周循环")
	}
	if !strings.Contains(content, "BYDAY=WE") {
		t.Error("周三时段应生成 BYDAY=WE")
	}
	if !strings.Contains(content, "周三下午实验") {
		t.Error("事件摘要应包含时段名称")
	}
}

// ── nextOccurrence 测试 ──

func TestNextOccurrence(t *testing.T) {
	// 2025-09-01 是周一
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		dayOfWeek int
		clock     string
		wantDay   int
	}{
		{1, "08:00", 1}, // 当天（时刻已过也取当天，由 RRULE 滚动）
		{3, "14:00", 3}, // 本周三
		{7, "09:00", 7}, // 本周日
	}
	for _, tc := range cases {
		got, err := nextOccurrence(base, tc.dayOfWeek, tc.clock)
		if err != nil {
			t.Fatalf("nextOccurrence 失败: %v", err)
		}
		if got.Day() != tc.wantDay {
			t.Errorf("dayOfWeek=%d 期望日期=9月%d日，实际=%d日", tc.dayOfWeek, tc.wantDay, got.Day())
		}
	}

	if _, err := nextOccurrence(base, 1, "无效时间"); err == nil {
		t.Error("无效时间格式应报错")
	}
}
