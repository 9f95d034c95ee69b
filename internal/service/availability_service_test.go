package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestAvailabilityService() (AvailabilityService, *mockLabSessionRepo, *mockAttendanceRepo) {
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
	svc := NewAvailabilityService(repo, zap.NewNop())
	svc.(*availabilityService).now = func() time.Time { return testMonday }
	return svc, sessionRepo, attRepo
}

// ── Today 测试 ──

func TestAvailabilityService_Today_CountsAndFlags(t *testing.T) {
	svc, sessionRepo, attRepo := setupTestAvailabilityService()

	sessionRepo.sessions["sess-full"] = &model.LabSession{
		LabSessionID: "sess-full", LabID: "lab-001", Name: "满员时段",
		DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00", MaxStudents: 2,
	}
	sessionRepo.sessions["sess-open"] = &model.LabSession{
		LabSessionID: "sess-open", LabID: "lab-001", Name: "空闲时段",
		DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", MaxStudents: 2,
	}
	// 周二时段不应出现在周一的结果中
	sessionRepo.sessions["sess-tue"] = &model.LabSession{
		LabSessionID: "sess-tue", LabID: "lab-001", Name: "周二时段",
		DayOfWeek: 2, StartTime: "08:00", EndTime: "10:00", MaxStudents: 2,
	}

	today := testMonday.Truncate(24 * time.Hour)
	attRepo.records["att-1"] = &model.AttendanceRecord{
		AttendanceID: "att-1", UserID: "stu-001", LabID: "lab-001",
		LabSessionID: "sess-full", AttendanceDate: today,
	}
	attRepo.records["att-2"] = &model.AttendanceRecord{
		AttendanceID: "att-2", UserID: "stu-002", LabID: "lab-001",
		LabSessionID: "sess-full", AttendanceDate: today,
	}
	// 昨天的记录不计入今日
	attRepo.records["att-old"] = &model.AttendanceRecord{
		AttendanceID: "att-old", UserID: "stu-003", LabID: "lab-001",
		LabSessionID: "sess-open", AttendanceDate: today.AddDate(0, 0, -7),
	}

	result, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if result.Date != "2025-09-01" {
		t.Errorf("期望Date=2025-09-01，实际=%s", result.Date)
	}
	if result.DayOfWeek != 1 {
		t.Errorf("期望DayOfWeek=1，实际=%d", result.DayOfWeek)
	}
	if len(result.Sessions) != 2 {
		t.Fatalf("期望返回 2 个今日时段，实际 %d 个", len(result.Sessions))
	}

	byID := make(map[string]int)
	for i, item := range result.Sessions {
		byID[item.LabSessionID] = i
	}

	full := result.Sessions[byID["sess-full"]]
	if full.CurrentCount != 2 {
		t.Errorf("满员时段期望CurrentCount=2，实际=%d", full.CurrentCount)
	}
	if full.Available {
		t.Error("满员时段应为不可约，但仍需出现在结果中")
	}

	open := result.Sessions[byID["sess-open"]]
	if open.CurrentCount != 0 {
		t.Errorf("空闲时段期望CurrentCount=0，实际=%d", open.CurrentCount)
	}
	if !open.Available {
		t.Error("空闲时段应为可约")
	}
}

func TestAvailabilityService_Today_ZeroMaxMeansUnlimited(t *testing.T) {
	svc, sessionRepo, attRepo := setupTestAvailabilityService()

	sessionRepo.sessions["sess-001"] = &model.LabSession{
		LabSessionID: "sess-001", LabID: "lab-001", Name: "不限员时段",
		DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00", MaxStudents: 0,
	}
	today := testMonday.Truncate(24 * time.Hour)
	for i, uid := range []string{"stu-001", "stu-002", "stu-003"} {
		id := string(rune('a' + i))
		attRepo.records["att-"+id] = &model.AttendanceRecord{
			AttendanceID: "att-" + id, UserID: uid, LabID: "lab-001",
			LabSessionID: "sess-001", AttendanceDate: today,
		}
	}

	result, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("期望 1 个时段，实际 %d 个", len(result.Sessions))
	}
	if !result.Sessions[0].Available {
		t.Error("max_students=0 表示不设上限，应始终可约")
	}
}

func TestAvailabilityService_Today_LocalMidnightBoundary(t *testing.T) {
	svc, sessionRepo, attRepo := setupTestAvailabilityService()
	cst := time.FixedZone("CST", 8*3600)

	// 东八区周一 00:10，昨天（周日）的记录不应计入今日
	svc.(*availabilityService).now = func() time.Time {
		return time.Date(2025, 9, 1, 0, 10, 0, 0, cst)
	}
	sessionRepo.sessions["sess-001"] = &model.LabSession{
		LabSessionID: "sess-001", LabID: "lab-001", Name: "周一时段",
		DayOfWeek: 1, StartTime: "08:00", EndTime: "10:00", MaxStudents: 5,
	}
	attRepo.records["att-yesterday"] = &model.AttendanceRecord{
		AttendanceID: "att-yesterday", UserID: "stu-001", LabID: "lab-001",
		LabSessionID: "sess-001", AttendanceDate: time.Date(2025, 8, 31, 0, 0, 0, 0, cst),
	}
	attRepo.records["att-today"] = &model.AttendanceRecord{
		AttendanceID: "att-today", UserID: "stu-002", LabID: "lab-001",
		LabSessionID: "sess-001", AttendanceDate: time.Date(2025, 9, 1, 0, 0, 0, 0, cst),
	}

	result, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if result.Date != "2025-09-01" {
		t.Errorf("期望Date=2025-09-01，实际=%s", result.Date)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("期望 1 个时段，实际 %d 个", len(result.Sessions))
	}
	if result.Sessions[0].CurrentCount != 1 {
		t.Errorf("期望CurrentCount=1，实际=%d", result.Sessions[0].CurrentCount)
	}
}

func TestAvailabilityService_Today_Sunday(t *testing.T) {
	svc, sessionRepo, _ := setupTestAvailabilityService()
	svc.(*availabilityService).now = func() time.Time {
		return time.Date(2025, 9, 7, 9, 0, 0, 0, time.UTC) // 周日
	}

	sessionRepo.sessions["sess-sun"] = &model.LabSession{
		LabSessionID: "sess-sun", LabID: "lab-001", Name: "周日时段",
		DayOfWeek: 7, StartTime: "08:00", EndTime: "10:00", MaxStudents: 5,
	}

	result, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today 应成功: %v", err)
	}
	if result.DayOfWeek != 7 {
		t.Errorf("周日期望DayOfWeek=7，实际=%d", result.DayOfWeek)
	}
	if len(result.Sessions) != 1 {
		t.Errorf("期望返回周日时段，实际 %d 个", len(result.Sessions))
	}
}

// ── ForDay 测试 ──

func TestAvailabilityService_ForDay_OtherDayCountsToday(t *testing.T) {
	svc, sessionRepo, attRepo := setupTestAvailabilityService()

	sessionRepo.sessions["sess-wed"] = &model.LabSession{
		LabSessionID: "sess-wed", LabID: "lab-001", Name: "周三时段",
		DayOfWeek: 3, StartTime: "14:00", EndTime: "16:00", MaxStudents: 5,
	}
	// 今天（周一）的记录计入，即便查询的是周三的时段
	today := testMonday.Truncate(24 * time.Hour)
	attRepo.records["att-1"] = &model.AttendanceRecord{
		AttendanceID: "att-1", UserID: "stu-001", LabID: "lab-001",
		LabSessionID: "sess-wed", AttendanceDate: today,
	}

	result, err := svc.ForDay(context.Background(), 3)
	if err != nil {
		t.Fatalf("ForDay 应成功: %v", err)
	}
	if result.DayOfWeek != 3 {
		t.Errorf("期望DayOfWeek=3，实际=%d", result.DayOfWeek)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("期望 1 个周三时段，实际 %d 个", len(result.Sessions))
	}
	if result.Sessions[0].CurrentCount != 1 {
		t.Errorf("期望CurrentCount=1，实际=%d", result.Sessions[0].CurrentCount)
	}
}

func TestAvailabilityService_ForDay_InvalidDay(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	for _, day := range []int{0, 8, -1} {
		if _, err := svc.ForDay(context.Background(), day); !errors.Is(err, ErrInvalidDayOfWeek) {
			t.Errorf("day=%d 期望 ErrInvalidDayOfWeek，实际: %v", day, err)
		}
	}
}

func TestAvailabilityService_Today_NoSessions(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("无时段不应报错: %v", err)
	}
	if len(result.Sessions) != 0 {
		t.Errorf("期望空列表，实际 %d 个", len(result.Sessions))
	}
}
