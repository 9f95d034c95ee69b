package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"labtrack/backend/internal/model"
	"labtrack/backend/internal/repository"
	pkgerrors "labtrack/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// ── Mock LabRepository ──

type mockLabRepo struct {
	labs       map[string]*model.Lab
	idCounter  int
	dependents map[string][2]int64 // labID → {sessions, attendance}
}

func newMockLabRepo() *mockLabRepo {
	return &mockLabRepo{
		labs:       make(map[string]*model.Lab),
		dependents: make(map[string][2]int64),
	}
}

func (m *mockLabRepo) Create(_ context.Context, lab *model.Lab) error {
	for _, l := range m.labs {
		if l.Name == lab.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if lab.LabID == "" {
		m.idCounter++
		lab.LabID = fmt.Sprintf("lab-%d", m.idCounter)
	}
	lab.CreatedAt = time.Now()
	lab.UpdatedAt = time.Now()
	m.labs[lab.LabID] = lab
	return nil
}

func (m *mockLabRepo) GetByID(_ context.Context, id string) (*model.Lab, error) {
	if l, ok := m.labs[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLabRepo) GetByName(_ context.Context, name string) (*model.Lab, error) {
	for _, l := range m.labs {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLabRepo) List(_ context.Context, subject string) ([]model.Lab, error) {
	var result []model.Lab
	for _, l := range m.labs {
		if subject != "" && l.Subject != subject {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLabRepo) Update(_ context.Context, lab *model.Lab) error {
	m.labs[lab.LabID] = lab
	return nil
}

func (m *mockLabRepo) Delete(_ context.Context, id string) error {
	delete(m.labs, id)
	return nil
}

func (m *mockLabRepo) CountDependents(_ context.Context, id string) (int64, int64, error) {
	d := m.dependents[id]
	return d[0], d[1], nil
}

// ── Mock LabSessionRepository ──

type mockLabSessionRepo struct {
	sessions  map[string]*model.LabSession
	labs      *mockLabRepo // 锁定实验室行前需要确认实验室存在
	counts    map[string]int64
	idCounter int
}

func newMockLabSessionRepo(labs *mockLabRepo) *mockLabSessionRepo {
	return &mockLabSessionRepo{
		sessions: make(map[string]*model.LabSession),
		labs:     labs,
		counts:   make(map[string]int64),
	}
}

func (m *mockLabSessionRepo) hasOverlap(session *model.LabSession, excludeID string) bool {
	for _, s := range m.sessions {
		if s.LabSessionID == excludeID {
			continue
		}
		if s.LabID != session.LabID || s.DayOfWeek != session.DayOfWeek {
			continue
		}
		if s.StartTime < session.EndTime && s.EndTime > session.StartTime {
			return true
		}
	}
	return false
}

func (m *mockLabSessionRepo) CreateExclusive(ctx context.Context, session *model.LabSession) error {
	if m.labs != nil {
		if _, err := m.labs.GetByID(ctx, session.LabID); err != nil {
			return err
		}
	}
	if m.hasOverlap(session, "") {
		return pkgerrors.ErrScheduleOverlap
	}
	if session.LabSessionID == "" {
		m.idCounter++
		session.LabSessionID = fmt.Sprintf("sess-%d", m.idCounter)
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	m.sessions[session.LabSessionID] = session
	return nil
}

func (m *mockLabSessionRepo) UpdateExclusive(ctx context.Context, session *model.LabSession) error {
	if m.labs != nil {
		if _, err := m.labs.GetByID(ctx, session.LabID); err != nil {
			return err
		}
	}
	if m.hasOverlap(session, session.LabSessionID) {
		return pkgerrors.ErrScheduleOverlap
	}
	m.sessions[session.LabSessionID] = session
	return nil
}

func (m *mockLabSessionRepo) GetByID(_ context.Context, id string) (*model.LabSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLabSessionRepo) ListByLab(_ context.Context, labID string) ([]model.LabSession, error) {
	var result []model.LabSession
	for _, s := range m.sessions {
		if s.LabID == labID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockLabSessionRepo) ListAll(_ context.Context) ([]model.LabSession, error) {
	var result []model.LabSession
	for _, s := range m.sessions {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockLabSessionRepo) ListByDay(_ context.Context, dayOfWeek int) ([]model.LabSession, error) {
	var result []model.LabSession
	for _, s := range m.sessions {
		if s.DayOfWeek == dayOfWeek {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockLabSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockLabSessionRepo) CountAttendance(_ context.Context, id string) (int64, error) {
	return m.counts[id], nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records   map[string]*model.AttendanceRecord
	idCounter int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

// sameDay 按记录所在时区比较自然日
func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.In(a.Location()).Format("2006-01-02")
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	// 模拟 (user_id, lab_session_id, attendance_date) 唯一约束
	for _, r := range m.records {
		if r.UserID == rec.UserID && r.LabSessionID == rec.LabSessionID && sameDay(r.AttendanceDate, rec.AttendanceDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if rec.AttendanceID == "" {
		m.idCounter++
		rec.AttendanceID = fmt.Sprintf("att-%d", m.idCounter)
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	m.records[rec.AttendanceID] = rec
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ExistsForDay(_ context.Context, userID, sessionID string, date time.Time) (bool, error) {
	for _, r := range m.records {
		if r.UserID == userID && r.LabSessionID == sessionID && sameDay(r.AttendanceDate, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) SetApproved(_ context.Context, id string, approved bool) error {
	if r, ok := m.records[id]; ok {
		r.Approved = approved
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockAttendanceRepo) DeleteOwned(_ context.Context, id, userID string) (bool, error) {
	if r, ok := m.records[id]; ok && r.UserID == userID {
		delete(m.records, id)
		return true, nil
	}
	return false, nil
}

func (m *mockAttendanceRepo) ListByUser(_ context.Context, userID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListBySession(_ context.Context, sessionID string, date *time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.LabSessionID != sessionID {
			continue
		}
		if date != nil && !sameDay(r.AttendanceDate, *date) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AttendanceDate.Equal(result[j].AttendanceDate) {
			return result[i].AttendanceDate.After(result[j].AttendanceDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockAttendanceRepo) ListPending(_ context.Context, subject string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.Approved {
			continue
		}
		if subject != "" && (r.Lab == nil || r.Lab.Subject != subject) {
			continue
		}
		result = append(result, *r)
	}
	// 与真实仓储一致：最新提交在前
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockAttendanceRepo) CountBySessionOnDate(_ context.Context, sessionIDs []string, date time.Time) (map[string]int64, error) {
	counts := make(map[string]int64)
	idSet := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		idSet[id] = true
	}
	for _, r := range m.records {
		if idSet[r.LabSessionID] && sameDay(r.AttendanceDate, date) {
			counts[r.LabSessionID]++
		}
	}
	return counts, nil
}

func (m *mockAttendanceRepo) Stats(_ context.Context, from, to time.Time) (*repository.AttendanceStats, error) {
	stats := &repository.AttendanceStats{}
	users := make(map[string]bool)
	sessions := make(map[string]bool)
	for _, r := range m.records {
		if r.AttendanceDate.Before(from) || r.AttendanceDate.After(to) {
			continue
		}
		stats.Total++
		users[r.UserID] = true
		sessions[r.LabSessionID] = true
	}
	stats.DistinctStudents = int64(len(users))
	stats.DistinctSessions = int64(len(sessions))
	return stats, nil
}

func (m *mockAttendanceRepo) CountByLab(_ context.Context, from, to time.Time) ([]repository.LabAttendanceCount, error) {
	byLab := make(map[string]int64)
	for _, r := range m.records {
		if r.AttendanceDate.Before(from) || r.AttendanceDate.After(to) {
			continue
		}
		byLab[r.LabID]++
	}
	var result []repository.LabAttendanceCount
	for id, count := range byLab {
		result = append(result, repository.LabAttendanceCount{LabID: id, Count: count})
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByStudent(_ context.Context, from, to time.Time) ([]repository.StudentAttendanceCount, error) {
	byUser := make(map[string]int64)
	for _, r := range m.records {
		if r.AttendanceDate.Before(from) || r.AttendanceDate.After(to) {
			continue
		}
		byUser[r.UserID]++
	}
	var result []repository.StudentAttendanceCount
	for id, count := range byUser {
		result = append(result, repository.StudentAttendanceCount{UserID: id, Count: count})
	}
	return result, nil
}
