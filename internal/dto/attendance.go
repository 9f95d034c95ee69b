package dto

// ── 签到模块 DTO ──

// MarkAttendanceRequest 学生签到请求
type MarkAttendanceRequest struct {
	LabSessionID string `json:"lab_session_id" binding:"required,uuid"`
}

// PendingListRequest 待审批列表查询参数
type PendingListRequest struct {
	Subject string `form:"subject"`
}

// SessionAttendanceRequest 按时段查询签到记录参数
type SessionAttendanceRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// StatsRequest 统计区间查询参数
type StatsRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// AttendanceResponse 签到记录响应
type AttendanceResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	StudentNo      string `json:"student_no,omitempty"`
	LabID          string `json:"lab_id"`
	LabName        string `json:"lab_name,omitempty"`
	LabSessionID   string `json:"lab_session_id"`
	SessionName    string `json:"session_name,omitempty"`
	AttendanceDate string `json:"attendance_date"`
	Approved       bool   `json:"approved"`
	CreatedAt      string `json:"created_at"`
}

// DeleteAttendanceResponse 学生撤销签到响应
type DeleteAttendanceResponse struct {
	Deleted bool `json:"deleted"`
}

// AttendanceStatsResponse 区间统计响应
type AttendanceStatsResponse struct {
	From             string             `json:"from"`
	To               string             `json:"to"`
	Total            int64              `json:"total"`
	DistinctStudents int64              `json:"distinct_students"`
	DistinctSessions int64              `json:"distinct_sessions"`
	ByLab            []LabCountItem     `json:"by_lab"`
	ByStudent        []StudentCountItem `json:"by_student"`
}

// LabCountItem 按实验室分组计数
type LabCountItem struct {
	LabID   string `json:"lab_id"`
	LabName string `json:"lab_name"`
	Count   int64  `json:"count"`
}

// StudentCountItem 按学生分组计数
type StudentCountItem struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Count    int64  `json:"count"`
}
