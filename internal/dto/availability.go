package dto

// ── 可用性查询 DTO ──

// AvailabilityQueryRequest 按星期查询可用性参数
type AvailabilityQueryRequest struct {
	Day int `form:"day" binding:"required,min=1,max=7"`
}

// AvailabilityItem 今日某时段的容量状态
type AvailabilityItem struct {
	LabSessionID string `json:"lab_session_id"`
	SessionName  string `json:"session_name"`
	LabID        string `json:"lab_id"`
	LabName      string `json:"lab_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxStudents  int    `json:"max_students"`
	CurrentCount int64  `json:"current_count"`
	Available    bool   `json:"available"`
}

// AvailabilityResponse 今日可用性响应
type AvailabilityResponse struct {
	Date      string             `json:"date"`
	DayOfWeek int                `json:"day_of_week"`
	Sessions  []AvailabilityItem `json:"sessions"`
}
