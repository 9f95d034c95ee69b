package dto

// ── 实验时段模块 DTO ──

// CreateLabSessionRequest 创建实验时段请求
type CreateLabSessionRequest struct {
	LabID       string `json:"lab_id"       binding:"required,uuid"`
	Name        string `json:"name"         binding:"required,min=2,max=100"`
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time"   binding:"required"` // "08:00"
	EndTime     string `json:"end_time"     binding:"required"` // "10:00"
	MaxStudents int    `json:"max_students" binding:"omitempty,min=0"`
}

// UpdateLabSessionRequest 更新实验时段请求
type UpdateLabSessionRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=2,max=100"`
	DayOfWeek   *int    `json:"day_of_week"  binding:"omitempty,min=1,max=7"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	MaxStudents *int    `json:"max_students" binding:"omitempty,min=0"`
}

// LabSessionListRequest 实验时段列表查询参数
type LabSessionListRequest struct {
	LabID     string `form:"lab_id"      binding:"omitempty,uuid"`
	DayOfWeek *int   `form:"day_of_week" binding:"omitempty,min=1,max=7"`
}

// LabSessionResponse 实验时段信息响应
type LabSessionResponse struct {
	ID          string    `json:"id"`
	LabID       string    `json:"lab_id"`
	Lab         *LabBrief `json:"lab,omitempty"`
	Name        string    `json:"name"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	MaxStudents int       `json:"max_students"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}
