package dto

// ── 实验室模块 DTO ──

// CreateLabRequest 创建实验室请求
type CreateLabRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Location    string `json:"location"    binding:"omitempty,max=200"`
	Capacity    int    `json:"capacity"    binding:"omitempty,min=0"`
	Subject     string `json:"subject"     binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateLabRequest 更新实验室请求
type UpdateLabRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=0"`
	Subject     *string `json:"subject"     binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// LabListRequest 实验室列表查询参数
type LabListRequest struct {
	Subject string `form:"subject"`
}

// LabResponse 实验室信息响应
type LabResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Capacity    int    `json:"capacity"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// LabBrief 实验室简要信息（嵌入其他响应）
type LabBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
