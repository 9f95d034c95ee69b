package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（教师端）
type CreateUserRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=50"`
	StudentNo string `json:"student_no"`
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required,min=8,max=20"`
	Role      string `json:"role"       binding:"required,oneof=student teacher"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=50"`
	StudentNo *string `json:"student_no"`
	Email     *string `json:"email"      binding:"omitempty,email"`
	Role      *string `json:"role"       binding:"omitempty,oneof=student teacher"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=student teacher"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentNo string `json:"student_no,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
