package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// Role 仅在开启 auth.allow_self_role 时生效
type RegisterRequest struct {
	FirstName    string  `json:"firstName"    binding:"required,max=100"`
	LastName     string  `json:"lastName"     binding:"required,max=100"`
	Email        string  `json:"email"        binding:"required,email,max=255"`
	Password     string  `json:"password"     binding:"required,min=6,max=72"`
	Role         string  `json:"role"         binding:"omitempty,role"`
	DepartmentID *string `json:"departmentId" binding:"omitempty,objectid"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // 秒
	User      UserResponse `json:"user"`
}
