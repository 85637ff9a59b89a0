package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"seller@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Nickname string `json:"nickname" binding:"required" example:"seller"`
}

// LoginRequest 登录请求，next为登录后要跳转的地址
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"seller@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Next     string `json:"next" example:"/api/v1/books"`
}

// UpdateProfileRequest 修改个人简介
type UpdateProfileRequest struct {
	Biodata string `json:"biodata" example:"I sell science fiction."`
}
