package dto

// RegisterRequest HTTP层注册请求
// 格式类规则(邮箱、长度)在此校验,密码强度与手机号格式由领域服务校验
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password    string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	FirstName   string `json:"first_name" binding:"required,max=50" example:"Ivan"`
	LastName    string `json:"last_name" binding:"max=50" example:"Franko"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,len=10,numeric" example:"0501234567"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}
