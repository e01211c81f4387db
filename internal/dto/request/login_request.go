package request

// LoginRequest 管理端登录请求
// 使用位置:
//   - handler/auth_handler.go: LoginHandler
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
