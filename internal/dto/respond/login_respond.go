package respond

// LoginRespond 管理端登录响应
// 使用位置:
//   - internal/service/auth: Login
type LoginRespond struct {
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
