package request

// ApplyRequest 入群申请请求
// 使用位置:
//   - service/admission: RequestApplication
type ApplyRequest struct {
	TgUserId  int64  `json:"tg_user_id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
