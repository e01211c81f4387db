package request

// JoinAttemptRequest 入群请求校验参数
// 使用位置:
//   - service/admission: ValidateJoinAttempt
type JoinAttemptRequest struct {
	InviteLink string `json:"invite_link"` // 未携带链接时为空字符串
	TgUserId   int64  `json:"tg_user_id" binding:"required"`
	ChatId     int64  `json:"chat_id" binding:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}
