package request

// SetBioRequest 设置个人简介请求
// 使用位置:
//   - service/member: SetBio
type SetBioRequest struct {
	TgUserId  int64  `json:"tg_user_id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio" binding:"required"`
}
