package respond

// InviteRespond 邀请链接审计信息
// 使用位置:
//   - internal/service/admission: GetInviteList
type InviteRespond struct {
	Uuid           string `json:"uuid"`
	ChatId         int64  `json:"chat_id"`
	InviteLink     string `json:"invite_link"`
	IntendedUserId int64  `json:"intended_user_id"`
	ExpireAt       int64  `json:"expire_at"`
	IsRevoked      bool   `json:"is_revoked"`
	CreatedAt      string `json:"created_at"`
}
