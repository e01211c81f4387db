package respond

// ApplicationRespond 入群申请信息
// 使用位置:
//   - internal/service/admission: GetApplicationList
type ApplicationRespond struct {
	Uuid       string `json:"uuid"`
	TgUserId   int64  `json:"tg_user_id"`
	Status     int8   `json:"status"`
	InviteUuid string `json:"invite_uuid,omitempty"`
	CreatedAt  string `json:"created_at"`
}
