package respond

// MemberRespond 成员信息
// 使用位置:
//   - internal/service/member: GetMemberList
type MemberRespond struct {
	Uuid      string `json:"uuid"`
	TgUserId  int64  `json:"tg_user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      int8   `json:"role"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
}
