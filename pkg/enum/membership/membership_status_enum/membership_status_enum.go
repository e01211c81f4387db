// Package membership_status_enum 定义成员在群内的状态字符串
// 取值与 Telegram chat_member 更新中的 status 字段保持一致
package membership_status_enum

const (
	MEMBER = "member" // 在群内
	LEFT   = "left"   // 主动退群
	KICKED = "kicked" // 被移出
	BANNED = "banned" // 被封禁
)

// IsDeparture 判断状态是否属于离开类事件（退群/被踢/被封禁）
func IsDeparture(status string) bool {
	return status == LEFT || status == KICKED || status == BANNED
}
