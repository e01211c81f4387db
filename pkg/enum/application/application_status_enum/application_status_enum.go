// Package application_status_enum 定义入群申请状态枚举
package application_status_enum

const (
	PENDING  int8 = 0 // 待处理，等待管理员决定
	APPROVED int8 = 1 // 已通过，已签发个人邀请链接
)
