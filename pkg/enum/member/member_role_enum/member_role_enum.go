// Package member_role_enum 定义社区成员角色枚举
// 角色仅用于展示，本服务不做权限控制
package member_role_enum

const (
	MEMBER int8 = 1 // 普通成员
	ADMIN  int8 = 2 // 管理员
	GOD    int8 = 3 // 创始人
)
