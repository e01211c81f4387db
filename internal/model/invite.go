// Package model 定义数据库实体模型
// 本文件定义个人邀请链接模型
package model

import (
	"gorm.io/gorm"
)

// Invite 个人邀请链接模型
// 对应数据库 invite 表
// 一条邀请绑定一个用户、一个群组，一次性使用，到期失效
// 记录永不删除，消费或吊销后仅置位 is_revoked，保留审计轨迹
type Invite struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 邀请记录唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:邀请唯一id"`

	// ChatId 目标群组的 chat id
	ChatId int64 `gorm:"column:chat_id;index;not null;comment:目标群组id"`

	// InviteLink 平台返回的邀请链接，入群请求按它反查邀请记录
	InviteLink string `gorm:"column:invite_link;uniqueIndex;type:varchar(256);not null;comment:邀请链接"`

	// IntendedUserId 邀请绑定的 Telegram 用户 id
	// 只有该用户可以凭此链接入群
	IntendedUserId int64 `gorm:"column:intended_user_id;index;not null;comment:绑定的Telegram用户id"`

	// ExpireAt 过期时间（unix 秒）
	// 过期仅在校验入群请求时检查，不做后台清扫；过期未吊销的记录是惰性的
	ExpireAt int64 `gorm:"column:expire_at;not null;comment:过期时间(unix秒)"`

	// MemberLimit 链接最大使用人数，恒为 1
	MemberLimit int `gorm:"column:member_limit;default:1;not null;comment:最大使用人数"`

	// CreatesJoinRequest 入群需要审批确认
	// 恒为 true：平台将入群挂起为 join request，本服务才有机会在入群前校验身份
	CreatesJoinRequest bool `gorm:"column:creates_join_request;default:true;not null;comment:入群需确认"`

	// IsRevoked 吊销标志
	// 消费（无论成功与否）或被吊销后置位，之后该链接永久失效
	IsRevoked bool `gorm:"column:is_revoked;default:false;not null;comment:是否已吊销"`

	// ApplicationUuid 产生本邀请的申请 uuid（反向引用，非所有权）
	ApplicationUuid string `gorm:"column:application_uuid;type:char(36);default:'';comment:来源申请id"`
}

// TableName 指定表名
func (Invite) TableName() string {
	return "invite"
}
