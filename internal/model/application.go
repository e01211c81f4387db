// Package model 定义数据库实体模型
// 本文件定义入群申请模型
package model

import (
	"gorm.io/gorm"
)

// Application 入群申请模型
// 对应数据库 application 表
// 同一用户在任意时刻至多存在一条待处理申请（由查询后创建保证，
// MySQL 不支持部分唯一索引，残余竞态作为已知限制接受）
type Application struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 申请记录唯一标识，回调按钮携带它定位申请
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:申请唯一id"`

	// TgUserId 申请人的 Telegram 用户 id
	TgUserId int64 `gorm:"column:tg_user_id;index;not null;comment:申请人Telegram用户id"`

	// Status 申请状态
	// 0=待处理 1=已通过
	// 被拒绝的申请直接删除，因此没有"已拒绝"状态
	Status int8 `gorm:"column:status;not null;comment:申请状态，0.待处理，1.已通过"`

	// InviteUuid 审批通过后签发的邀请记录 uuid
	// 审批通过前为空字符串
	InviteUuid string `gorm:"column:invite_uuid;type:char(36);default:'';comment:签发的邀请id"`
}

// TableName 指定表名
func (Application) TableName() string {
	return "application"
}
