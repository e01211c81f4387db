// Package model 定义数据库实体模型
// 本文件定义成员模型，记录已通过审批并成功入群的用户
package model

import (
	"gorm.io/gorm"
)

// Member 社区成员模型
// 对应数据库 member 表
// 一条记录在用户通过入群校验时创建，在用户退群/被移出/被封禁时删除
type Member struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 成员记录唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:成员唯一id"`

	// TgUserId Telegram 用户 id，自然键
	// 入群、退群、设置简介等事件都以它定位成员
	TgUserId int64 `gorm:"column:tg_user_id;uniqueIndex;not null;comment:Telegram用户id"`

	// Username Telegram 用户名（可能为空，用户可以不设置）
	Username string `gorm:"column:username;type:varchar(32);comment:Telegram用户名"`

	// FirstName 名
	FirstName string `gorm:"column:first_name;type:varchar(64);comment:名"`

	// LastName 姓
	LastName string `gorm:"column:last_name;type:varchar(64);comment:姓"`

	// Role 角色，仅用于展示
	// 1=普通成员 2=管理员 3=创始人
	Role int8 `gorm:"column:role;default:1;not null;comment:角色，1.成员，2.管理员，3.创始人"`

	// Bio 个人简介，由 /setbio 命令设置
	Bio string `gorm:"column:bio;type:text;comment:个人简介"`
}

// TableName 指定表名
func (Member) TableName() string {
	return "member"
}
