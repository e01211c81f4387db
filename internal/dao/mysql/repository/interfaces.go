// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"kernel_gate/internal/model"
)

// MemberRepository 成员数据访问接口
type MemberRepository interface {
	// FindByTgUserId 根据 Telegram 用户 id 查找成员
	FindByTgUserId(tgUserId int64) (*model.Member, error)
	// FindByUsername 根据用户名查找成员
	FindByUsername(username string) (*model.Member, error)
	// FindAll 查找全部成员
	FindAll() ([]model.Member, error)
	// UpsertByTgUserId 按 Telegram 用户 id 插入或更新成员
	// 已存在时覆盖用户名和姓名字段，保留 bio；不存在时创建
	UpsertByTgUserId(tgUserId int64, username, firstName, lastName string) (*model.Member, error)
	// UpdateBio 更新成员简介
	UpdateBio(tgUserId int64, bio string) error
	// DeleteByTgUserId 按 Telegram 用户 id 删除成员
	// 成员不存在时为空操作，不报错
	DeleteByTgUserId(tgUserId int64) error
}

// ApplicationRepository 入群申请数据访问接口
type ApplicationRepository interface {
	// FindByUuid 根据申请 uuid 查找申请
	FindByUuid(uuid string) (*model.Application, error)
	// FindPendingByTgUserId 查找用户的待处理申请
	FindPendingByTgUserId(tgUserId int64) (*model.Application, error)
	// FindAll 查找全部申请
	FindAll() ([]model.Application, error)
	// Create 创建新申请
	Create(app *model.Application) error
	// Update 更新申请（全字段更新）
	Update(app *model.Application) error
	// DeleteByUuid 按 uuid 删除申请
	DeleteByUuid(uuid string) error
	// DeleteAllByTgUserId 删除指定用户的全部申请（无论状态）
	DeleteAllByTgUserId(tgUserId int64) error
}

// InviteRepository 邀请链接数据访问接口
// 邀请记录只增改不删，保留审计轨迹
type InviteRepository interface {
	// FindByLink 根据邀请链接字符串查找邀请
	FindByLink(link string) (*model.Invite, error)
	// FindAll 查找全部邀请
	FindAll() ([]model.Invite, error)
	// Create 创建新邀请
	Create(invite *model.Invite) error
	// Revoke 将邀请置为已吊销
	// 吊销标志是并发入群竞争的串行化点：置位是条件更新，
	// 只对未吊销的记录生效，竞争失败方收到 Conflict
	Revoke(uuid string) error
}
