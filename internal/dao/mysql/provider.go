// Package mysql 提供 Repository 层聚合与构造
package mysql

import (
	"gorm.io/gorm"

	"kernel_gate/internal/dao/mysql/repository"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB                         // GORM 数据库实例
	Member      repository.MemberRepository      // 成员 Repository
	Application repository.ApplicationRepository // 入群申请 Repository
	Invite      repository.InviteRepository      // 邀请 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Member:      repository.NewMemberRepository(db),
		Application: repository.NewApplicationRepository(db),
		Invite:      repository.NewInviteRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 一个入站事件的全部持久化操作包在同一个事务里，要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
