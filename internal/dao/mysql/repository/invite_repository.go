// Package repository 提供数据访问层的具体实现
// 本文件实现 InviteRepository 接口，处理个人邀请链接相关的数据库操作
package repository

import (
	"kernel_gate/internal/model"
	"kernel_gate/pkg/errorx"

	"gorm.io/gorm"
)

// inviteRepository InviteRepository 接口的实现
type inviteRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewInviteRepository 创建 InviteRepository 实例
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

// FindByLink 按邀请链接字符串查找邀请
// 入群请求校验的入口查询，链接列上有唯一索引
func (r *inviteRepository) FindByLink(link string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.First(&invite, "invite_link = ?", link).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询邀请 link=%s", link)
	}
	return &invite, nil
}

// FindAll 查找全部邀请
func (r *inviteRepository) FindAll() ([]model.Invite, error) {
	var invites []model.Invite
	if err := r.db.Find(&invites).Error; err != nil {
		return nil, wrapDBError(err, "查询邀请列表")
	}
	return invites, nil
}

// Create 创建新邀请
func (r *inviteRepository) Create(invite *model.Invite) error {
	if err := r.db.Create(invite).Error; err != nil {
		return wrapDBError(err, "创建邀请记录")
	}
	return nil
}

// Revoke 将邀请置为已吊销
// 邀请记录不删除，只置位，保留审计轨迹
// 条件更新：只有未吊销的记录能完成置位，影响行数为 0 说明
// 另一个并发事务已经吊销，返回 Conflict 让调用方拒绝本次尝试
func (r *inviteRepository) Revoke(uuid string) error {
	res := r.db.Model(&model.Invite{}).
		Where("uuid = ? AND is_revoked = ?", uuid, false).
		Update("is_revoked", true)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "吊销邀请 uuid=%s", uuid)
	}
	if res.RowsAffected == 0 {
		return errorx.Newf(errorx.CodeConflict, "邀请已被吊销 uuid=%s", uuid)
	}
	return nil
}
