// Package repository 提供数据访问层的具体实现
// 本文件实现 MemberRepository 接口，处理社区成员相关的数据库操作
package repository

import (
	"kernel_gate/internal/model"
	"kernel_gate/pkg/enum/member/member_role_enum"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memberRepository MemberRepository 接口的实现
type memberRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewMemberRepository 创建 MemberRepository 实例
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// FindByTgUserId 按 Telegram 用户 id 查找成员
func (r *memberRepository) FindByTgUserId(tgUserId int64) (*model.Member, error) {
	var member model.Member
	if err := r.db.First(&member, "tg_user_id = ?", tgUserId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员 tg_user_id=%d", tgUserId)
	}
	return &member, nil
}

// FindByUsername 按用户名查找成员
func (r *memberRepository) FindByUsername(username string) (*model.Member, error) {
	var member model.Member
	if err := r.db.First(&member, "username = ?", username).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员 username=%s", username)
	}
	return &member, nil
}

// FindAll 查找全部成员
func (r *memberRepository) FindAll() ([]model.Member, error) {
	var members []model.Member
	if err := r.db.Find(&members).Error; err != nil {
		return nil, wrapDBError(err, "查询成员列表")
	}
	return members, nil
}

// UpsertByTgUserId 按 Telegram 用户 id 插入或更新成员
// 冲突解决规则：姓名、用户名以平台最新值为准，bio 保留本地值
func (r *memberRepository) UpsertByTgUserId(tgUserId int64, username, firstName, lastName string) (*model.Member, error) {
	var member model.Member
	err := r.db.First(&member, "tg_user_id = ?", tgUserId).Error
	if err == nil {
		member.Username = username
		member.FirstName = firstName
		member.LastName = lastName
		if err := r.db.Save(&member).Error; err != nil {
			return nil, wrapDBErrorf(err, "更新成员 tg_user_id=%d", tgUserId)
		}
		return &member, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, wrapDBErrorf(err, "查询成员 tg_user_id=%d", tgUserId)
	}

	member = model.Member{
		Uuid:      uuid.NewString(),
		TgUserId:  tgUserId,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Role:      member_role_enum.MEMBER,
	}
	if err := r.db.Create(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "创建成员 tg_user_id=%d", tgUserId)
	}
	return &member, nil
}

// UpdateBio 更新成员简介
func (r *memberRepository) UpdateBio(tgUserId int64, bio string) error {
	if err := r.db.Model(&model.Member{}).Where("tg_user_id = ?", tgUserId).Update("bio", bio).Error; err != nil {
		return wrapDBErrorf(err, "更新成员简介 tg_user_id=%d", tgUserId)
	}
	return nil
}

// DeleteByTgUserId 按 Telegram 用户 id 删除成员
// 删除不存在的成员是空操作，保证退群事件幂等
// 物理删除：tg_user_id 上有唯一索引，软删除残留会挡住同一用户再次入群
func (r *memberRepository) DeleteByTgUserId(tgUserId int64) error {
	if err := r.db.Unscoped().Where("tg_user_id = ?", tgUserId).Delete(&model.Member{}).Error; err != nil {
		return wrapDBErrorf(err, "删除成员 tg_user_id=%d", tgUserId)
	}
	return nil
}
