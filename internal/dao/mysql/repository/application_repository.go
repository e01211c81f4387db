// Package repository 提供数据访问层的具体实现
// 本文件实现 ApplicationRepository 接口，处理入群申请相关的数据库操作
package repository

import (
	"kernel_gate/internal/model"
	"kernel_gate/pkg/enum/application/application_status_enum"

	"gorm.io/gorm"
)

// applicationRepository ApplicationRepository 接口的实现
type applicationRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewApplicationRepository 创建 ApplicationRepository 实例
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByUuid 按申请 uuid 查找申请
// 用于回调按钮携带的申请 id 定位记录
func (r *applicationRepository) FindByUuid(uuid string) (*model.Application, error) {
	var app model.Application
	if err := r.db.First(&app, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询申请 uuid=%s", uuid)
	}
	return &app, nil
}

// FindPendingByTgUserId 查找用户的待处理申请
// 用于 /apply 的幂等判断：已有待处理申请则直接复用
func (r *applicationRepository) FindPendingByTgUserId(tgUserId int64) (*model.Application, error) {
	var app model.Application
	err := r.db.Where("tg_user_id = ? AND status = ?", tgUserId, application_status_enum.PENDING).
		First(&app).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 tg_user_id=%d", tgUserId)
	}
	return &app, nil
}

// FindAll 查找全部申请
func (r *applicationRepository) FindAll() ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.Find(&apps).Error; err != nil {
		return nil, wrapDBError(err, "查询申请列表")
	}
	return apps, nil
}

// Create 创建新申请
func (r *applicationRepository) Create(app *model.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return wrapDBError(err, "创建入群申请")
	}
	return nil
}

// Update 更新申请（全字段更新）
func (r *applicationRepository) Update(app *model.Application) error {
	if err := r.db.Save(app).Error; err != nil {
		return wrapDBError(err, "更新入群申请")
	}
	return nil
}

// DeleteByUuid 按 uuid 删除申请
func (r *applicationRepository) DeleteByUuid(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.Application{}).Error; err != nil {
		return wrapDBErrorf(err, "删除申请 uuid=%s", uuid)
	}
	return nil
}

// DeleteAllByTgUserId 删除指定用户的全部申请
// 用户成功入群后调用，无论申请状态如何一并清理
func (r *applicationRepository) DeleteAllByTgUserId(tgUserId int64) error {
	if err := r.db.Where("tg_user_id = ?", tgUserId).Delete(&model.Application{}).Error; err != nil {
		return wrapDBErrorf(err, "清理用户申请 tg_user_id=%d", tgUserId)
	}
	return nil
}
