// Package handler 提供 HTTP 请求处理器
// 本文件处理邀请记录相关的管理端 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"kernel_gate/internal/service"
)

// InviteHandler 邀请记录处理器
// 邀请记录只读，用于管理端审计已签发链接的去向
type InviteHandler struct {
	admissionSvc service.AdmissionService
}

// NewInviteHandler 创建邀请记录处理器实例
func NewInviteHandler(admissionSvc service.AdmissionService) *InviteHandler {
	return &InviteHandler{admissionSvc: admissionSvc}
}

// GetInviteList 获取全部邀请记录
// GET /admin/invite/list
// 响应: []respond.InviteRespond
func (h *InviteHandler) GetInviteList(c *gin.Context) {
	data, err := h.admissionSvc.GetInviteList()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
