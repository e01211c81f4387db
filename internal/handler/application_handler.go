// Package handler 提供 HTTP 请求处理器
// 本文件处理入群申请相关的管理端 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/service"
)

// ApplicationHandler 申请审批处理器
// 管理端通过这里查看申请列表并做出审批决定，与机器人按钮走同一个 Service
type ApplicationHandler struct {
	admissionSvc service.AdmissionService
}

// NewApplicationHandler 创建申请审批处理器实例
func NewApplicationHandler(admissionSvc service.AdmissionService) *ApplicationHandler {
	return &ApplicationHandler{admissionSvc: admissionSvc}
}

// GetApplicationList 获取全部入群申请
// GET /admin/application/list
// 响应: []respond.ApplicationRespond
func (h *ApplicationHandler) GetApplicationList(c *gin.Context) {
	data, err := h.admissionSvc.GetApplicationList()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ResolveApplication 审批入群申请
// POST /admin/application/resolve
// 请求体: request.ResolveApplicationRequest
func (h *ApplicationHandler) ResolveApplication(c *gin.Context) {
	var req request.ResolveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.admissionSvc.ResolveApplication(c.Request.Context(), req.ApplicationUuid, req.Decision); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
