// Package handler 提供 HTTP 请求处理器
// 本文件处理成员相关的管理端 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"kernel_gate/internal/service"
	"kernel_gate/pkg/errorx"
)

// MemberHandler 成员请求处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建成员处理器实例
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// GetMemberList 获取全部成员
// GET /admin/member/list
// 响应: []respond.MemberRespond
func (h *MemberHandler) GetMemberList(c *gin.Context) {
	data, err := h.memberSvc.GetMemberList()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMemberBio 按用户名查询成员简介
// GET /admin/member/bio/:username
// 响应: respond.MemberBioRespond
func (h *MemberHandler) GetMemberBio(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	data, err := h.memberSvc.LookupMemberBio(c.Request.Context(), username)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
