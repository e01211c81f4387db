// Package router 提供 HTTP 路由注册
// 本文件定义管理端路由，全部需要 JWT 认证
package router

import (
	"github.com/gin-gonic/gin"

	"kernel_gate/internal/infrastructure/middleware"
)

// registerAdminRoutes 注册管理端路由
// 管理端与机器人审批按钮走同一个 Service，行为完全一致
func (rt *Router) registerAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuth())
	{
		// GET /admin/application/list - 查看全部入群申请
		adminGroup.GET("/application/list", rt.handlers.Application.GetApplicationList)
		// POST /admin/application/resolve - 审批入群申请
		adminGroup.POST("/application/resolve", rt.handlers.Application.ResolveApplication)

		// GET /admin/member/list - 查看全部成员
		adminGroup.GET("/member/list", rt.handlers.Member.GetMemberList)
		// GET /admin/member/bio/:username - 查询成员简介
		adminGroup.GET("/member/bio/:username", rt.handlers.Member.GetMemberBio)

		// GET /admin/invite/list - 审计全部邀请记录
		adminGroup.GET("/invite/list", rt.handlers.Invite.GetInviteList)
	}
}
