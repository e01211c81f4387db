// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// registerAuthRoutes 注册认证相关路由
// 登录和刷新不需要携带 Token
func (rt *Router) registerAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		// POST /auth/login - 管理员登录
		authGroup.POST("/login", rt.handlers.Auth.Login)
		// POST /auth/refresh - 使用 Refresh Token 换取新的 Access Token
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
