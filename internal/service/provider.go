// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"kernel_gate/internal/config"
	"kernel_gate/internal/dao/mysql"
	myredis "kernel_gate/internal/dao/redis"
	"kernel_gate/internal/gateway"
	"kernel_gate/internal/service/admission"
	"kernel_gate/internal/service/auth"
	"kernel_gate/internal/service/invite"
	"kernel_gate/internal/service/member"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，机器人调度器和 Handler 层通过它访问业务逻辑
// 不设包级全局实例，所有依赖在 main 中显式装配后传入
type Services struct {
	Admission AdmissionService // 审批状态机 Service
	Member    MemberService    // 成员生命周期 Service
	Auth      AuthService      // 管理端认证 Service
}

// Deps Service 层的外部依赖集合
type Deps struct {
	Repos *mysql.Repositories       // Repository 层聚合实例
	Cache myredis.AsyncCacheService // 缓存服务
	Gw    gateway.Gateway           // 消息平台网关
	Conf  *config.Config            // 应用配置
}

// NewServices 装配业务层
// 邀请签发器只被审批 Service 使用，在这里构造后内部注入，不对外暴露
func NewServices(deps Deps) *Services {
	tg := deps.Conf.TelegramConfig
	issuer := invite.NewInviteIssuer(deps.Gw, tg.InviteTTLHours)
	return &Services{
		Admission: admission.NewAdmissionService(deps.Repos, deps.Gw, issuer, deps.Cache,
			tg.GroupChatId, tg.AdminUserId, tg.InviteTTLHours),
		Member: member.NewMemberService(deps.Repos, deps.Cache, tg.GroupChatId),
		Auth:   auth.NewAuthService(&deps.Conf.AdminConfig),
	}
}
