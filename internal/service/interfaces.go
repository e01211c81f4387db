// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供机器人调度器和管理端 Handler 调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/dto/respond"
)

// AdmissionService 入群审批状态机接口
// 覆盖申请创建、审批决定、入群请求校验三个阶段
type AdmissionService interface {
	// RequestApplication 处理入群申请
	// 申请人已是成员时不创建申请；已有待处理申请时幂等复用；
	// 创建或复用成功后通知管理员审批
	RequestApplication(ctx context.Context, req request.ApplyRequest) (*respond.ApplyRespond, error)
	// ResolveApplication 处理管理员的审批决定
	// deny 删除申请；approve 签发个人邀请并把申请置为已通过，
	// 两者在一个事务内提交；签发失败时申请保持待处理，错误可重试
	ResolveApplication(ctx context.Context, applicationUuid, decision string) error
	// ValidateJoinAttempt 校验入群请求
	// 安全关键路径：身份不符时拒绝入群并永久烧毁邀请链接
	ValidateJoinAttempt(ctx context.Context, req request.JoinAttemptRequest) error
	// GetApplicationList 获取全部申请（管理端）
	GetApplicationList() ([]respond.ApplicationRespond, error)
	// GetInviteList 获取全部邀请记录（管理端审计）
	GetInviteList() ([]respond.InviteRespond, error)
}

// MemberService 成员生命周期接口
// 处理成员的退出清理、简介读写和列表查询
type MemberService interface {
	// OnMemberDeparture 处理成员离开事件（退群/被踢/被封禁）
	// 非受管群组的事件忽略；删除不存在的成员是空操作，事件可重复投递
	OnMemberDeparture(ctx context.Context, tgUserId, chatId int64) error
	// SetBio 更新成员个人简介（不存在时先创建成员记录）
	SetBio(ctx context.Context, req request.SetBioRequest) error
	// LookupMemberBio 按用户名查询成员简介
	LookupMemberBio(ctx context.Context, username string) (*respond.MemberBioRespond, error)
	// GetMemberList 获取全部成员（管理端）
	GetMemberList() ([]respond.MemberRespond, error)
}

// AuthService 管理端认证接口
type AuthService interface {
	// Login 管理员登录，校验通过后签发 JWT
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 用 Refresh Token 换取新的 Access Token
	RefreshToken(refreshToken string) (string, error)
}
