// Package gateway 定义消息平台网关的抽象接口
// 核心业务层只依赖本包的接口与事件类型，不感知具体平台协议，
// 便于在测试中用假网关替换真实的 Telegram 客户端
package gateway

import (
	"context"
)

// Action 消息附带的可点击动作（内联按钮）
type Action struct {
	Text     string // 按钮文案
	Callback string // 回调数据，如 "approve:<申请uuid>"
}

// InviteConstraints 创建平台邀请链接时的约束
type InviteConstraints struct {
	ExpireAt           int64 // 过期时间（unix 秒）
	MemberLimit        int   // 最大使用人数
	CreatesJoinRequest bool  // 入群挂起为 join request，等待机器人审批
}

// Gateway 出站网关接口
// 除 CreateInviteLink 的返回值需要持久化外，其余调用均为发后即忘：
// 失败只记日志，不回滚本地状态
type Gateway interface {
	// SendMessage 向用户或群组发送文本消息，可附带内联按钮
	SendMessage(ctx context.Context, targetId int64, text string, actions []Action) error
	// CreateInviteLink 创建平台级邀请链接，返回链接字符串
	CreateInviteLink(ctx context.Context, chatId int64, constraints InviteConstraints) (string, error)
	// RevokeInviteLink 吊销平台级邀请链接
	RevokeInviteLink(ctx context.Context, chatId int64, link string) error
	// ApproveJoin 批准挂起的入群请求
	ApproveJoin(ctx context.Context, chatId, userId int64) error
	// DeclineJoin 拒绝挂起的入群请求
	DeclineJoin(ctx context.Context, chatId, userId int64) error
	// RemoveMember 将用户移出群组（封禁）
	RemoveMember(ctx context.Context, chatId, userId int64) error
	// AnswerCallback 响应内联按钮点击，消除客户端的加载状态
	AnswerCallback(ctx context.Context, callbackId, text string, alert bool) error
}
