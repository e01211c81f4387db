package gateway

import "context"

// 审批决定取值，也是审批按钮回调数据的前缀
const (
	DecisionApprove = "approve" // 通过申请并签发邀请
	DecisionDeny    = "deny"    // 拒绝并删除申请
)

// UserProfile 事件中携带的用户资料快照
type UserProfile struct {
	Username  string // 平台用户名，可能为空
	FirstName string // 名
	LastName  string // 姓
}

// Event 入站网关事件的标签联合类型
// 轮询器把平台更新翻译为下列事件之一，再交给调度器分发，
// 核心状态机由此与具体传输协议解耦
type Event interface {
	isEvent()
}

// StartRequested 用户在私聊中发送 /start
type StartRequested struct {
	UserId int64
}

// ApplyRequested 用户在私聊中发送 /apply 申请入群
type ApplyRequested struct {
	UserId  int64
	Profile UserProfile
}

// DecisionMade 管理员点击了审批按钮
type DecisionMade struct {
	CallbackId      string // 回调标识，用于应答按钮点击
	OperatorId      int64  // 点击者的用户 id
	ApplicationUuid string // 按钮携带的申请 uuid
	Decision        string // approve 或 deny
}

// JoinAttempted 有人凭邀请链接请求入群
type JoinAttempted struct {
	InviteLink string // 使用的邀请链接，未携带链接时为空字符串
	UserId     int64
	ChatId     int64
	Profile    UserProfile
}

// MembershipChanged 群成员状态发生变化（退群/被踢/被封禁等）
type MembershipChanged struct {
	UserId    int64
	ChatId    int64
	NewStatus string
}

// BioSet 用户发送 /setbio 设置个人简介
type BioSet struct {
	UserId  int64
	Profile UserProfile
	Bio     string // 命令参数原文，可能为空
}

// BioLookup 用户发送 /look_bio 查询成员简介
type BioLookup struct {
	UserId   int64
	Username string // 查询目标用户名，可能为空
}

// UnknownCommand 无法识别的命令
type UnknownCommand struct {
	UserId int64
}

func (StartRequested) isEvent()    {}
func (ApplyRequested) isEvent()    {}
func (DecisionMade) isEvent()      {}
func (JoinAttempted) isEvent()     {}
func (MembershipChanged) isEvent() {}
func (BioSet) isEvent()            {}
func (BioLookup) isEvent()         {}
func (UnknownCommand) isEvent()    {}

// EventHandler 事件处理器接口，由调度器实现
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event)
}
