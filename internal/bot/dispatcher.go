// Package bot 实现机器人事件调度器
// 把网关事件分发到对应的 Service，并负责面向用户的文案组织
package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/gateway"
	"kernel_gate/internal/service"
	"kernel_gate/pkg/enum/membership/membership_status_enum"
	"kernel_gate/pkg/errorx"
)

// startText /start 和 /help 的回复文案
const startText = `你好，我是入群管理机器人。

可用命令：
/apply - 申请加入群组
/setbio <文本> - 设置个人简介
/look_bio <用户名> - 查询成员简介`

// Dispatcher 事件调度器，实现 gateway.EventHandler
// 无包级状态，所有依赖由构造函数注入
type Dispatcher struct {
	svc         *service.Services
	gw          gateway.Gateway
	adminUserId int64 // 审批管理员，只有他的按钮点击会被受理
}

// NewDispatcher 构造函数，注入业务层、网关和管理员 id
func NewDispatcher(svc *service.Services, gw gateway.Gateway, adminUserId int64) *Dispatcher {
	return &Dispatcher{
		svc:         svc,
		gw:          gw,
		adminUserId: adminUserId,
	}
}

var _ gateway.EventHandler = (*Dispatcher)(nil)

// HandleEvent 按事件类型分发
// 每个事件由轮询器在独立 goroutine 中投递，这里不再另起并发
func (d *Dispatcher) HandleEvent(ctx context.Context, event gateway.Event) {
	switch ev := event.(type) {
	case gateway.StartRequested:
		d.onStart(ctx, ev)
	case gateway.ApplyRequested:
		d.onApply(ctx, ev)
	case gateway.DecisionMade:
		d.onDecision(ctx, ev)
	case gateway.JoinAttempted:
		d.onJoinAttempt(ctx, ev)
	case gateway.MembershipChanged:
		d.onMembershipChanged(ctx, ev)
	case gateway.BioSet:
		d.onBioSet(ctx, ev)
	case gateway.BioLookup:
		d.onBioLookup(ctx, ev)
	case gateway.UnknownCommand:
		d.reply(ctx, ev.UserId, "无法识别的命令，发送 /help 查看可用命令。")
	default:
		zap.L().Warn("unhandled gateway event", zap.Any("event", event))
	}
}

func (d *Dispatcher) onStart(ctx context.Context, ev gateway.StartRequested) {
	d.reply(ctx, ev.UserId, startText)
}

func (d *Dispatcher) onApply(ctx context.Context, ev gateway.ApplyRequested) {
	rsp, err := d.svc.Admission.RequestApplication(ctx, request.ApplyRequest{
		TgUserId:  ev.UserId,
		Username:  ev.Profile.Username,
		FirstName: ev.Profile.FirstName,
		LastName:  ev.Profile.LastName,
	})
	if err != nil {
		zap.L().Error("request application failed", zap.Int64("user", ev.UserId), zap.Error(err))
		d.reply(ctx, ev.UserId, "服务暂时不可用，请稍后重试。")
		return
	}
	if rsp.AlreadyMember {
		d.reply(ctx, ev.UserId, "你已经是群组成员，无需重复申请。")
		return
	}
	d.reply(ctx, ev.UserId, "申请已创建，等待管理员审批。审批结果会通过本机器人通知你。")
}

// onDecision 处理审批按钮点击
// 非管理员的点击只应答不受理；申请已被处理时用弹窗提示
func (d *Dispatcher) onDecision(ctx context.Context, ev gateway.DecisionMade) {
	if ev.OperatorId != d.adminUserId {
		d.answer(ctx, ev.CallbackId, "没有审批权限", true)
		return
	}

	err := d.svc.Admission.ResolveApplication(ctx, ev.ApplicationUuid, ev.Decision)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound || errorx.GetCode(err) == errorx.CodeConflict {
			d.answer(ctx, ev.CallbackId, "申请不存在或已处理", true)
			return
		}
		zap.L().Error("resolve application failed",
			zap.String("application", ev.ApplicationUuid),
			zap.String("decision", ev.Decision),
			zap.Error(err))
		d.answer(ctx, ev.CallbackId, "处理失败，请重试", true)
		return
	}

	if ev.Decision == gateway.DecisionApprove {
		d.answer(ctx, ev.CallbackId, "已通过，邀请链接已发送给申请人", false)
	} else {
		d.answer(ctx, ev.CallbackId, "已拒绝", false)
	}
}

func (d *Dispatcher) onJoinAttempt(ctx context.Context, ev gateway.JoinAttempted) {
	err := d.svc.Admission.ValidateJoinAttempt(ctx, request.JoinAttemptRequest{
		InviteLink: ev.InviteLink,
		TgUserId:   ev.UserId,
		ChatId:     ev.ChatId,
		Username:   ev.Profile.Username,
		FirstName:  ev.Profile.FirstName,
		LastName:   ev.Profile.LastName,
	})
	if err != nil {
		zap.L().Error("validate join attempt failed",
			zap.Int64("user", ev.UserId),
			zap.Int64("chat", ev.ChatId),
			zap.Error(err))
	}
}

func (d *Dispatcher) onMembershipChanged(ctx context.Context, ev gateway.MembershipChanged) {
	// 只关心离开类状态，其余状态变化不影响成员档案
	if !membership_status_enum.IsDeparture(ev.NewStatus) {
		return
	}
	if err := d.svc.Member.OnMemberDeparture(ctx, ev.UserId, ev.ChatId); err != nil {
		zap.L().Error("member departure cleanup failed",
			zap.Int64("user", ev.UserId),
			zap.Int64("chat", ev.ChatId),
			zap.Error(err))
	}
}

func (d *Dispatcher) onBioSet(ctx context.Context, ev gateway.BioSet) {
	if strings.TrimSpace(ev.Bio) == "" {
		d.reply(ctx, ev.UserId, "用法：/setbio <文本>")
		return
	}
	err := d.svc.Member.SetBio(ctx, request.SetBioRequest{
		TgUserId:  ev.UserId,
		Username:  ev.Profile.Username,
		FirstName: ev.Profile.FirstName,
		LastName:  ev.Profile.LastName,
		Bio:       ev.Bio,
	})
	if err != nil {
		zap.L().Error("set bio failed", zap.Int64("user", ev.UserId), zap.Error(err))
		d.reply(ctx, ev.UserId, "服务暂时不可用，请稍后重试。")
		return
	}
	d.reply(ctx, ev.UserId, "描述已保存。")
}

func (d *Dispatcher) onBioLookup(ctx context.Context, ev gateway.BioLookup) {
	if ev.Username == "" {
		d.reply(ctx, ev.UserId, "用法：/look_bio <用户名>")
		return
	}
	bio, err := d.svc.Member.LookupMemberBio(ctx, ev.Username)
	if err != nil {
		if errorx.IsNotFound(err) {
			d.reply(ctx, ev.UserId, fmt.Sprintf("成员 @%s 不存在。", ev.Username))
			return
		}
		zap.L().Error("lookup bio failed", zap.String("username", ev.Username), zap.Error(err))
		d.reply(ctx, ev.UserId, "服务暂时不可用，请稍后重试。")
		return
	}

	name := bio.FirstName
	if bio.LastName != "" {
		name += " " + bio.LastName
	}
	text := fmt.Sprintf("@%s（%s）的简介：", bio.Username, name)
	if bio.Bio == "" {
		text += "\n（未设置）"
	} else {
		text += "\n" + bio.Bio
	}
	d.reply(ctx, ev.UserId, text)
}

// reply 发送文本回复，失败只记日志
func (d *Dispatcher) reply(ctx context.Context, userId int64, text string) {
	if err := d.gw.SendMessage(ctx, userId, text, nil); err != nil {
		zap.L().Error("send reply failed", zap.Int64("user", userId), zap.Error(err))
	}
}

// answer 应答按钮点击，失败只记日志
func (d *Dispatcher) answer(ctx context.Context, callbackId, text string, alert bool) {
	if err := d.gw.AnswerCallback(ctx, callbackId, text, alert); err != nil {
		zap.L().Error("answer callback failed", zap.Error(err))
	}
}
