// Package telegram 实现 Telegram Bot API 网关
// 本文件实现 getUpdates 长轮询循环，把平台更新翻译为网关事件
package telegram

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"kernel_gate/internal/gateway"
)

// Poller getUpdates 长轮询器
// 逐条拉取更新、翻译为 gateway.Event 并交给事件处理器，
// 每个事件在独立的 goroutine 中处理，互不阻塞
type Poller struct {
	client  *Client
	handler gateway.EventHandler
	timeout int   // 长轮询超时（秒）
	offset  int64 // 下一次期望的 update_id
}

// NewPoller 创建轮询器
func NewPoller(client *Client, handler gateway.EventHandler, timeoutSeconds int) *Poller {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeoutSeconds,
	}
}

// Run 启动轮询循环，直到 ctx 取消
// 拉取失败时退避重试，不中断服务
func (p *Poller) Run(ctx context.Context) {
	zap.L().Info("Telegram poller started", zap.Int("timeout", p.timeout))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Telegram poller stopped")
			return
		default:
		}

		updates, err := p.client.getUpdates(ctx, p.offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			zap.L().Error("getUpdates failed", zap.Error(err))
			// 退避，避免在平台故障时空转
			select {
			case <-ctx.Done():
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateId >= p.offset {
				p.offset = upd.UpdateId + 1
			}
			event := TranslateUpdate(upd)
			if event == nil {
				continue
			}
			// 每个事件独立处理，内部的持久化操作有事务保护
			go p.handler.HandleEvent(ctx, event)
		}
	}
}

// TranslateUpdate 把一条平台更新翻译为网关事件
// 无法识别或与本服务无关的更新返回 nil
func TranslateUpdate(upd Update) gateway.Event {
	switch {
	case upd.ChatJoinRequest != nil:
		req := upd.ChatJoinRequest
		link := ""
		if req.InviteLink != nil {
			link = req.InviteLink.InviteLink
		}
		return gateway.JoinAttempted{
			InviteLink: link,
			UserId:     req.From.Id,
			ChatId:     req.Chat.Id,
			Profile:    profileOf(req.From),
		}

	case upd.ChatMember != nil:
		cm := upd.ChatMember
		return gateway.MembershipChanged{
			UserId:    cm.NewChatMember.User.Id,
			ChatId:    cm.Chat.Id,
			NewStatus: cm.NewChatMember.Status,
		}

	case upd.CallbackQuery != nil:
		return translateCallback(*upd.CallbackQuery)

	case upd.Message != nil:
		return translateMessage(*upd.Message)
	}
	return nil
}

// translateCallback 解析审批按钮回调
// 回调数据格式："approve:<申请uuid>" 或 "deny:<申请uuid>"
func translateCallback(cb CallbackQuery) gateway.Event {
	decision, appUuid, ok := strings.Cut(cb.Data, ":")
	if !ok || (decision != gateway.DecisionApprove && decision != gateway.DecisionDeny) {
		return nil
	}
	return gateway.DecisionMade{
		CallbackId:      cb.Id,
		OperatorId:      cb.From.Id,
		ApplicationUuid: appUuid,
		Decision:        decision,
	}
}

// translateMessage 解析私聊命令
// 只处理私聊消息，群聊里的命令一律忽略
func translateMessage(msg Message) gateway.Event {
	if msg.Chat.Type != "private" || msg.From == nil {
		return nil
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	cmd, args, _ := strings.Cut(text, " ")
	// 去掉 /cmd@botname 形式的后缀
	cmd, _, _ = strings.Cut(cmd, "@")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/start", "/help":
		return gateway.StartRequested{UserId: msg.From.Id}
	case "/apply":
		return gateway.ApplyRequested{UserId: msg.From.Id, Profile: profileOf(*msg.From)}
	case "/setbio":
		return gateway.BioSet{UserId: msg.From.Id, Profile: profileOf(*msg.From), Bio: args}
	case "/look_bio":
		return gateway.BioLookup{UserId: msg.From.Id, Username: strings.TrimPrefix(args, "@")}
	default:
		return gateway.UnknownCommand{UserId: msg.From.Id}
	}
}

// profileOf 提取用户资料快照
func profileOf(u User) gateway.UserProfile {
	return gateway.UserProfile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
