// Package telegram 实现 Telegram Bot API 网关
// 本文件实现 gateway.Gateway 接口，通过 HTTPS JSON 调用 Bot API
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kernel_gate/internal/gateway"
	"kernel_gate/pkg/errorx"
)

// defaultAPIBaseURL Bot API 官方地址
const defaultAPIBaseURL = "https://api.telegram.org"

// Client Telegram Bot API 客户端
// 实现 gateway.Gateway 接口
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient 创建 Bot API 客户端
// baseURL 留空时使用官方地址
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			// 长轮询调用会通过 context 单独控制超时，这里只兜底
			Timeout: 90 * time.Second,
		},
	}
}

// call 调用一个 Bot API 方法
// params 序列化为 JSON 请求体；result 非 nil 时把响应的 result 字段解码进去
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: marshal params", method)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: build request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: http", method)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: read body", method)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: decode response", method)
	}
	if !apiResp.Ok {
		return errorx.Newf(errorx.CodeUpstreamFailure, "telegram %s: api error %d: %s",
			method, apiResp.ErrorCode, apiResp.Description)
	}

	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return errorx.Wrapf(err, errorx.CodeUpstreamFailure, "telegram %s: decode result", method)
		}
	}
	return nil
}

// SendMessage 发送文本消息，可附带内联按钮
func (c *Client) SendMessage(ctx context.Context, targetId int64, text string, actions []gateway.Action) error {
	params := map[string]any{
		"chat_id":                  targetId,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if len(actions) > 0 {
		row := make([]inlineKeyboardButton, 0, len(actions))
		for _, a := range actions {
			row = append(row, inlineKeyboardButton{Text: a.Text, CallbackData: a.Callback})
		}
		params["reply_markup"] = inlineKeyboardMarkup{InlineKeyboard: [][]inlineKeyboardButton{row}}
	}
	return c.call(ctx, "sendMessage", params, nil)
}

// CreateInviteLink 创建平台级邀请链接
func (c *Client) CreateInviteLink(ctx context.Context, chatId int64, constraints gateway.InviteConstraints) (string, error) {
	params := map[string]any{
		"chat_id":              chatId,
		"expire_date":          constraints.ExpireAt,
		"creates_join_request": constraints.CreatesJoinRequest,
	}
	// Bot API 限制：member_limit 与 creates_join_request 互斥，
	// 挂起审批的链接由本服务在入群校验时保证单次使用
	if !constraints.CreatesJoinRequest && constraints.MemberLimit > 0 {
		params["member_limit"] = constraints.MemberLimit
	}
	var link ChatInviteLink
	if err := c.call(ctx, "createChatInviteLink", params, &link); err != nil {
		return "", err
	}
	return link.InviteLink, nil
}

// RevokeInviteLink 吊销平台级邀请链接
func (c *Client) RevokeInviteLink(ctx context.Context, chatId int64, link string) error {
	return c.call(ctx, "revokeChatInviteLink", map[string]any{
		"chat_id":     chatId,
		"invite_link": link,
	}, nil)
}

// ApproveJoin 批准挂起的入群请求
func (c *Client) ApproveJoin(ctx context.Context, chatId, userId int64) error {
	return c.call(ctx, "approveChatJoinRequest", map[string]any{
		"chat_id": chatId,
		"user_id": userId,
	}, nil)
}

// DeclineJoin 拒绝挂起的入群请求
func (c *Client) DeclineJoin(ctx context.Context, chatId, userId int64) error {
	return c.call(ctx, "declineChatJoinRequest", map[string]any{
		"chat_id": chatId,
		"user_id": userId,
	}, nil)
}

// RemoveMember 将用户移出群组（封禁）
func (c *Client) RemoveMember(ctx context.Context, chatId, userId int64) error {
	return c.call(ctx, "banChatMember", map[string]any{
		"chat_id": chatId,
		"user_id": userId,
	}, nil)
}

// AnswerCallback 应答内联按钮点击
func (c *Client) AnswerCallback(ctx context.Context, callbackId, text string, alert bool) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackId,
		"text":              text,
		"show_alert":        alert,
	}, nil)
}

// getUpdates 长轮询拉取更新
// offset 为希望收到的最小 update_id；timeout 为服务端挂起秒数
func (c *Client) getUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", map[string]any{
		"offset":  offset,
		"timeout": timeout,
		"allowed_updates": []string{
			"message", "callback_query", "chat_join_request", "chat_member",
		},
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// 编译期断言：Client 必须完整实现网关接口
var _ gateway.Gateway = (*Client)(nil)
