// Package telegram 实现 Telegram Bot API 网关
// 本文件定义与 Bot API 交互所需的最小 JSON 结构
package telegram

// apiResponse Bot API 统一响应外壳
type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
	// Result 由各调用方按需二次解码
	Result jsonRaw `json:"result,omitempty"`
}

// jsonRaw 延迟解码的原始 JSON
type jsonRaw []byte

// UnmarshalJSON 保存原始字节
func (r *jsonRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// User Telegram 用户
type User struct {
	Id        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Chat Telegram 会话（私聊或群组）
type Chat struct {
	Id   int64  `json:"id"`
	Type string `json:"type"` // private / group / supergroup / channel
}

// Message 消息
type Message struct {
	MessageId int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery 内联按钮点击回调
type CallbackQuery struct {
	Id   string `json:"id"`
	From User   `json:"from"`
	Data string `json:"data,omitempty"`
}

// ChatInviteLink 邀请链接对象
type ChatInviteLink struct {
	InviteLink         string `json:"invite_link"`
	ExpireDate         int64  `json:"expire_date,omitempty"`
	MemberLimit        int    `json:"member_limit,omitempty"`
	CreatesJoinRequest bool   `json:"creates_join_request,omitempty"`
	IsRevoked          bool   `json:"is_revoked,omitempty"`
}

// ChatJoinRequest 挂起的入群请求
type ChatJoinRequest struct {
	Chat       Chat            `json:"chat"`
	From       User            `json:"from"`
	InviteLink *ChatInviteLink `json:"invite_link,omitempty"`
}

// ChatMemberUpdated 群成员状态变化
type ChatMemberUpdated struct {
	Chat          Chat       `json:"chat"`
	From          User       `json:"from"`
	NewChatMember ChatMember `json:"new_chat_member"`
}

// ChatMember 成员在群内的状态
type ChatMember struct {
	Status string `json:"status"` // member / left / kicked / banned 等
	User   User   `json:"user"`
}

// Update 一次 getUpdates 轮询返回的更新
// 四个负载字段至多一个非空
type Update struct {
	UpdateId        int64              `json:"update_id"`
	Message         *Message           `json:"message,omitempty"`
	CallbackQuery   *CallbackQuery     `json:"callback_query,omitempty"`
	ChatJoinRequest *ChatJoinRequest   `json:"chat_join_request,omitempty"`
	ChatMember      *ChatMemberUpdated `json:"chat_member,omitempty"`
}

// inlineKeyboardButton 内联按钮
type inlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// inlineKeyboardMarkup 内联键盘
type inlineKeyboardMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}
