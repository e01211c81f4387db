package constants

const (
	INVITE_TTL_HOURS_DEFAULT   = 24   // 邀请链接默认有效期（小时）
	INVITE_MEMBER_LIMIT        = 1    // 邀请链接最大使用次数，恒为 1（一人一链）
	BIO_MAX_LEN                = 4000 // 个人简介最大长度
	CACHE_TTL_MINUTES          = 30   // 成员信息缓存有效期（分钟）
	POLL_TIMEOUT_SECONDS       = 30   // Telegram 长轮询超时（秒）
	REFRESH_TOKEN_EXPIRY_HOURS = 168  // Refresh Token 有效期（小时），168小时 = 7天
)
