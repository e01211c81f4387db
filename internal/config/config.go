// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 管理端 HTTP 服务监听地址
	Port    int    `toml:"port"`    // 管理端 HTTP 服务监听端口
	Mode    string `toml:"mode"`    // 运行模式：dev / release
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// TelegramConfig Telegram 网关配置
// 入群审批的所有事件都来自这里配置的机器人与受管群组
type TelegramConfig struct {
	BotToken           string `toml:"botToken"`           // Bot API Token
	GroupChatId        int64  `toml:"groupChatId"`        // 受管群组的 chat id
	AdminUserId        int64  `toml:"adminUserId"`        // 审批管理员的用户 id
	InviteTTLHours     int    `toml:"inviteTTLHours"`     // 邀请链接有效期（小时），默认 24
	PollTimeoutSeconds int    `toml:"pollTimeoutSeconds"` // getUpdates 长轮询超时（秒）
	APIBaseURL         string `toml:"apiBaseURL"`         // Bot API 地址，留空使用官方地址
}

// AdminConfig 管理端登录配置
type AdminConfig struct {
	Username     string `toml:"username"`     // 管理端登录用户名
	PasswordHash string `toml:"passwordHash"` // bcrypt 哈希后的登录密码
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig     `toml:"mainConfig"`     // 主配置
	MysqlConfig    `toml:"mysqlConfig"`    // MySQL 配置
	RedisConfig    `toml:"redisConfig"`    // Redis 配置
	LogConfig      `toml:"logConfig"`      // 日志配置
	TelegramConfig `toml:"telegramConfig"` // Telegram 网关配置
	AdminConfig    `toml:"adminConfig"`    // 管理端登录配置
	JWTConfig      `toml:"jwtConfig"`      // JWT 配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	// 依次尝试加载配置文件
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil // 加载成功
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
	}
	return config
}
