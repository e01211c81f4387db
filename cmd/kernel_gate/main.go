package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"kernel_gate/internal/bot"
	"kernel_gate/internal/config"
	dao "kernel_gate/internal/dao/mysql"
	myredis "kernel_gate/internal/dao/redis"
	"kernel_gate/internal/gateway/telegram"
	"kernel_gate/internal/handler"
	"kernel_gate/internal/https_server"
	"kernel_gate/internal/infrastructure/logger"
	"kernel_gate/internal/service"
	"kernel_gate/pkg/util/jwt"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	cache := myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化 Telegram 网关
	tgClient := telegram.NewClient(conf.TelegramConfig.BotToken, conf.TelegramConfig.APIBaseURL)
	zap.L().Info("Telegram 网关初始化成功")

	// 7. 装配 Service 层（依赖注入）
	services := service.NewServices(service.Deps{
		Repos: repos,
		Cache: cache,
		Gw:    tgClient,
		Conf:  conf,
	})
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}

	// 9. 启动机器人轮询器
	dispatcher := bot.NewDispatcher(services, tgClient, conf.TelegramConfig.AdminUserId)
	poller := telegram.NewPoller(tgClient, dispatcher, conf.TelegramConfig.PollTimeoutSeconds)

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	go poller.Run(pollCtx)
	zap.L().Info("机器人轮询器已启动")

	// 10. 启动管理端 HTTP 服务器
	handlers := handler.NewHandlers(services)
	engine := https_server.Init(handlers)

	host := conf.MainConfig.Host
	port := conf.MainConfig.Port
	go func() {
		if err := engine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("管理端 HTTP 服务器已启动", zap.String("host", host), zap.Int("port", port))

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")

	// 停止轮询器，在途事件各自跑完自己的事务
	cancelPoll()

	zap.L().Info("服务器已关闭")
}
