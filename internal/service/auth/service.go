// Package auth 实现管理端认证
// 管理员账号来自配置文件：用户名 + bcrypt 哈希后的密码
package auth

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kernel_gate/internal/config"
	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/dto/respond"
	"kernel_gate/pkg/errorx"
	"kernel_gate/pkg/util/jwt"
)

// authService 认证实现
type authService struct {
	conf *config.AdminConfig
}

// NewAuthService 构造函数，注入管理端配置
func NewAuthService(conf *config.AdminConfig) *authService {
	return &authService{conf: conf}
}

// Login 管理员登录
// 用户名或密码错误时返回统一的错误消息，不提示具体哪项不对
func (a *authService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	if req.Username != a.conf.Username {
		return nil, errorx.New(errorx.CodeInvalidPassword, "用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.conf.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errorx.New(errorx.CodeInvalidPassword, "用户名或密码错误")
	}

	accessToken, err := jwt.GenerateAccessToken(req.Username)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, _, err := jwt.GenerateRefreshToken(req.Username)
	if err != nil {
		zap.L().Error("generate refresh token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.LoginRespond{
		Username:     req.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken 用 Refresh Token 换取新的 Access Token
func (a *authService) RefreshToken(refreshToken string) (string, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeUnauthorized, "Refresh Token 无效或已过期")
	}
	if claims.Subject != "refresh_token" {
		return "", errorx.New(errorx.CodeUnauthorized, "Token 类型错误")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return accessToken, nil
}
