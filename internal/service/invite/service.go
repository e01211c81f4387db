// Package invite 提供个人邀请链接的签发逻辑
package invite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kernel_gate/internal/dao/mysql"
	"kernel_gate/internal/gateway"
	"kernel_gate/internal/model"
	"kernel_gate/pkg/constants"
	"kernel_gate/pkg/errorx"
)

// issuerService 邀请签发实现
// 通过构造函数注入网关依赖
type issuerService struct {
	gw  gateway.Gateway
	ttl time.Duration // 邀请链接有效期
}

// NewInviteIssuer 构造函数，注入网关和有效期
func NewInviteIssuer(gw gateway.Gateway, ttlHours int) *issuerService {
	if ttlHours <= 0 {
		ttlHours = constants.INVITE_TTL_HOURS_DEFAULT
	}
	return &issuerService{
		gw:  gw,
		ttl: time.Duration(ttlHours) * time.Hour,
	}
}

// IssuePersonalInvite 为指定用户签发一次性个人邀请
// 流程：
//  1. 调用平台创建邀请链接（限一人使用、入群需审批确认）
//  2. 把本地邀请记录写入调用方的事务
//
// 平台调用失败时直接返回可重试错误，不落任何本地记录；
// 本地写入失败时事务回滚，平台链接残留但无人可凭它入群（校验查不到记录）
func (s *issuerService) IssuePersonalInvite(ctx context.Context, txRepos *mysql.Repositories, chatId, boundUserId int64, applicationUuid string) (*model.Invite, error) {
	expireAt := time.Now().Add(s.ttl).Unix()

	// 入群必须挂起为 join request，校验环节才有机会在入群前拦截冒用
	link, err := s.gw.CreateInviteLink(ctx, chatId, gateway.InviteConstraints{
		ExpireAt:           expireAt,
		MemberLimit:        constants.INVITE_MEMBER_LIMIT,
		CreatesJoinRequest: true,
	})
	if err != nil {
		zap.L().Error("create invite link failed",
			zap.Int64("chat_id", chatId),
			zap.Int64("bound_user_id", boundUserId),
			zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodeUpstreamFailure, "创建邀请链接失败，请稍后重试")
	}

	inv := &model.Invite{
		Uuid:               uuid.NewString(),
		ChatId:             chatId,
		InviteLink:         link,
		IntendedUserId:     boundUserId,
		ExpireAt:           expireAt,
		MemberLimit:        constants.INVITE_MEMBER_LIMIT,
		CreatesJoinRequest: true,
		IsRevoked:          false,
		ApplicationUuid:    applicationUuid,
	}
	if err := txRepos.Invite.Create(inv); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return inv, nil
}
