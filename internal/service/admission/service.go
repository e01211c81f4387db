// Package admission 实现入群审批状态机
// 覆盖申请创建、管理员审批、入群请求校验三个阶段
// 每个入站事件的全部持久化操作包在一个事务里，网关通知在提交后发出
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kernel_gate/internal/dao/mysql"
	myredis "kernel_gate/internal/dao/redis"
	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/dto/respond"
	"kernel_gate/internal/gateway"
	"kernel_gate/internal/model"
	"kernel_gate/pkg/enum/application/application_status_enum"
	"kernel_gate/pkg/errorx"
)

// InviteIssuer 个人邀请签发接口（消费方声明）
// 先在平台创建邀请链接，再把本地记录写入调用方的事务；
// 平台调用失败时不落任何本地记录
type InviteIssuer interface {
	// IssuePersonalInvite 为指定用户签发一次性个人邀请
	IssuePersonalInvite(ctx context.Context, txRepos *mysql.Repositories, chatId, boundUserId int64, applicationUuid string) (*model.Invite, error)
}

// admissionService 审批状态机实现
// 通过构造函数注入 Repository、网关、签发器和缓存依赖
type admissionService struct {
	repos       *mysql.Repositories
	gw          gateway.Gateway
	issuer      InviteIssuer
	cache       myredis.AsyncCacheService
	groupChatId int64 // 受管群组
	adminUserId int64 // 审批管理员
	ttlHours    int   // 邀请有效期（小时），用于提示文案
}

// NewAdmissionService 构造函数，注入所有依赖
func NewAdmissionService(repos *mysql.Repositories, gw gateway.Gateway, issuer InviteIssuer,
	cache myredis.AsyncCacheService, groupChatId, adminUserId int64, ttlHours int) *admissionService {
	return &admissionService{
		repos:       repos,
		gw:          gw,
		issuer:      issuer,
		cache:       cache,
		groupChatId: groupChatId,
		adminUserId: adminUserId,
		ttlHours:    ttlHours,
	}
}

// RequestApplication 处理入群申请
// 重复申请是幂等操作：已有待处理申请时直接复用并再次通知管理员，不报错
func (s *admissionService) RequestApplication(ctx context.Context, req request.ApplyRequest) (*respond.ApplyRespond, error) {
	rsp := &respond.ApplyRespond{}

	err := s.repos.Transaction(func(tx *mysql.Repositories) error {
		// 前置条件：申请人不是成员
		if _, err := tx.Member.FindByTgUserId(req.TgUserId); err == nil {
			rsp.AlreadyMember = true
			return nil
		} else if !errorx.IsNotFound(err) {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}

		// 已有待处理申请：复用
		// 查询后创建存在竞态窗口，MySQL 不支持部分唯一索引，
		// 同一事件内的读写在一个事务中，跨事件的重复申请最终只会被管理员处理一次
		app, err := tx.Application.FindPendingByTgUserId(req.TgUserId)
		if err == nil {
			rsp.ApplicationUuid = app.Uuid
			return nil
		}
		if !errorx.IsNotFound(err) {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}

		app = &model.Application{
			Uuid:     uuid.NewString(),
			TgUserId: req.TgUserId,
			Status:   application_status_enum.PENDING,
		}
		if err := tx.Application.Create(app); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		rsp.ApplicationUuid = app.Uuid
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !rsp.AlreadyMember {
		// 提交后通知管理员，发送失败只记日志，申请已经落库
		s.notifyAdmin(ctx, req, rsp.ApplicationUuid)
	}
	return rsp, nil
}

// notifyAdmin 向管理员发送带审批按钮的通知
func (s *admissionService) notifyAdmin(ctx context.Context, req request.ApplyRequest, appUuid string) {
	name := req.FirstName
	if req.LastName != "" {
		name += " " + req.LastName
	}
	username := "—"
	if req.Username != "" {
		username = "@" + req.Username
	}
	text := fmt.Sprintf("新的入群申请\n申请人: %s\nusername: %s\nid: %d\n\n如何处理该申请？",
		name, username, req.TgUserId)

	actions := []gateway.Action{
		{Text: "✅ 通过", Callback: gateway.DecisionApprove + ":" + appUuid},
		{Text: "🗑 拒绝", Callback: gateway.DecisionDeny + ":" + appUuid},
	}
	if err := s.gw.SendMessage(ctx, s.adminUserId, text, actions); err != nil {
		zap.L().Error("notify admin failed", zap.String("application", appUuid), zap.Error(err))
	}
}

// ResolveApplication 处理管理员的审批决定
// deny: 删除申请，申请不存在返回 NotFound（调用方提示即可，非故障）
// approve: 签发邀请 + 置为已通过，一个事务内提交；签发失败时申请保持待处理
func (s *admissionService) ResolveApplication(ctx context.Context, applicationUuid, decision string) error {
	switch decision {
	case gateway.DecisionDeny:
		return s.denyApplication(applicationUuid)
	case gateway.DecisionApprove:
		return s.approveApplication(ctx, applicationUuid)
	default:
		return errorx.ErrInvalidParam
	}
}

// denyApplication 拒绝并删除申请
func (s *admissionService) denyApplication(applicationUuid string) error {
	return s.repos.Transaction(func(tx *mysql.Repositories) error {
		if _, err := tx.Application.FindByUuid(applicationUuid); err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Wrapf(err, errorx.CodeNotFound, "申请不存在或已处理")
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := tx.Application.DeleteByUuid(applicationUuid); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
}

// approveApplication 通过申请并签发个人邀请
func (s *admissionService) approveApplication(ctx context.Context, applicationUuid string) error {
	var inviteLink string
	var applicantId int64

	err := s.repos.Transaction(func(tx *mysql.Repositories) error {
		app, err := tx.Application.FindByUuid(applicationUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.Wrapf(err, errorx.CodeNotFound, "申请不存在或已处理")
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if app.Status != application_status_enum.PENDING {
			return errorx.New(errorx.CodeConflict, "申请已处理")
		}

		// 签发失败（UpstreamFailure）会让整个事务回滚，申请保持待处理，可重试
		inv, err := s.issuer.IssuePersonalInvite(ctx, tx, s.groupChatId, app.TgUserId, app.Uuid)
		if err != nil {
			return err
		}

		app.Status = application_status_enum.APPROVED
		app.InviteUuid = inv.Uuid
		if err := tx.Application.Update(app); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}

		inviteLink = inv.InviteLink
		applicantId = app.TgUserId
		return nil
	})
	if err != nil {
		return err
	}

	// 提交后把链接发给申请人，发送失败只记日志
	text := fmt.Sprintf("你的入群申请已通过。\n\n专属邀请链接（%d 小时内有效，一次性）：\n%s\n\n注意：点击后请发送「申请加入」，等待机器人放行。",
		s.ttlHours, inviteLink)
	if err := s.gw.SendMessage(ctx, applicantId, text, nil); err != nil {
		zap.L().Error("send invite link failed", zap.Int64("user", applicantId), zap.Error(err))
	}
	return nil
}

// ValidateJoinAttempt 校验入群请求，安全关键路径
// 同一事务内完成读取-吊销-落库，吊销标志是并发使用同一链接的串行化点：
// 置位是条件更新（仅未吊销记录生效），事务快照读不够，
// 两个并发请求至多一个能完成置位，另一个收到 Conflict 后按已失效处理
func (s *admissionService) ValidateJoinAttempt(ctx context.Context, req request.JoinAttemptRequest) error {
	// 未携带邀请链接，直接拒绝
	if req.InviteLink == "" {
		s.declineQuietly(ctx, req.ChatId, req.TgUserId)
		return nil
	}

	var (
		admitted bool          // 校验通过，入群放行
		burned   *model.Invite // 身份不符，链接被烧毁
		declined bool          // 链接无效/过期/吊销/群组不符
	)

	err := s.repos.Transaction(func(tx *mysql.Repositories) error {
		inv, err := tx.Invite.FindByLink(req.InviteLink)
		if err != nil {
			if errorx.IsNotFound(err) {
				declined = true
				return nil
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}

		// 过期检查只在校验时做，不做后台清扫；过期未吊销的记录是惰性的
		now := time.Now().Unix()
		if inv.IsRevoked || inv.ChatId != req.ChatId || now >= inv.ExpireAt {
			declined = true
			return nil
		}

		if req.TgUserId != inv.IntendedUserId {
			// 冒用：链接整体作废，合法持有者也无法再用
			// 这是刻意的保守策略，用可用性换安全
			if err := tx.Invite.Revoke(inv.Uuid); err != nil {
				// Conflict 说明并发事务已抢先吊销，本次按已失效拒绝
				if errorx.GetCode(err) == errorx.CodeConflict {
					declined = true
					return nil
				}
				zap.L().Error(err.Error())
				return errorx.ErrServerBusy
			}
			burned = inv
			return nil
		}

		// 正常路径：消费链接、落成员、清理申请，一并提交
		if err := tx.Invite.Revoke(inv.Uuid); err != nil {
			if errorx.GetCode(err) == errorx.CodeConflict {
				declined = true
				return nil
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if _, err := tx.Member.UpsertByTgUserId(req.TgUserId, req.Username, req.FirstName, req.LastName); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := tx.Application.DeleteAllByTgUserId(req.TgUserId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		admitted = true
		return nil
	})
	if err != nil {
		// 事务失败：本地状态未动，拒绝放行，链接仍可重试
		s.declineQuietly(ctx, req.ChatId, req.TgUserId)
		return err
	}

	switch {
	case declined:
		s.declineQuietly(ctx, req.ChatId, req.TgUserId)

	case burned != nil:
		// 冒用者：拒绝入群并移出群组；平台侧链接一并吊销
		s.declineQuietly(ctx, req.ChatId, req.TgUserId)
		if err := s.gw.RemoveMember(ctx, req.ChatId, req.TgUserId); err != nil {
			zap.L().Error("remove impostor failed", zap.Int64("user", req.TgUserId), zap.Error(err))
		}
		if err := s.gw.RevokeInviteLink(ctx, req.ChatId, burned.InviteLink); err != nil {
			zap.L().Error("revoke invite link failed", zap.Error(err))
		}
		zap.L().Warn("join attempt identity mismatch, invite burned",
			zap.Int64("attempting_user", req.TgUserId),
			zap.Int64("intended_user", burned.IntendedUserId),
			zap.String("invite", burned.Uuid))

	case admitted:
		// 本地状态已提交后才放行；放行失败时用户仍被挡在门外，可由管理员补救，
		// 绝不会出现链接未消费但人已入群的组合
		if err := s.gw.ApproveJoin(ctx, req.ChatId, req.TgUserId); err != nil {
			zap.L().Error("approve join failed", zap.Int64("user", req.TgUserId), zap.Error(err))
		}
		if err := s.gw.RevokeInviteLink(ctx, req.ChatId, req.InviteLink); err != nil {
			zap.L().Error("revoke invite link failed", zap.Error(err))
		}
		if err := s.gw.SendMessage(ctx, req.TgUserId, "欢迎加入！", nil); err != nil {
			zap.L().Error("send welcome failed", zap.Int64("user", req.TgUserId), zap.Error(err))
		}
		// 成员数据变了，异步失效相关缓存
		s.cache.SubmitTask(func() {
			if err := s.cache.Delete(context.Background(), "member_list"); err != nil {
				zap.L().Error(err.Error())
			}
			if req.Username != "" {
				if err := s.cache.DeleteByPattern(context.Background(), "member_bio_"+req.Username+"*"); err != nil {
					zap.L().Error(err.Error())
				}
			}
		})
	}
	return nil
}

// declineQuietly 拒绝入群请求，失败只记日志
func (s *admissionService) declineQuietly(ctx context.Context, chatId, userId int64) {
	if err := s.gw.DeclineJoin(ctx, chatId, userId); err != nil {
		zap.L().Error("decline join failed", zap.Int64("user", userId), zap.Error(err))
	}
}

// GetApplicationList 获取全部申请（管理端）
func (s *admissionService) GetApplicationList() ([]respond.ApplicationRespond, error) {
	apps, err := s.repos.Application.FindAll()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	// 使用 make 初始化 len=0，确保序列化后是 [] 而不是 null
	rsp := make([]respond.ApplicationRespond, 0, len(apps))
	for _, app := range apps {
		rsp = append(rsp, respond.ApplicationRespond{
			Uuid:       app.Uuid,
			TgUserId:   app.TgUserId,
			Status:     app.Status,
			InviteUuid: app.InviteUuid,
			CreatedAt:  app.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rsp, nil
}

// GetInviteList 获取全部邀请记录（管理端审计）
func (s *admissionService) GetInviteList() ([]respond.InviteRespond, error) {
	invites, err := s.repos.Invite.FindAll()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.InviteRespond, 0, len(invites))
	for _, inv := range invites {
		rsp = append(rsp, respond.InviteRespond{
			Uuid:           inv.Uuid,
			ChatId:         inv.ChatId,
			InviteLink:     inv.InviteLink,
			IntendedUserId: inv.IntendedUserId,
			ExpireAt:       inv.ExpireAt,
			IsRevoked:      inv.IsRevoked,
			CreatedAt:      inv.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rsp, nil
}
