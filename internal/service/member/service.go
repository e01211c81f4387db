// Package member 实现成员生命周期管理
// 处理成员离开清理、个人简介读写和列表查询
package member

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"kernel_gate/internal/dao/mysql"
	myredis "kernel_gate/internal/dao/redis"
	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/dto/respond"
	"kernel_gate/pkg/constants"
	"kernel_gate/pkg/errorx"
)

// memberService 成员生命周期实现
// 通过构造函数注入 Repository 和 Cache 依赖
type memberService struct {
	repos       *mysql.Repositories
	cache       myredis.AsyncCacheService
	groupChatId int64 // 受管群组
}

// NewMemberService 构造函数，注入所有依赖
func NewMemberService(repos *mysql.Repositories, cache myredis.AsyncCacheService, groupChatId int64) *memberService {
	return &memberService{
		repos:       repos,
		cache:       cache,
		groupChatId: groupChatId,
	}
}

// OnMemberDeparture 处理成员离开事件（退群/被踢/被封禁）
// 非受管群组的事件忽略；删除不存在的成员是空操作，重复投递安全
func (m *memberService) OnMemberDeparture(ctx context.Context, tgUserId, chatId int64) error {
	if chatId != m.groupChatId {
		return nil
	}

	var username string
	err := m.repos.Transaction(func(tx *mysql.Repositories) error {
		mem, err := tx.Member.FindByTgUserId(tgUserId)
		if err != nil {
			if errorx.IsNotFound(err) {
				// 幂等：成员已不存在，无事可做
				return nil
			}
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		username = mem.Username
		if err := tx.Member.DeleteByTgUserId(tgUserId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.invalidateCaches(username)
	return nil
}

// SetBio 更新成员个人简介
// 成员记录不存在时先创建（用户可能在入库前就设置简介）
func (m *memberService) SetBio(ctx context.Context, req request.SetBioRequest) error {
	// 按字符截断，不能把多字节字符劈成半个
	bio := req.Bio
	if runes := []rune(bio); len(runes) > constants.BIO_MAX_LEN {
		bio = string(runes[:constants.BIO_MAX_LEN])
	}

	err := m.repos.Transaction(func(tx *mysql.Repositories) error {
		if _, err := tx.Member.UpsertByTgUserId(req.TgUserId, req.Username, req.FirstName, req.LastName); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if err := tx.Member.UpdateBio(req.TgUserId, bio); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.invalidateCaches(req.Username)
	return nil
}

// LookupMemberBio 按用户名查询成员简介
func (m *memberService) LookupMemberBio(ctx context.Context, username string) (*respond.MemberBioRespond, error) {
	cacheKey := "member_bio_" + username

	// 1. 尝试从缓存获取 (Happy Path)
	rspString, err := m.cache.Get(ctx, cacheKey)
	if err == nil && rspString != "" {
		var rsp respond.MemberBioRespond
		if err := json.Unmarshal([]byte(rspString), &rsp); err == nil {
			return &rsp, nil
		}
		// 缓存数据脏了，打日志，继续查数据库
		zap.L().Error("Unmarshal member bio cache error", zap.Error(err))
	} else if err != nil {
		// Redis 连接错误等，记录日志但不中断业务
		zap.L().Error("Redis get error", zap.Error(err))
	}

	// 2. 缓存未命中或出错 -> 查询数据库
	mem, err := m.repos.Member.FindByUsername(username)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrapf(err, errorx.CodeNotFound, "成员 @%s 不存在", username)
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := &respond.MemberBioRespond{
		Username:  mem.Username,
		FirstName: mem.FirstName,
		LastName:  mem.LastName,
		Bio:       mem.Bio,
	}

	// 3. 回写缓存 (异步)
	m.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(rsp)
		if err != nil {
			zap.L().Error("Marshal member bio error", zap.Error(err))
			return
		}
		if err := m.cache.Set(context.Background(), cacheKey, string(rspBytes),
			time.Minute*constants.CACHE_TTL_MINUTES); err != nil {
			zap.L().Error("Set cache error", zap.Error(err))
		}
	})

	return rsp, nil
}

// GetMemberList 获取全部成员（管理端）
func (m *memberService) GetMemberList() ([]respond.MemberRespond, error) {
	cacheKey := "member_list"

	// 1. 尝试从缓存获取
	rspString, err := m.cache.Get(context.Background(), cacheKey)
	if err == nil && rspString != "" {
		var memberList []respond.MemberRespond
		if err := json.Unmarshal([]byte(rspString), &memberList); err == nil {
			return memberList, nil
		}
		zap.L().Error("Unmarshal member list cache error", zap.Error(err))
	} else if err != nil {
		zap.L().Error("Redis get error", zap.Error(err))
	}

	// 2. 查询数据库
	members, err := m.repos.Member.FindAll()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 使用 make 初始化 len=0，确保序列化后是 [] 而不是 null
	memberList := make([]respond.MemberRespond, 0, len(members))
	for _, mem := range members {
		memberList = append(memberList, respond.MemberRespond{
			Uuid:      mem.Uuid,
			TgUserId:  mem.TgUserId,
			Username:  mem.Username,
			FirstName: mem.FirstName,
			LastName:  mem.LastName,
			Role:      mem.Role,
			Bio:       mem.Bio,
			CreatedAt: mem.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	// 3. 回写缓存 (异步)
	m.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(memberList)
		if err != nil {
			zap.L().Error("Marshal member list error", zap.Error(err))
			return
		}
		if err := m.cache.Set(context.Background(), cacheKey, string(rspBytes),
			time.Minute*constants.CACHE_TTL_MINUTES); err != nil {
			zap.L().Error("Set cache error", zap.Error(err))
		}
	})

	return memberList, nil
}

// invalidateCaches 异步失效成员相关缓存
func (m *memberService) invalidateCaches(username string) {
	m.cache.SubmitTask(func() {
		if err := m.cache.Delete(context.Background(), "member_list"); err != nil {
			zap.L().Error(err.Error())
		}
		if username != "" {
			if err := m.cache.DeleteByPattern(context.Background(), "member_bio_"+username+"*"); err != nil {
				zap.L().Error(err.Error())
			}
		}
	})
}
