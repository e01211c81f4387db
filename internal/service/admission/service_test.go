package admission

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kernel_gate/internal/dao/mysql"
	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/gateway"
	"kernel_gate/internal/model"
	"kernel_gate/internal/service/invite"
	"kernel_gate/pkg/enum/application/application_status_enum"
	"kernel_gate/pkg/errorx"
)

const (
	testGroupChatId = int64(-1001)
	testAdminId     = int64(9999)
	testApplicantId = int64(1001)
)

// newTestRepos 基于 sqlite 内存库构造 Repository 聚合
func newTestRepos(t *testing.T) *mysql.Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&model.Member{}, &model.Application{}, &model.Invite{}); err != nil {
		t.Fatal(err)
	}
	return mysql.NewRepositories(db)
}

// fakeGateway 记录所有出站调用的假网关
type fakeGateway struct {
	mu            sync.Mutex
	sentTo        []int64
	sentTexts     []string
	sentActions   [][]gateway.Action
	nextLink      string
	createLinkErr error
	createdLinks  int
	revokedLinks  []string
	approvedJoins []int64
	declinedJoins []int64
	removedUsers  []int64
	answered      []string
}

func (f *fakeGateway) SendMessage(ctx context.Context, targetId int64, text string, actions []gateway.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentTo = append(f.sentTo, targetId)
	f.sentTexts = append(f.sentTexts, text)
	f.sentActions = append(f.sentActions, actions)
	return nil
}

func (f *fakeGateway) CreateInviteLink(ctx context.Context, chatId int64, constraints gateway.InviteConstraints) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createLinkErr != nil {
		return "", f.createLinkErr
	}
	f.createdLinks++
	if f.nextLink == "" {
		return fmt.Sprintf("https://t.me/+link%d", f.createdLinks), nil
	}
	return f.nextLink, nil
}

func (f *fakeGateway) RevokeInviteLink(ctx context.Context, chatId int64, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokedLinks = append(f.revokedLinks, link)
	return nil
}

func (f *fakeGateway) ApproveJoin(ctx context.Context, chatId, userId int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvedJoins = append(f.approvedJoins, userId)
	return nil
}

func (f *fakeGateway) DeclineJoin(ctx context.Context, chatId, userId int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declinedJoins = append(f.declinedJoins, userId)
	return nil
}

func (f *fakeGateway) RemoveMember(ctx context.Context, chatId, userId int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedUsers = append(f.removedUsers, userId)
	return nil
}

func (f *fakeGateway) AnswerCallback(ctx context.Context, callbackId, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackId)
	return nil
}

// syncCache 同步执行任务的假缓存，测试里不需要真实 Redis
type syncCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newSyncCache() *syncCache {
	return &syncCache{data: make(map[string]string)}
}

func (c *syncCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *syncCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *syncCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *syncCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]string)
	return nil
}

func (c *syncCache) SubmitTask(action func()) { action() }

func newTestService(t *testing.T) (*admissionService, *mysql.Repositories, *fakeGateway) {
	t.Helper()
	repos := newTestRepos(t)
	gw := &fakeGateway{}
	issuer := invite.NewInviteIssuer(gw, 24)
	svc := NewAdmissionService(repos, gw, issuer, newSyncCache(), testGroupChatId, testAdminId, 24)
	return svc, repos, gw
}

func applyReq() request.ApplyRequest {
	return request.ApplyRequest{
		TgUserId:  testApplicantId,
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestRequestApplicationCreatesPending(t *testing.T) {
	svc, repos, gw := newTestService(t)

	rsp, err := svc.RequestApplication(context.Background(), applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if rsp.AlreadyMember {
		t.Fatal("expected new application, got AlreadyMember")
	}
	if rsp.ApplicationUuid == "" {
		t.Fatal("expected application uuid")
	}

	app, err := repos.Application.FindByUuid(rsp.ApplicationUuid)
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != application_status_enum.PENDING {
		t.Fatalf("expected PENDING, got %d", app.Status)
	}

	// 管理员收到带审批按钮的通知
	if len(gw.sentTo) != 1 || gw.sentTo[0] != testAdminId {
		t.Fatalf("expected one notify to admin, got %v", gw.sentTo)
	}
	if len(gw.sentActions[0]) != 2 {
		t.Fatalf("expected 2 decision buttons, got %d", len(gw.sentActions[0]))
	}
}

func TestRequestApplicationIdempotent(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if first.ApplicationUuid != second.ApplicationUuid {
		t.Fatalf("expected reused application, got %s and %s", first.ApplicationUuid, second.ApplicationUuid)
	}

	apps, err := repos.Application.FindAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
}

func TestRequestApplicationAlreadyMember(t *testing.T) {
	svc, repos, gw := newTestService(t)

	if _, err := repos.Member.UpsertByTgUserId(testApplicantId, "alice", "Alice", ""); err != nil {
		t.Fatal(err)
	}

	rsp, err := svc.RequestApplication(context.Background(), applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if !rsp.AlreadyMember {
		t.Fatal("expected AlreadyMember")
	}
	if len(gw.sentTo) != 0 {
		t.Fatalf("member should not trigger admin notify, got %v", gw.sentTo)
	}
}

func TestApproveIssuesInviteAndSendsLink(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionApprove); err != nil {
		t.Fatal(err)
	}

	app, err := repos.Application.FindByUuid(rsp.ApplicationUuid)
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != application_status_enum.APPROVED {
		t.Fatalf("expected APPROVED, got %d", app.Status)
	}
	if app.InviteUuid == "" {
		t.Fatal("expected invite uuid on application")
	}

	invites, err := repos.Invite.FindAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(invites) != 1 {
		t.Fatalf("expected 1 invite, got %d", len(invites))
	}
	inv := invites[0]
	if inv.IntendedUserId != testApplicantId {
		t.Fatalf("invite bound to wrong user: %d", inv.IntendedUserId)
	}
	if inv.IsRevoked {
		t.Fatal("new invite must not be revoked")
	}
	if !inv.CreatesJoinRequest {
		t.Fatal("invite must require join request confirmation")
	}
	if inv.ExpireAt <= time.Now().Unix() {
		t.Fatal("invite must expire in the future")
	}

	// 第一条是管理员通知，第二条是发给申请人的链接
	if len(gw.sentTo) != 2 || gw.sentTo[1] != testApplicantId {
		t.Fatalf("expected invite link sent to applicant, got %v", gw.sentTo)
	}
}

func TestApproveFailureKeepsApplicationPending(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}

	gw.createLinkErr = fmt.Errorf("upstream down")
	err = svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionApprove)
	if err == nil {
		t.Fatal("expected error when link creation fails")
	}
	if !errorx.IsUpstreamFailure(err) {
		t.Fatalf("expected upstream failure, got %v", err)
	}

	// 整个审批事务回滚，申请保持待处理，可以重试
	app, err := repos.Application.FindByUuid(rsp.ApplicationUuid)
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != application_status_enum.PENDING {
		t.Fatalf("expected PENDING after rollback, got %d", app.Status)
	}
	invites, _ := repos.Invite.FindAll()
	if len(invites) != 0 {
		t.Fatalf("expected no invite rows, got %d", len(invites))
	}

	// 上游恢复后重试成功
	gw.createLinkErr = nil
	if err := svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionApprove); err != nil {
		t.Fatal(err)
	}
}

func TestDenyDeletesApplication(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionDeny); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Application.FindByUuid(rsp.ApplicationUuid); !errorx.IsNotFound(err) {
		t.Fatalf("expected application deleted, got %v", err)
	}

	// 重复拒绝返回 NotFound，调用方据此提示即可
	err = svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionDeny)
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("expected NotFound on double deny, got %v", err)
	}
}

func TestResolveApplicationRejectsUnknownDecision(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.ResolveApplication(context.Background(), "whatever", "maybe")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("expected InvalidParam, got %v", err)
	}
}

// approveFor 走完申请和审批，返回签发的邀请链接
func approveFor(t *testing.T, svc *admissionService, repos *mysql.Repositories) string {
	t.Helper()
	ctx := context.Background()
	rsp, err := svc.RequestApplication(ctx, applyReq())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveApplication(ctx, rsp.ApplicationUuid, gateway.DecisionApprove); err != nil {
		t.Fatal(err)
	}
	invites, err := repos.Invite.FindAll()
	if err != nil {
		t.Fatal(err)
	}
	return invites[len(invites)-1].InviteLink
}

func joinReq(link string, userId int64) request.JoinAttemptRequest {
	return request.JoinAttemptRequest{
		InviteLink: link,
		TgUserId:   userId,
		ChatId:     testGroupChatId,
		Username:   "alice",
		FirstName:  "Alice",
		LastName:   "Liddell",
	}
}

func TestJoinHappyPath(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()
	link := approveFor(t, svc, repos)

	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}

	// 入群已放行
	if len(gw.approvedJoins) != 1 || gw.approvedJoins[0] != testApplicantId {
		t.Fatalf("expected join approved, got %v", gw.approvedJoins)
	}
	// 链接本地与平台侧都已吊销
	invites, _ := repos.Invite.FindAll()
	if !invites[0].IsRevoked {
		t.Fatal("invite must be revoked after consumption")
	}
	if len(gw.revokedLinks) != 1 || gw.revokedLinks[0] != link {
		t.Fatalf("expected platform link revoked, got %v", gw.revokedLinks)
	}
	// 成员已落库，申请已清空
	mem, err := repos.Member.FindByTgUserId(testApplicantId)
	if err != nil {
		t.Fatal(err)
	}
	if mem.Username != "alice" {
		t.Fatalf("unexpected member username %s", mem.Username)
	}
	apps, _ := repos.Application.FindAll()
	if len(apps) != 0 {
		t.Fatalf("expected applications cleaned up, got %d", len(apps))
	}
}

func TestJoinConsumedLinkRejected(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()
	link := approveFor(t, svc, repos)

	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	// 同一链接再来一次，已吊销，只能被拒
	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.declinedJoins) != 1 {
		t.Fatalf("expected 1 decline, got %v", gw.declinedJoins)
	}
	if len(gw.approvedJoins) != 1 {
		t.Fatalf("expected exactly 1 approve, got %v", gw.approvedJoins)
	}
}

func TestJoinIdentityMismatchBurnsInvite(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()
	link := approveFor(t, svc, repos)

	impostor := int64(6666)
	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, impostor)); err != nil {
		t.Fatal(err)
	}

	// 冒用者被拒并移出群组
	if len(gw.declinedJoins) != 1 || gw.declinedJoins[0] != impostor {
		t.Fatalf("expected impostor declined, got %v", gw.declinedJoins)
	}
	if len(gw.removedUsers) != 1 || gw.removedUsers[0] != impostor {
		t.Fatalf("expected impostor removed, got %v", gw.removedUsers)
	}
	// 链接整体作废
	invites, _ := repos.Invite.FindAll()
	if !invites[0].IsRevoked {
		t.Fatal("invite must be burned after identity mismatch")
	}
	if len(gw.revokedLinks) != 1 {
		t.Fatalf("expected platform link revoked, got %v", gw.revokedLinks)
	}
	// 冒用者没有成为成员
	if _, err := repos.Member.FindByTgUserId(impostor); !errorx.IsNotFound(err) {
		t.Fatalf("impostor must not be materialized, got %v", err)
	}

	// 合法持有者随后也进不来，只能重新走申请流程
	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.approvedJoins) != 0 {
		t.Fatalf("legitimate holder must also be locked out, got %v", gw.approvedJoins)
	}
}

func TestJoinExpiredLinkRejected(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()

	// 直接落一条已过期的邀请
	link := "https://t.me/+expired"
	err := repos.Invite.Create(&model.Invite{
		Uuid:               "inv-expired",
		ChatId:             testGroupChatId,
		InviteLink:         link,
		IntendedUserId:     testApplicantId,
		ExpireAt:           time.Now().Add(-time.Hour).Unix(),
		MemberLimit:        1,
		CreatesJoinRequest: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.declinedJoins) != 1 {
		t.Fatalf("expected expired link declined, got %v", gw.declinedJoins)
	}
	if len(gw.approvedJoins) != 0 {
		t.Fatalf("expired link must not admit, got %v", gw.approvedJoins)
	}
}

func TestInviteRevokeSingleShot(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Invite.Create(&model.Invite{
		Uuid:               "inv-1",
		ChatId:             testGroupChatId,
		InviteLink:         "https://t.me/+once",
		IntendedUserId:     testApplicantId,
		ExpireAt:           time.Now().Add(time.Hour).Unix(),
		MemberLimit:        1,
		CreatesJoinRequest: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := repos.Invite.Revoke("inv-1"); err != nil {
		t.Fatal(err)
	}
	// 置位是串行化点：竞争失败方必须拿到 Conflict，而不是静默成功
	err = repos.Invite.Revoke("inv-1")
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("expected Conflict on second revoke, got %v", err)
	}
}

func TestJoinLostRevokeRaceDeclined(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()
	link := approveFor(t, svc, repos)

	// 模拟并发事务抢先完成吊销：快照读之后、置位之前链接已失效
	invites, _ := repos.Invite.FindAll()
	if err := repos.Invite.Revoke(invites[0].Uuid); err != nil {
		t.Fatal(err)
	}

	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.approvedJoins) != 0 {
		t.Fatalf("race loser must not be admitted, got %v", gw.approvedJoins)
	}
	if len(gw.declinedJoins) != 1 {
		t.Fatalf("expected decline, got %v", gw.declinedJoins)
	}
	// 竞争失败的尝试不产生成员记录
	if _, err := repos.Member.FindByTgUserId(testApplicantId); !errorx.IsNotFound(err) {
		t.Fatalf("no member may be materialized, got %v", err)
	}
}

func TestJoinUnknownOrMissingLinkRejected(t *testing.T) {
	svc, _, gw := newTestService(t)
	ctx := context.Background()

	// 未携带链接
	if err := svc.ValidateJoinAttempt(ctx, joinReq("", testApplicantId)); err != nil {
		t.Fatal(err)
	}
	// 未知链接
	if err := svc.ValidateJoinAttempt(ctx, joinReq("https://t.me/+unknown", testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.declinedJoins) != 2 {
		t.Fatalf("expected 2 declines, got %v", gw.declinedJoins)
	}
}

func TestJoinWrongChatRejected(t *testing.T) {
	svc, repos, gw := newTestService(t)
	ctx := context.Background()
	link := approveFor(t, svc, repos)

	req := joinReq(link, testApplicantId)
	req.ChatId = testGroupChatId - 1
	if err := svc.ValidateJoinAttempt(ctx, req); err != nil {
		t.Fatal(err)
	}
	if len(gw.declinedJoins) != 1 {
		t.Fatalf("expected decline for foreign chat, got %v", gw.declinedJoins)
	}
	// 链接没有被消费，受管群组里仍然可用
	if err := svc.ValidateJoinAttempt(ctx, joinReq(link, testApplicantId)); err != nil {
		t.Fatal(err)
	}
	if len(gw.approvedJoins) != 1 {
		t.Fatalf("expected join approved in governed chat, got %v", gw.approvedJoins)
	}
}
