package member

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kernel_gate/internal/dao/mysql"
	"kernel_gate/internal/dto/request"
	"kernel_gate/internal/model"
	"kernel_gate/pkg/constants"
	"kernel_gate/pkg/errorx"
)

const (
	testGroupChatId = int64(-1001)
	testUserId      = int64(2002)
)

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

// syncCache 同步执行任务的假缓存
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
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *syncCache) SubmitTask(action func()) { action() }

func newTestService(t *testing.T) (*memberService, *mysql.Repositories, *syncCache) {
	t.Helper()
	repos := newTestRepos(t)
	cache := newSyncCache()
	return NewMemberService(repos, cache, testGroupChatId), repos, cache
}

func TestOnMemberDepartureRemovesMember(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob", "Bob", ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.OnMemberDeparture(ctx, testUserId, testGroupChatId); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Member.FindByTgUserId(testUserId); !errorx.IsNotFound(err) {
		t.Fatalf("expected member removed, got %v", err)
	}

	// 事件重复投递是空操作
	if err := svc.OnMemberDeparture(ctx, testUserId, testGroupChatId); err != nil {
		t.Fatal(err)
	}
}

func TestOnMemberDepartureIgnoresForeignChat(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob", "Bob", ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.OnMemberDeparture(ctx, testUserId, testGroupChatId-1); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Member.FindByTgUserId(testUserId); err != nil {
		t.Fatalf("member must survive foreign chat event, got %v", err)
	}
}

func TestMemberCanRejoinAfterDeparture(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob", "Bob", ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.OnMemberDeparture(ctx, testUserId, testGroupChatId); err != nil {
		t.Fatal(err)
	}
	// 离开后同一用户可以重新落库，唯一索引不得被历史记录占用
	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob", "Bob", ""); err != nil {
		t.Fatalf("rejoin must succeed, got %v", err)
	}
}

func TestSetBioCreatesMemberAndTruncates(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	longBio := strings.Repeat("a", constants.BIO_MAX_LEN+100)
	err := svc.SetBio(ctx, request.SetBioRequest{
		TgUserId:  testUserId,
		Username:  "bob",
		FirstName: "Bob",
		Bio:       longBio,
	})
	if err != nil {
		t.Fatal(err)
	}

	mem, err := repos.Member.FindByTgUserId(testUserId)
	if err != nil {
		t.Fatal(err)
	}
	if len(mem.Bio) != constants.BIO_MAX_LEN {
		t.Fatalf("expected bio truncated to %d, got %d", constants.BIO_MAX_LEN, len(mem.Bio))
	}
}

func TestSetBioTruncatesOnRuneBoundary(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	// 按字符数截断，多字节字符不得被劈开
	longBio := strings.Repeat("简", constants.BIO_MAX_LEN+100)
	err := svc.SetBio(ctx, request.SetBioRequest{
		TgUserId: testUserId,
		Username: "bob",
		Bio:      longBio,
	})
	if err != nil {
		t.Fatal(err)
	}

	mem, err := repos.Member.FindByTgUserId(testUserId)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(mem.Bio) {
		t.Fatal("truncated bio must stay valid UTF-8")
	}
	if got := utf8.RuneCountInString(mem.Bio); got != constants.BIO_MAX_LEN {
		t.Fatalf("expected %d runes, got %d", constants.BIO_MAX_LEN, got)
	}
}

func TestSetBioPreservedOnRejoinUpsert(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	err := svc.SetBio(ctx, request.SetBioRequest{
		TgUserId: testUserId,
		Username: "bob",
		Bio:      "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	// 资料更新不覆盖 bio
	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob2", "Bobby", ""); err != nil {
		t.Fatal(err)
	}
	mem, err := repos.Member.FindByTgUserId(testUserId)
	if err != nil {
		t.Fatal(err)
	}
	if mem.Bio != "hello" {
		t.Fatalf("bio must survive upsert, got %q", mem.Bio)
	}
	if mem.Username != "bob2" {
		t.Fatalf("username must follow latest profile, got %q", mem.Username)
	}
}

func TestLookupMemberBio(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	if err := svc.SetBio(ctx, request.SetBioRequest{
		TgUserId:  testUserId,
		Username:  "bob",
		FirstName: "Bob",
		Bio:       "gopher",
	}); err != nil {
		t.Fatal(err)
	}

	rsp, err := svc.LookupMemberBio(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Bio != "gopher" {
		t.Fatalf("expected bio gopher, got %q", rsp.Bio)
	}
	// 查询结果已回写缓存
	if cached, _ := cache.Get(ctx, "member_bio_bob"); cached == "" {
		t.Fatal("expected bio cached after lookup")
	}

	// 未知用户名返回 NotFound
	if _, err := svc.LookupMemberBio(ctx, "nobody"); !errorx.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetMemberListUsesCacheInvalidation(t *testing.T) {
	svc, repos, cache := newTestService(t)
	ctx := context.Background()

	if _, err := repos.Member.UpsertByTgUserId(testUserId, "bob", "Bob", ""); err != nil {
		t.Fatal(err)
	}
	list, err := svc.GetMemberList()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 member, got %d", len(list))
	}
	if cached, _ := cache.Get(ctx, "member_list"); cached == "" {
		t.Fatal("expected member list cached")
	}

	// 成员离开后列表缓存被失效
	if err := svc.OnMemberDeparture(ctx, testUserId, testGroupChatId); err != nil {
		t.Fatal(err)
	}
	if cached, _ := cache.Get(ctx, "member_list"); cached != "" {
		t.Fatal("expected member list cache invalidated after departure")
	}
}
