package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/proximashare/pkg/configs"
	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/storage/blob"
	"github.com/yeisme/proximashare/pkg/internal/storage/db"
)

// testClock 可拨动的时钟.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testEnv 每个测试独立的服务实例与依赖.
type testEnv struct {
	svc      *FileService
	blob     *blob.LocalStore
	clock    *testClock
	policies configs.UploadConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.User{}, &model.FileRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local blob store: %v", err)
	}

	env := &testEnv{
		blob:  store,
		clock: &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		policies: configs.UploadConfig{
			Public: configs.TierPolicy{MaxSizeBytes: 64, ExpiryDays: 7, MaxDownloads: 3},
			User:   configs.TierPolicy{MaxSizeBytes: 256, ExpiryDays: 30, MaxDownloads: 100},
		},
	}

	svc := NewFileServiceWithDeps(&db.Client{DB: gdb}, store, nil)
	svc.now = env.clock.Now
	svc.policies = func() configs.UploadConfig { return env.policies }
	env.svc = svc

	return env
}

func (e *testEnv) upload(t *testing.T, name, content string, owner *model.User) string {
	t.Helper()

	resp, err := e.svc.Upload(context.Background(), UploadInput{
		FileName: name,
		Size:     int64(len(content)),
		MimeType: "application/octet-stream",
		Reader:   strings.NewReader(content),
	}, owner)
	if err != nil {
		t.Fatalf("upload %q: %v", name, err)
	}

	return resp.ID
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()

	u, err := e.svc.ResolveUser(context.Background(), name)
	if err != nil {
		t.Fatalf("resolve user %q: %v", name, err)
	}

	return u
}

// TestUploadAllocatesFreshID 测试 ID 冲突时重试生成.
func TestUploadAllocatesFreshID(t *testing.T) {
	env := newTestEnv(t)

	first := env.upload(t, "a.txt", "aaa", nil)

	// 强制前两次生成都撞上已有 ID
	attempts := 0
	env.svc.newID = func() string {
		attempts++
		if attempts <= 2 {
			return first
		}

		return "fresh-id-0001"
	}

	second := env.upload(t, "b.txt", "bbb", nil)
	if second != "fresh-id-0001" {
		t.Errorf("Expected retried id fresh-id-0001, got %s", second)
	}

	if attempts != 3 {
		t.Errorf("Expected 3 generation attempts, got %d", attempts)
	}
}

// TestUploadAllocationExhausted 测试生成器始终碰撞时返回 ErrAllocationExhausted.
func TestUploadAllocationExhausted(t *testing.T) {
	env := newTestEnv(t)

	first := env.upload(t, "a.txt", "aaa", nil)
	env.svc.newID = func() string { return first }

	_, err := env.svc.Upload(context.Background(), UploadInput{
		FileName: "b.txt",
		Size:     3,
		Reader:   strings.NewReader("bbb"),
	}, nil)
	if !errors.Is(err, ErrAllocationExhausted) {
		t.Errorf("Expected ErrAllocationExhausted, got %v", err)
	}
}

// TestUploadSizeBoundary 测试恰好等于上限可以上传，超过一字节被拒绝.
func TestUploadSizeBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	atLimit := strings.Repeat("x", 64)
	if _, err := env.svc.Upload(ctx, UploadInput{
		FileName: "at-limit.bin",
		Size:     int64(len(atLimit)),
		Reader:   strings.NewReader(atLimit),
	}, nil); err != nil {
		t.Errorf("Upload at exact limit should succeed, got %v", err)
	}

	overLimit := atLimit + "y"

	_, err := env.svc.Upload(ctx, UploadInput{
		FileName: "over-limit.bin",
		Size:     int64(len(overLimit)),
		Reader:   strings.NewReader(overLimit),
	}, nil)

	var sizeErr *SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("Expected SizeLimitError, got %v", err)
	}

	if sizeErr.Limit != 64 {
		t.Errorf("Expected limit 64 in error, got %d", sizeErr.Limit)
	}
}

// TestUploadExpiryFromPolicy 测试过期时间等于上传时间加策略天数.
func TestUploadExpiryFromPolicy(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Upload(context.Background(), UploadInput{
		FileName: "a.txt",
		Size:     3,
		Reader:   strings.NewReader("aaa"),
	}, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	wantExpiry := resp.UploadedAt.AddDate(0, 0, 7)
	if !resp.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("Expected expiry %v, got %v", wantExpiry, resp.ExpiresAt)
	}

	// 用户级别走 30 天
	owner := env.user(t, "alice")

	resp, err = env.svc.Upload(context.Background(), UploadInput{
		FileName: "b.txt",
		Size:     3,
		Reader:   strings.NewReader("bbb"),
	}, owner)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	wantExpiry = resp.UploadedAt.AddDate(0, 0, 30)
	if !resp.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("Expected user expiry %v, got %v", wantExpiry, resp.ExpiresAt)
	}
}

// TestUploadBlankFileName 测试空白文件名落库为 unknown.
func TestUploadBlankFileName(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"", "   "} {
		resp, err := env.svc.Upload(context.Background(), UploadInput{
			FileName: name,
			Size:     1,
			Reader:   strings.NewReader("x"),
		}, nil)
		if err != nil {
			t.Fatalf("upload with name %q: %v", name, err)
		}

		if resp.FileName != "unknown" {
			t.Errorf("Expected file name unknown for %q, got %s", name, resp.FileName)
		}
	}
}

// TestDownloadAccounting 测试下载计数递增与上限，第 4 次失败且错误信息包含上限值.
func TestDownloadAccounting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.upload(t, "doc.pdf", "content", nil)

	for want := 1; want <= 3; want++ {
		res, err := env.svc.Download(ctx, id)
		if err != nil {
			t.Fatalf("download %d: %v", want, err)
		}

		body, _ := io.ReadAll(res.Content)
		res.Content.Close()

		if string(body) != "content" {
			t.Errorf("download %d: unexpected body %q", want, body)
		}

		if res.Record.DownloadCount != want {
			t.Errorf("download %d: expected count %d, got %d", want, want, res.Record.DownloadCount)
		}
	}

	_, err := env.svc.Download(ctx, id)

	var limitErr *DownloadLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Expected DownloadLimitError on 4th download, got %v", err)
	}

	if !strings.Contains(limitErr.Error(), "3") {
		t.Errorf("Expected limit value in message, got %q", limitErr.Error())
	}
}

// TestDownloadLimitFollowsCurrentConfig 测试上限按下载时的配置读取.
func TestDownloadLimitFollowsCurrentConfig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.upload(t, "doc.pdf", "content", nil)

	res, err := env.svc.Download(ctx, id)
	if err != nil {
		t.Fatalf("first download: %v", err)
	}

	res.Content.Close()

	// 调低上限后立即生效
	env.policies.Public.MaxDownloads = 1

	_, err = env.svc.Download(ctx, id)

	var limitErr *DownloadLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Expected DownloadLimitError after lowering limit, got %v", err)
	}

	if limitErr.Limit != 1 {
		t.Errorf("Expected limit 1, got %d", limitErr.Limit)
	}
}

// TestExpiredReturnsExpiredError 测试过期文件在引擎层返回 ErrExpired，
// 与真正不存在的 ErrNotFound 可区分.
func TestExpiredReturnsExpiredError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.upload(t, "a.txt", "aaa", nil)

	// 未过期时可见
	if _, err := env.svc.Meta(ctx, id); err != nil {
		t.Fatalf("meta before expiry: %v", err)
	}

	env.clock.Advance(8 * 24 * time.Hour)

	if _, err := env.svc.Meta(ctx, id); !errors.Is(err, ErrExpired) {
		t.Errorf("Expected ErrExpired for expired meta, got %v", err)
	}

	if _, err := env.svc.Download(ctx, id); !errors.Is(err, ErrExpired) {
		t.Errorf("Expected ErrExpired for expired download, got %v", err)
	}

	// 不存在的 ID 仍是 ErrNotFound
	if _, err := env.svc.Meta(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

// TestVisibilityGate 测试私有文件内容仅所有者可下载，公共文件对认证用户同样开放.
func TestVisibilityGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	id := env.upload(t, "private.txt", "secret", alice)

	// 匿名下载被拒绝
	if _, err := env.svc.Download(ctx, id); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied for anonymous download, got %v", err)
	}

	// 他人下载同样被拒绝
	if _, err := env.svc.DownloadOwned(ctx, id, bob); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied for other user's download, got %v", err)
	}

	// 所有者可以下载
	res, err := env.svc.DownloadOwned(ctx, id, alice)
	if err != nil {
		t.Fatalf("owner download: %v", err)
	}

	res.Content.Close()

	// 元数据不设可见性门槛，带所有者展示名
	meta, err := env.svc.Meta(ctx, id)
	if err != nil {
		t.Fatalf("meta of private file: %v", err)
	}

	if meta.OwnerUsername != "alice" {
		t.Errorf("Expected owner username alice, got %q", meta.OwnerUsername)
	}

	// 认证用户也能下载公共文件
	pub := env.upload(t, "pub.txt", "open", nil)

	res, err = env.svc.DownloadOwned(ctx, pub, bob)
	if err != nil {
		t.Fatalf("authenticated download of public file: %v", err)
	}

	res.Content.Close()
}

// TestDeleteOwnedScoped 测试删除只作用于调用方自己的文件.
func TestDeleteOwnedScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	id := env.upload(t, "mine.txt", "data", alice)

	if err := env.svc.DeleteOwned(ctx, id, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound when deleting other user's file, got %v", err)
	}

	// bob 的失败删除不应影响文件
	if _, err := env.svc.Meta(ctx, id); err != nil {
		t.Fatalf("file should survive foreign delete attempt: %v", err)
	}

	if err := env.svc.DeleteOwned(ctx, id, alice); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	if _, err := env.svc.Meta(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// blob 也被删除
	exists, err := env.blob.Exists(ctx, id+".txt")
	if err != nil {
		t.Fatalf("blob exists: %v", err)
	}

	if exists {
		t.Error("Expected blob to be removed after delete")
	}
}

// TestReapExpired 测试清理任务只回收过期文件且幂等.
func TestReapExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	expired1 := env.upload(t, "old1.txt", "a", nil)
	expired2 := env.upload(t, "old2.txt", "b", nil)

	env.clock.Advance(8 * 24 * time.Hour)

	live := env.upload(t, "new.txt", "c", nil)

	reaped, err := env.svc.ReapExpired(ctx)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}

	if reaped != 2 {
		t.Errorf("Expected 2 reaped, got %d", reaped)
	}

	for _, id := range []string{expired1, expired2} {
		exists, err := env.blob.Exists(ctx, id+".txt")
		if err != nil {
			t.Fatalf("blob exists: %v", err)
		}

		if exists {
			t.Errorf("Expected blob %s to be reaped", id)
		}
	}

	// 未过期文件不受影响
	if _, err := env.svc.Meta(ctx, live); err != nil {
		t.Errorf("live file should survive reap: %v", err)
	}

	// 再次执行没有可清理的记录
	reaped, err = env.svc.ReapExpired(ctx)
	if err != nil {
		t.Fatalf("second reap: %v", err)
	}

	if reaped != 0 {
		t.Errorf("Expected 0 reaped on second run, got %d", reaped)
	}
}

// TestListOwnedOrder 测试列表按上传时间倒序且排除过期与他人文件.
func TestListOwnedOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	old := env.upload(t, "old.txt", "1", alice)

	env.clock.Advance(time.Hour)

	mid := env.upload(t, "mid.txt", "2", alice)

	env.clock.Advance(time.Hour)

	newest := env.upload(t, "new.txt", "3", alice)

	env.upload(t, "other.txt", "4", bob)

	list, err := env.svc.ListOwned(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 3 {
		t.Fatalf("Expected 3 files, got %d", list.Total)
	}

	wantOrder := []string{newest, mid, old}
	for i, want := range wantOrder {
		if list.Files[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, list.Files[i].ID)
		}
	}

	// 过期后从列表消失
	env.clock.Advance(31 * 24 * time.Hour)

	list, err = env.svc.ListOwned(ctx, alice)
	if err != nil {
		t.Fatalf("list after expiry: %v", err)
	}

	if list.Total != 0 {
		t.Errorf("Expected empty list after expiry, got %d", list.Total)
	}
}

// TestBlobKeyExtension 测试对象键保留扩展名.
func TestBlobKeyExtension(t *testing.T) {
	cases := []struct {
		id, name, want string
	}{
		{"abc", "report.pdf", "abc.pdf"},
		{"abc", "archive.tar.gz", "abc.gz"},
		{"abc", "noext", "abc"},
		{"abc", "", "abc"},
		{"abc", "weird.a/b", "abc"},
	}

	for _, tc := range cases {
		if got := blobKeyFor(tc.id, tc.name); got != tc.want {
			t.Errorf("blobKeyFor(%q, %q) = %q, want %q", tc.id, tc.name, got, tc.want)
		}
	}
}
