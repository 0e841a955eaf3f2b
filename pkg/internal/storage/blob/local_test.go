package blob_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/proximashare/pkg/internal/storage/blob"
)

// TestLocalStoreRoundTrip 测试写入后读取内容一致.
func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	ctx := context.Background()
	content := "hello proximashare"

	err = store.Put(ctx, "abc123.txt", strings.NewReader(content), int64(len(content)), "text/plain")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := store.Get(ctx, "abc123.txt")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if string(got) != content {
		t.Errorf("Expected %q, got %q", content, string(got))
	}
}

// TestLocalStoreGetMissing 测试读取不存在的对象返回 ErrNotFound.
func TestLocalStoreGetMissing(t *testing.T) {
	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	_, err = store.Get(context.Background(), "missing.bin")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestLocalStoreDeleteIdempotent 测试重复删除不报错.
func TestLocalStoreDeleteIdempotent(t *testing.T) {
	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	ctx := context.Background()

	if err := store.Put(ctx, "x.bin", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Delete(ctx, "x.bin"); err != nil {
		t.Errorf("First delete failed: %v", err)
	}

	if err := store.Delete(ctx, "x.bin"); err != nil {
		t.Errorf("Second delete should be idempotent, got %v", err)
	}

	exists, err := store.Exists(ctx, "x.bin")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	if exists {
		t.Error("Expected object to be gone after delete")
	}
}

// TestLocalStoreRejectsBadKeys 测试拒绝含路径分隔符的键.
func TestLocalStoreRejectsBadKeys(t *testing.T) {
	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	ctx := context.Background()

	for _, key := range []string{"", "../evil", "a/b", `a\b`} {
		if err := store.Put(ctx, key, strings.NewReader("x"), 1, ""); err == nil {
			t.Errorf("Expected error for key %q, got nil", key)
		}
	}
}
