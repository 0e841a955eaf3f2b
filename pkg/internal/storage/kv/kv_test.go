package kv

import (
	"context"
	"testing"
	"time"
)

// TestMemoryKVSetGet 测试内存 KV 基本读写.
func TestMemoryKVSetGet(t *testing.T) {
	store, err := NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMemoryKV failed: %v", err)
	}

	ctx := context.Background()

	if err := store.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(got) != "v1" {
		t.Errorf("Expected v1, got %s", string(got))
	}

	// 不存在的键
	if _, err := store.Get(ctx, "missing"); err == nil {
		t.Error("Expected error for missing key, got nil")
	}
}

// TestMemoryKVTTL 测试带 TTL 的键会过期.
func TestMemoryKVTTL(t *testing.T) {
	store, err := NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMemoryKV failed: %v", err)
	}

	ctx := context.Background()

	// 已过期：用负 TTL 直接写入过期包装值
	encoded, wrapped, err := encodeWithTTL([]byte("v"), time.Second)
	if err != nil || !wrapped {
		t.Fatalf("encodeWithTTL failed: wrapped=%v err=%v", wrapped, err)
	}

	_, expired, _, err := decodeWithTTL(encoded, time.Now().Add(2*time.Second))
	if err != nil {
		t.Fatalf("decodeWithTTL failed: %v", err)
	}

	if !expired {
		t.Error("Expected value to be expired after TTL window")
	}

	// 未过期的键可正常读取
	if err := store.Set(ctx, "fresh", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("Expected fresh key to be readable, got %v", err)
	}
}

// TestMemoryKVDeleteExists 测试删除与存在性检查.
func TestMemoryKVDeleteExists(t *testing.T) {
	store, err := NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMemoryKV failed: %v", err)
	}

	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	exists, err := store.Exists(ctx, "k")
	if err != nil || !exists {
		t.Errorf("Expected key to exist, exists=%v err=%v", exists, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err = store.Exists(ctx, "k")
	if err != nil || exists {
		t.Errorf("Expected key to be gone, exists=%v err=%v", exists, err)
	}
}
