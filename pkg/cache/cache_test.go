package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/proximashare/pkg/cache"
)

// tierLimits 测试用的策略结构体.
type tierLimits struct {
	MaxSizeBytes int64 `json:"max_size_bytes"`
	ExpiryDays   int   `json:"expiry_days"`
	MaxDownloads int   `json:"max_downloads"`
}

// mockKVStore 模拟KV存储实现.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

// TestCacheSetGet 测试基本读写与未命中.
func TestCacheSetGet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	// 未命中
	_, err := cache.Get[tierLimits](ctx, c, "nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent key")
	}

	limits := tierLimits{MaxSizeBytes: 1 << 30, ExpiryDays: 7, MaxDownloads: 3}

	if err := cache.Set(ctx, c, "config:limits:public", limits, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	got, err := cache.Get[tierLimits](ctx, c, "config:limits:public")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if got != limits {
		t.Errorf("Retrieved limits %+v do not match original %+v", got, limits)
	}
}

// TestCacheDeleteExists 测试删除与存在性检查.
func TestCacheDeleteExists(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	limits := tierLimits{MaxSizeBytes: 5 << 30, ExpiryDays: 30, MaxDownloads: 100}

	if err := cache.Set(ctx, c, "config:limits:user", limits, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	exists, err := c.Exists(ctx, "config:limits:user")
	if err != nil || !exists {
		t.Errorf("Key should exist, exists=%v err=%v", exists, err)
	}

	if err := c.Delete(ctx, "config:limits:user"); err != nil {
		t.Fatalf("Failed to delete cache: %v", err)
	}

	exists, err = c.Exists(ctx, "config:limits:user")
	if err != nil || exists {
		t.Errorf("Key should be gone, exists=%v err=%v", exists, err)
	}
}

// TestGetOrSet 测试 GetOrSet 只调用一次 getter.
func TestGetOrSet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	callCount := 0
	getter := func() (tierLimits, error) {
		callCount++
		return tierLimits{MaxSizeBytes: 1, ExpiryDays: 1, MaxDownloads: 1}, nil
	}

	v1, err := cache.GetOrSet(ctx, c, "limits", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	v2, err := cache.GetOrSet(ctx, c, "limits", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called once, got %d", callCount)
	}

	if v1 != v2 {
		t.Errorf("Results don't match: %+v vs %+v", v1, v2)
	}
}

// TestGetOrSetGetterError 测试 getter 返回错误的情况.
func TestGetOrSetGetterError(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	getter := func() (tierLimits, error) {
		return tierLimits{}, errors.New("getter error")
	}

	_, err := cache.GetOrSet(ctx, c, "limits:error", getter, 0)
	if err == nil {
		t.Error("Expected error from getter")
	}
}

// TestCacheClear 测试 Clear 清空所有键.
func TestCacheClear(t *testing.T) {
	store := newMockKVStore()
	c := cache.NewCache(store)
	ctx := context.Background()

	for i := range 3 {
		key := fmt.Sprintf("k:%d", i)
		if err := cache.Set(ctx, c, key, i, 0); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	if len(store.data) != 0 {
		t.Errorf("Expected 0 items after clear, got %d", len(store.data))
	}
}
