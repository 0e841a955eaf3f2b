package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// LocalStore 基于本地文件系统的 blob 存储实现，适合单机部署与测试.
// 写入采用临时文件加原子重命名，避免出现半写状态的对象.
type LocalStore struct {
	base string
}

// NewLocalStore 创建本地 blob 存储，base 目录不存在时自动创建.
func NewLocalStore(base string) (*LocalStore, error) {
	if err := os.MkdirAll(base, dirPerm); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", base, err)
	}

	return &LocalStore{base: base}, nil
}

// path 校验并拼接对象路径. 键由元数据层生成，但仍拒绝路径穿越.
func (l *LocalStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}

	return filepath.Join(l.base, key), nil
}

// Put 写入对象内容.
func (l *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.base, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("finalize blob %s: %w", key, err)
	}

	return nil
}

// Get 获取对象内容.
func (l *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

// Delete 删除对象，不存在时返回 nil.
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}

	return nil
}

// Exists 检查对象是否存在.
func (l *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := l.path(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat blob %s: %w", key, err)
	}

	return true, nil
}

// Close 释放资源（本地实现无需操作）.
func (l *LocalStore) Close() error {
	return nil
}
