// Package blob 提供文件内容存储的统一接口，支持 S3 与本地磁盘两种后端.
// 对象键由元数据层生成（文件 ID + 扩展名），blob 层不关心键的含义.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 对象不存在.
var ErrNotFound = errors.New("blob: object not found")

// Store 定义文件内容存储接口.
type Store interface {
	// Put 写入对象内容，size 为内容字节数，未知时可传 -1.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get 获取对象内容，调用方负责 Close.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete 删除对象，对不存在的对象幂等返回 nil.
	Delete(ctx context.Context, key string) error
	// Exists 检查对象是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Close 释放后端资源.
	Close() error
}
