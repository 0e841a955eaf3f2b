package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 文件不存在.
	ErrNotFound = errors.New("file not found")
	// ErrExpired 记录仍在库中但已过期. 对读取方视同不存在（HTTP 层同样映射 404），
	// 但在引擎层与 ErrNotFound 区分.
	ErrExpired = errors.New("file expired")
	// ErrAccessDenied 文件存在但当前调用方无权访问.
	ErrAccessDenied = errors.New("access denied")
	// ErrAllocationExhausted ID 分配重试次数耗尽.
	ErrAllocationExhausted = errors.New("file id allocation exhausted")
)

// SizeLimitError 上传内容超过当前级别的大小上限.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file size %d exceeds the maximum allowed size of %d bytes", e.Size, e.Limit)
}

// DownloadLimitError 下载次数已达当前级别的上限.
type DownloadLimitError struct {
	Limit int
}

func (e *DownloadLimitError) Error() string {
	return fmt.Sprintf("download limit exceeded. Max. %d Times", e.Limit)
}

// StorageError 底层存储（blob 或数据库）操作失败.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
