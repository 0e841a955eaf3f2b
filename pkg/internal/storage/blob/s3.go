package blob

import (
	"context"
	"fmt"
	"io"

	minio "github.com/minio/minio-go/v7"

	s3c "github.com/yeisme/proximashare/pkg/internal/storage/s3"
)

// S3Store 基于 MinIO 客户端的 blob 存储实现.
type S3Store struct {
	cli    *s3c.Client
	bucket string
}

// NewS3Store 使用已初始化的 S3 客户端创建 blob 存储.
func NewS3Store(cli *s3c.Client) *S3Store {
	return &S3Store{cli: cli, bucket: cli.Bucket()}
}

// Put 写入对象内容.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}

	if _, err := s.cli.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// Get 获取对象内容. 先 Stat 以便把 NoSuchKey 映射为 ErrNotFound.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return obj, nil
}

// Delete 删除对象. MinIO 对不存在的对象删除同样返回成功，天然幂等.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// Exists 检查对象是否存在.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}

		return false, fmt.Errorf("stat object %s: %w", key, err)
	}

	return true, nil
}

// Close 释放资源（S3 客户端无需关闭）.
func (s *S3Store) Close() error {
	return nil
}
