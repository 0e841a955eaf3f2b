package service

import (
	"context"
	"io"

	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/types"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// UploadInput 上传内容与基础属性，由 HTTP 层从 multipart 表单填充.
type UploadInput struct {
	FileName string
	Size     int64
	MimeType string
	Reader   io.Reader
}

// Upload 存储文件内容并落库元数据，返回对外可见的结果.
// owner 为 nil 时按匿名（公共）级别处理.
//
// 先写 blob 再写元数据；元数据落库失败时尽力回收已写入的 blob，
// 避免留下永远无法被引用的对象.
func (s *FileService) Upload(ctx context.Context, in UploadInput, owner *model.User) (*types.UploadFileResponse, error) {
	public := owner == nil
	policy := s.policyFor(public)

	if in.Size > policy.MaxSizeBytes {
		return nil, &SizeLimitError{Size: in.Size, Limit: policy.MaxSizeBytes}
	}

	id, err := s.allocateID(ctx)
	if err != nil {
		return nil, err
	}

	key := blobKeyFor(id, in.FileName)
	if err := s.blobStore.Put(ctx, key, in.Reader, in.Size, in.MimeType); err != nil {
		return nil, &StorageError{Op: "put blob", Err: err}
	}

	now := s.now()
	rec := model.FileRecord{
		ID:         id,
		FileName:   normalizeFileName(in.FileName),
		Size:       in.Size,
		MimeType:   in.MimeType,
		IsPublic:   public,
		UploadedAt: now,
		ExpiresAt:  now.AddDate(0, 0, policy.ExpiryDays),
	}
	if owner != nil {
		rec.OwnerID = &owner.ID
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&rec).Error; err != nil {
		// 元数据失败时回收 blob，失败只记日志
		if delErr := s.blobStore.Delete(ctx, key); delErr != nil {
			nlog.Logger().Warn().Err(delErr).Str("key", key).Msg("failed to clean up orphan blob")
		}

		return nil, &StorageError{Op: "create metadata", Err: err}
	}

	s.publishUploaded(&rec, owner)

	return &types.UploadFileResponse{
		ID:            rec.ID,
		FileName:      rec.FileName,
		Size:          rec.Size,
		MimeType:      rec.MimeType,
		IsPublic:      rec.IsPublic,
		UploadedAt:    rec.UploadedAt,
		ExpiresAt:     rec.ExpiresAt,
		DownloadCount: rec.DownloadCount,
	}, nil
}
