package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/types"
)

// findLive 按 ID 加载记录并解析所有者. 不存在返回 ErrNotFound；
// 已过期返回 ErrExpired（清理任务尚未回收的过期记录对读取方同样不可用）.
func (s *FileService) findLive(ctx context.Context, id string) (*model.FileRecord, error) {
	var rec model.FileRecord

	err := s.dbClient.GetDB().WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, &StorageError{Op: "find metadata", Err: err}
	}

	if rec.Expired(s.now()) {
		return nil, ErrExpired
	}

	return &rec, nil
}

// findLiveOwned 按 ID 和所有者加载记录，归属不符时返回 ErrNotFound，
// 避免向非所有者泄露文件是否存在.
func (s *FileService) findLiveOwned(ctx context.Context, id string, owner *model.User) (*model.FileRecord, error) {
	var rec model.FileRecord

	err := s.dbClient.GetDB().WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner.ID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, &StorageError{Op: "find metadata", Err: err}
	}

	if rec.Expired(s.now()) {
		return nil, ErrExpired
	}

	return &rec, nil
}

// Meta 查询文件元数据. 元数据本身不设可见性门槛：知道标识的调用方
// 都能看到文件名、大小与所有者展示名，只有内容下载受可见性约束.
func (s *FileService) Meta(ctx context.Context, id string) (*types.FileMetaResponse, error) {
	rec, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	return metaResponse(rec), nil
}

func metaResponse(rec *model.FileRecord) *types.FileMetaResponse {
	resp := &types.FileMetaResponse{
		ID:            rec.ID,
		FileName:      rec.FileName,
		Size:          rec.Size,
		MimeType:      rec.MimeType,
		IsPublic:      rec.IsPublic,
		UploadedAt:    rec.UploadedAt,
		ExpiresAt:     rec.ExpiresAt,
		DownloadCount: rec.DownloadCount,
	}
	if rec.Owner != nil {
		resp.OwnerUsername = rec.Owner.Username
	}

	return resp
}
