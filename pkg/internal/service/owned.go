package service

import (
	"context"

	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/types"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// ListOwned 列出认证用户的全部未过期文件，按上传时间倒序.
func (s *FileService) ListOwned(ctx context.Context, owner *model.User) (*types.ListFilesResponse, error) {
	var recs []model.FileRecord

	err := s.dbClient.GetDB().WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? AND expires_at >= ?", owner.ID, s.now()).
		Order("uploaded_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, &StorageError{Op: "list metadata", Err: err}
	}

	files := make([]types.FileMetaResponse, 0, len(recs))
	for i := range recs {
		files = append(files, *metaResponse(&recs[i]))
	}

	return &types.ListFilesResponse{Files: files, Total: len(files)}, nil
}

// DeleteOwned 删除认证用户自己的文件（元数据与内容）.
// 对不存在或他人的文件统一返回 ErrNotFound.
func (s *FileService) DeleteOwned(ctx context.Context, id string, owner *model.User) error {
	rec, err := s.findLiveOwned(ctx, id, owner)
	if err != nil {
		return err
	}

	// blob 删除尽力而为；元数据删除是权威动作
	key := blobKeyFor(rec.ID, rec.FileName)
	if err := s.blobStore.Delete(ctx, key); err != nil {
		nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("blob delete failed, metadata will still be removed")
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Delete(&model.FileRecord{}, "id = ?", rec.ID).Error; err != nil {
		return &StorageError{Op: "delete metadata", Err: err}
	}

	s.publishDeleted(rec, owner)

	return nil
}
