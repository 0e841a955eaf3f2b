package service

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/yeisme/proximashare/pkg/internal/model"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// DownloadResult 下载结果：内容流与递增计数后的元数据快照.
type DownloadResult struct {
	Content io.ReadCloser
	Record  *model.FileRecord
}

// Download 以匿名身份下载文件. 私有文件对匿名调用方拒绝下载.
func (s *FileService) Download(ctx context.Context, id string) (*DownloadResult, error) {
	rec, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rec.IsPublic {
		return nil, ErrAccessDenied
	}

	return s.consumeDownload(ctx, rec)
}

// DownloadOwned 以认证用户身份下载文件.
// 公共文件任何认证用户都可下载；私有文件仅所有者可下载.
func (s *FileService) DownloadOwned(ctx context.Context, id string, owner *model.User) (*DownloadResult, error) {
	rec, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rec.IsPublic && !rec.OwnedBy(owner.ID) {
		return nil, ErrAccessDenied
	}

	return s.consumeDownload(ctx, rec)
}

// consumeDownload 原子递增下载计数并打开内容流.
// 下载上限始终按当前配置读取，调低上限后立即对已有文件生效.
//
// 计数递增用带上限条件的单条 UPDATE 完成：
//
//	UPDATE file_records SET download_count = download_count + 1
//	WHERE id = ? AND download_count < ?
//
// 未命中任何行即说明已达上限，并发请求不会超发.
func (s *FileService) consumeDownload(ctx context.Context, rec *model.FileRecord) (*DownloadResult, error) {
	limit := s.policyFor(rec.IsPublic).MaxDownloads

	dbx := s.dbClient.GetDB().WithContext(ctx)

	res := dbx.Model(&model.FileRecord{}).
		Where("id = ? AND download_count < ?", rec.ID, limit).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return nil, &StorageError{Op: "increment download count", Err: res.Error}
	}

	if res.RowsAffected == 0 {
		return nil, &DownloadLimitError{Limit: limit}
	}

	// 重新读取拿到递增后的计数
	if err := dbx.Where("id = ?", rec.ID).First(rec).Error; err != nil {
		return nil, &StorageError{Op: "reload metadata", Err: err}
	}

	content, err := s.blobStore.Get(ctx, blobKeyFor(rec.ID, rec.FileName))
	if err != nil {
		// 计数已递增但内容缺失，记录细节便于排查
		nlog.Logger().Error().Err(err).Str("id", rec.ID).Msg("blob missing for live metadata")

		return nil, &StorageError{Op: "open blob", Err: err}
	}

	s.publishDownloaded(rec, limit)

	return &DownloadResult{Content: content, Record: rec}, nil
}
