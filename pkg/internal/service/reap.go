package service

import (
	"context"

	"github.com/yeisme/proximashare/pkg/internal/model"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// ReapExpired 回收所有已过期的文件，返回清理的记录数.
// 单条记录失败不会中断整体清理；blob 删除尽力而为，元数据删除是权威动作，
// 因此重复执行是幂等的.
func (s *FileService) ReapExpired(ctx context.Context) (int, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var expired []model.FileRecord
	if err := dbx.Where("expires_at < ?", s.now()).Find(&expired).Error; err != nil {
		return 0, &StorageError{Op: "list expired", Err: err}
	}

	reaped := 0

	for i := range expired {
		rec := &expired[i]

		key := blobKeyFor(rec.ID, rec.FileName)
		if err := s.blobStore.Delete(ctx, key); err != nil {
			nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("blob delete failed during reap")
		}

		if err := dbx.Delete(&model.FileRecord{}, "id = ?", rec.ID).Error; err != nil {
			nlog.Logger().Error().Err(err).Str("id", rec.ID).Msg("metadata delete failed during reap")
			continue
		}

		s.publishReaped(rec)

		reaped++
	}

	if reaped > 0 {
		nlog.Logger().Info().Int("count", reaped).Msg("expired files reaped")
	}

	return reaped, nil
}
