package service

import (
	"github.com/yeisme/proximashare/pkg/configs"
	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/queue"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

const eventProducer = "proximashare"

// fileRef 从记录构造事件引用.
func fileRef(rec *model.FileRecord, owner *model.User) queue.FileRef {
	ref := queue.FileRef{
		ID:       rec.ID,
		FileName: rec.FileName,
		Size:     rec.Size,
		MimeType: rec.MimeType,
		IsPublic: rec.IsPublic,
	}
	if owner != nil {
		ref.Owner = owner.Username
	}

	return ref
}

// eventsEnabled 检查总开关与 MQ 可用性.
func (s *FileService) eventsEnabled() bool {
	return s.mqClient != nil && s.mqClient.Publisher() != nil && configs.GetConfig().Events.Enabled
}

// publishUploaded 发布上传事件，失败只记日志，不影响主流程.
func (s *FileService) publishUploaded(rec *model.FileRecord, owner *model.User) {
	if !s.eventsEnabled() || !configs.GetConfig().Events.File.Uploaded {
		return
	}

	payload := queue.FileUploadedPayload{File: fileRef(rec, owner), ExpiresAt: rec.ExpiresAt}
	if err := queue.PublishFileUploaded(s.mqClient.Publisher(), payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("publish file.uploaded failed")
	}
}

// publishDownloaded 发布下载事件.
func (s *FileService) publishDownloaded(rec *model.FileRecord, maxDownloads int) {
	if !s.eventsEnabled() || !configs.GetConfig().Events.File.Downloaded {
		return
	}

	payload := queue.FileDownloadedPayload{
		File:          fileRef(rec, nil),
		DownloadCount: rec.DownloadCount,
		MaxDownloads:  maxDownloads,
	}
	if err := queue.PublishFileDownloaded(s.mqClient.Publisher(), payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("publish file.downloaded failed")
	}
}

// publishDeleted 发布删除事件.
func (s *FileService) publishDeleted(rec *model.FileRecord, owner *model.User) {
	if !s.eventsEnabled() || !configs.GetConfig().Events.File.Deleted {
		return
	}

	payload := queue.FileDeletedPayload{File: fileRef(rec, owner)}
	if err := queue.PublishFileDeleted(s.mqClient.Publisher(), payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("publish file.deleted failed")
	}
}

// publishReaped 发布清理事件.
func (s *FileService) publishReaped(rec *model.FileRecord) {
	if !s.eventsEnabled() || !configs.GetConfig().Events.File.Reaped {
		return
	}

	payload := queue.FileReapedPayload{File: fileRef(rec, nil), ExpiredAt: rec.ExpiresAt}
	if err := queue.PublishFileReaped(s.mqClient.Publisher(), payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("id", rec.ID).Msg("publish file.reaped failed")
	}
}
