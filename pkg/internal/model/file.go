package model

import (
	"time"
)

// FileRecord 文件元数据模型.
// ID 是对外暴露的不透明标识，同时也是 blob 存储对象键的一部分；
// 记录一旦过期（ExpiresAt 之前）即视为不存在，由每日清理任务回收.
type FileRecord struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`
	// 原始文件名，空白时落库为 "unknown"
	FileName string `gorm:"size:512"  json:"file_name"`
	Size     int64  `gorm:"index"     json:"size"`
	MimeType string `gorm:"size:255"  json:"mime_type"`
	// 匿名上传为 true；认证用户上传为 false，且 OwnerID 非空
	IsPublic bool  `gorm:"index"               json:"is_public"`
	OwnerID  *uint `gorm:"index"               json:"owner_id,omitempty"`
	Owner    *User `gorm:"foreignKey:OwnerID"  json:"-"`
	// 下载计数，由条件 UPDATE 原子递增
	DownloadCount int       `json:"download_count"`
	UploadedAt    time.Time `gorm:"index" json:"uploaded_at"`
	ExpiresAt     time.Time `gorm:"index" json:"expires_at"`
}

// Expired 判断记录在 now 时刻是否已过期.
func (f *FileRecord) Expired(now time.Time) bool {
	return f.ExpiresAt.Before(now)
}

// OwnedBy 判断记录是否归属指定用户.
func (f *FileRecord) OwnedBy(userID uint) bool {
	return f.OwnerID != nil && *f.OwnerID == userID
}
