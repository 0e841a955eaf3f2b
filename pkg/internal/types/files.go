package types

import "time"

// UploadFileResponse 上传成功后返回的结果.
type UploadFileResponse struct {
	ID            string    `json:"id"`        // 不透明文件标识，用于后续访问
	FileName      string    `json:"file_name"` // 原始文件名（空白时为 "unknown"）
	Size          int64     `json:"size"`      // 文件大小（字节）
	MimeType      string    `json:"mime_type,omitempty"`
	IsPublic      bool      `json:"is_public"`
	UploadedAt    time.Time `json:"uploaded_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DownloadCount int       `json:"download_count"`
}

// FileMetaResponse 文件元数据查询结果.
// OwnerUsername 只是所有者的展示名，内部用户对象不对外暴露.
type FileMetaResponse struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mime_type,omitempty"`
	IsPublic      bool      `json:"is_public"`
	OwnerUsername string    `json:"owner_username,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DownloadCount int       `json:"download_count"`
}

// ListFilesResponse 用户文件列表结果，按上传时间倒序.
type ListFilesResponse struct {
	Files []FileMetaResponse `json:"files"`
	Total int                `json:"total"`
}

// TierLimits 单个上传级别的对外可见限制.
type TierLimits struct {
	MaxSizeBytes int64 `json:"max_size_bytes"`
	ExpiryDays   int   `json:"expiry_days"`
	MaxDownloads int   `json:"max_downloads"`
}

// LimitsResponse 公共配置接口返回的分级限制.
type LimitsResponse struct {
	Public TierLimits `json:"public"`
	User   TierLimits `json:"user"`
}
