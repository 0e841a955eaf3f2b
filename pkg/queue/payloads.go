package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 文件分享领域 --------------------------

// FileRef 标识一条文件记录及其基础元数据.
type FileRef struct {
	ID       string `json:"id"`
	FileName string `json:"file_name,omitempty"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	IsPublic bool   `json:"is_public"`
	Owner    string `json:"owner,omitempty"`
}

// FileUploadedPayload 文件上传完成（blob 已写入、元数据已落库）.
type FileUploadedPayload struct {
	File      FileRef   `json:"file"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileDownloadedPayload 文件被成功下载一次.
type FileDownloadedPayload struct {
	File          FileRef `json:"file"`
	DownloadCount int     `json:"download_count"` // 递增后的计数
	MaxDownloads  int     `json:"max_downloads"`
}

// FileDeletedPayload 文件被所有者删除.
type FileDeletedPayload struct {
	File FileRef `json:"file"`
}

// FileReapedPayload 文件因过期被清理.
type FileReapedPayload struct {
	File      FileRef   `json:"file"`
	ExpiredAt time.Time `json:"expired_at"`
}
