package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishFileUploaded 发布 ps.file.uploaded 事件。
// 用于文件内容写入 blob 存储并落库元数据后，通知下游流程（如扫描、统计等）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishFileUploaded(pub message.Publisher, payload FileUploadedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileUploaded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileUploaded, msg)
}

// PublishFileDownloaded 发布 ps.file.downloaded 事件。
func PublishFileDownloaded(pub message.Publisher, payload FileDownloadedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileDownloaded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileDownloaded, msg)
}

// PublishFileDeleted 发布 ps.file.deleted 事件。
func PublishFileDeleted(pub message.Publisher, payload FileDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileDeleted, msg)
}

// PublishFileReaped 发布 ps.file.reaped 事件。
func PublishFileReaped(pub message.Publisher, payload FileReapedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFileReaped, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFileReaped, msg)
}

// ParseFileUploaded 将 Watermill 消息解析为强类型 Envelope（FileUploadedPayload）。
func ParseFileUploaded(msg *message.Message) (Message[FileUploadedPayload], error) {
	return ParseWatermillMessage[FileUploadedPayload](msg)
}

// ParseFileReaped 将 Watermill 消息解析为强类型 Envelope（FileReapedPayload）。
func ParseFileReaped(msg *message.Message) (Message[FileReapedPayload], error) {
	return ParseWatermillMessage[FileReapedPayload](msg)
}
