// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：ps.<域>.<动作>，尽量稳定且向后兼容.
// 域：file(文件分享)、user(用户)等
// 动作：uploaded/downloaded/deleted/reaped 等过去式表示已发生的事实

const (
	// 文件分享领域.
	TopicFileUploaded   = "ps.file.uploaded"   // 文件内容已写入 blob 存储且元数据落库
	TopicFileDownloaded = "ps.file.downloaded" // 文件被成功下载一次（计数已递增）
	TopicFileDeleted    = "ps.file.deleted"    // 文件被所有者删除
	TopicFileReaped     = "ps.file.reaped"     // 文件因过期被清理任务回收
)

// 主题分组，用于批量操作或权限控制.
var (
	// 文件相关主题集合.
	FileTopics = []string{
		TopicFileUploaded, TopicFileDownloaded,
		TopicFileDeleted, TopicFileReaped,
	}
)
