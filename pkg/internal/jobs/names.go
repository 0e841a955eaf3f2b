package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobFileReaper = "file.reaper"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	// CronFileReaper 每天零点回收过期文件.
	CronFileReaper = "0 0 * * *"
)
