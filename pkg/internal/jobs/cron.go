// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/proximashare/pkg/context"
	"github.com/yeisme/proximashare/pkg/internal/service"
	"github.com/yeisme/proximashare/pkg/internal/storage"
	"github.com/yeisme/proximashare/pkg/log"
	"github.com/yeisme/proximashare/pkg/metrics"
	"github.com/yeisme/proximashare/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 00:00 回收过期文件（元数据与 blob 内容）
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天零点回收过期文件
	if err := sched.AddCron(JobFileReaper, CronFileReaper, func(ctx context.Context) {
		runFileReaper(ctx, mgr)
	}, baseCtx); err != nil {
		return fmt.Errorf("register %s: %w", JobFileReaper, err)
	}

	return nil
}

// runFileReaper 执行一轮过期文件回收.
func runFileReaper(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobFileReaper).Logger()

	svc := service.NewFileServiceWithDeps(mgr.GetDBClient(), mgr.GetBlobStore(), mgr.GetMQClient())

	n, err := svc.ReapExpired(ctx)
	if err != nil {
		l.Error().Err(err).Msg("reap expired files failed")
		return
	}

	metrics.FilesReaped.Add(float64(n))
	l.Info().Int("reaped", n).Msg("file reaper finished")
}
