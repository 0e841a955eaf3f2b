// Package app 提供应用程序的初始化和启动功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/proximashare/pkg/api"
	"github.com/yeisme/proximashare/pkg/cache"
	"github.com/yeisme/proximashare/pkg/configs"
	"github.com/yeisme/proximashare/pkg/internal/jobs"
	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/storage"
	"github.com/yeisme/proximashare/pkg/log"
	"github.com/yeisme/proximashare/pkg/metrics"
	"github.com/yeisme/proximashare/pkg/middleware"
	"github.com/yeisme/proximashare/pkg/scheduler"
	"github.com/yeisme/proximashare/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// App 聚合 HTTP 引擎、存储与调度器的应用实例.
type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

// NewApp 按配置初始化完整应用：配置、日志、追踪、指标、存储、调度与路由.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()
	l := log.Logger()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		l.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		l.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// 初始化存储（DB/Blob/MQ/KV）
	manager, err := storage.Init(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// 迁移元数据表结构
	if err := manager.GetDBClient().GetDB().AutoMigrate(&model.User{}, &model.FileRecord{}); err != nil {
		l.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// 初始化调度器并注册定时任务（过期文件回收）
	sched, err := scheduler.NewScheduler()
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize scheduler")
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		l.Fatal().Err(err).Msg("failed to register cron jobs")
	}

	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
		middleware.IdentityMiddleware(config.Auth),
		middleware.AuthMiddleware(config.Auth),
	)

	if config.Metrics.Enabled {
		if err := metrics.StartMetricsServer(config.Metrics, engine); err != nil {
			l.Error().Err(err).Msg("failed to start metrics server")
		}
	}

	// 响应缓存使用 KV 后端，KV 不可用时跳过
	var respCache *cache.Cache
	if kvClient := manager.GetKVClient(); kvClient != nil {
		respCache = cache.NewCache(kvClient)
	}

	api.RegisterRoutes(engine, respCache)

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run 启动调度器与 HTTP 服务，并在收到退出信号时优雅关闭.
func (a *App) Run() error {
	l := log.Logger()

	a.sched.Start()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler: a.Engine,
	}

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", srv.Addr).Msg("HTTP server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		l.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := a.sched.Stop(); err != nil {
		l.Error().Err(err).Msg("scheduler shutdown failed")
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		l.Error().Err(err).Msg("tracer shutdown failed")
	}

	if err := a.manager.Close(); err != nil {
		l.Error().Err(err).Msg("storage shutdown failed")
	}

	return nil
}
