// Package api 负责将各业务路由组装到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/cache"
	"github.com/yeisme/proximashare/pkg/internal/router"
	"github.com/yeisme/proximashare/pkg/middleware"
)

// RegisterRoutes 注册全部 HTTP 路由到传入的 gin 引擎.
//   - /api/files：匿名上传/元数据/下载
//   - /api/public/config：公共配置（可选响应缓存）
//   - /api/health：健康检查
//   - /user/files：认证用户文件操作
//   - /api/scheduler：调度任务可视化
func RegisterRoutes(e *gin.Engine, respCache *cache.Cache) *gin.Engine {
	apiGroup := e.Group("/api")
	{
		router.RegisterFilesRoutes(apiGroup)
		router.RegisterHealthCheckRoute(apiGroup)
		router.RegisterSchedulerRoutes(apiGroup)

		// 公共配置变化频率低，注入响应缓存
		publicGroup := apiGroup.Group("")
		if respCache != nil {
			publicGroup.Use(middleware.CacheMiddleware(middleware.DefaultCacheConfig(respCache)))
		}

		router.RegisterPublicConfigRoutes(publicGroup)
	}

	userGroup := e.Group("/user")
	{
		router.RegisterUserFilesRoutes(userGroup)
	}

	return e
}
