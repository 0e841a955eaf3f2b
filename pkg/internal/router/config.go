package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/handle"
)

// RegisterPublicConfigRoutes 注册公共配置路由.
func RegisterPublicConfigRoutes(g *gin.RouterGroup) {
	configRoutes := g.Group("/public/config")
	{
		configRoutes.GET("/limits", handle.GetUploadLimits)
	}
}
