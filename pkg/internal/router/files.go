package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/handle"
)

// RegisterFilesRoutes 注册公共（匿名）文件操作路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 匿名上传
		filesRoutes.POST("/upload", handle.UploadFile)

		// 下载文件内容（流式，不压缩）
		filesRoutes.GET("/download/:id", handle.DownloadFile)

		// 元数据查询（JSON，启用 gzip）
		filesRoutes.GET("/:id", gzip.Gzip(gzip.DefaultCompression), handle.GetFileMeta)
	}
}
