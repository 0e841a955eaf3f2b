package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/handle"
)

// RegisterUserFilesRoutes 注册认证用户的文件操作路由.
func RegisterUserFilesRoutes(g *gin.RouterGroup) {
	userFiles := g.Group("/files")
	{
		// 用户上传
		userFiles.POST("/upload", handle.UploadUserFile)

		// 文件列表（JSON，启用 gzip）
		userFiles.GET("", gzip.Gzip(gzip.DefaultCompression), handle.ListUserFiles)

		// 下载文件内容（流式，不压缩）
		userFiles.GET("/download/:id", handle.DownloadUserFile)

		// 元数据查询与删除
		userFiles.GET("/:id", gzip.Gzip(gzip.DefaultCompression), handle.GetUserFileMeta)
		userFiles.DELETE("/:id", handle.DeleteUserFile)
	}
}
