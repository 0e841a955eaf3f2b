package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/internal/service"
)

// GetUploadLimits 返回当前生效的分级上传限制.
//
//	@Summary		查询上传限制
//	@Description	返回匿名与认证用户两个级别当前生效的大小/过期/下载次数限制
//	@Tags			公共配置
//	@Produce		json
//	@Success		200	{object}	types.LimitsResponse	"分级限制"
//	@Router			/api/public/config/limits [get]
func GetUploadLimits(c *gin.Context) {
	svc := service.NewFileService(c.Request.Context())

	// 限制信息变化频率低，允许客户端与缓存中间件短暂缓存
	c.Header("Cache-Control", "max-age=60")
	c.JSON(http.StatusOK, svc.Limits())
}
