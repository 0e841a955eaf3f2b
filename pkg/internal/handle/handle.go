// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/proximashare/pkg/internal/service"
	"github.com/yeisme/proximashare/pkg/middleware"
	"github.com/yeisme/proximashare/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkUser 提取并校验调用方用户名（由 IdentityMiddleware 注入）.
func checkUser(c *gin.Context) (string, error) {
	user := middleware.GetCaller(c)

	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user"
	}

	if err := rule.ValidateVar(user, "required,min=1,max=190"); err != nil {
		return "", err
	}

	return user, nil
}

// writeServiceError 将 service 层错误映射为 HTTP 状态码.
//   - 未找到/已过期 -> 404
//   - 访问拒绝 -> 403
//   - 大小/下载次数限制 -> 400
//   - 其余 -> 500
func writeServiceError(c *gin.Context, l *zerolog.Logger, err error) {
	var (
		sizeErr  *service.SizeLimitError
		limitErr *service.DownloadLimitError
	)

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.As(err, &sizeErr), errors.As(err, &limitErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		l.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
