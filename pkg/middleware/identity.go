// Package middleware 的身份解析部分：从请求头识别调用方用户名并注入 context。
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/configs"
)

type callerKey struct{}

// callerFromRequest 从请求中解析调用方用户名，空串表示匿名访问。
func callerFromRequest(c *gin.Context, devAllowQuery bool) string {
	user := strings.TrimSpace(c.GetHeader("X-Auth-Request-User"))
	if user == "" {
		user = strings.TrimSpace(c.GetHeader("X-Forwarded-User"))
	}

	if user == "" && devAllowQuery {
		user = strings.TrimSpace(c.Query("user"))
	}

	return user
}

// IdentityMiddleware 解析调用方用户名并注入到 gin.Context 和 request.Context。
// 未识别到用户时视为匿名请求，不做拦截（拦截由 AuthMiddleware 负责）。
func IdentityMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := callerFromRequest(c, conf.DevAllowQuery)
		if user != "" {
			// 保存到 gin context
			c.Set("caller", user)
			// 也保存到 request context，便于下游 service 获取
			ctx := context.WithValue(c.Request.Context(), callerKey{}, user)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetCaller 从 gin.Context 获取当前请求的用户名，空串表示匿名。
func GetCaller(c *gin.Context) string {
	if v, ok := c.Get("caller"); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	// 回退到 request context
	if v := c.Request.Context().Value(callerKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
