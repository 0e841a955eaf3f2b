package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/proximashare/pkg/configs"
)

func newAuthEngine(conf configs.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	e.Use(IdentityMiddleware(conf), AuthMiddleware(conf))
	e.GET("/user/files", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": GetCaller(c)})
	})
	e.GET("/api/files/abc", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return e
}

func TestAuthRejectsAnonymous(t *testing.T) {
	e := newAuthEngine(configs.AuthConfig{Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/files", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthAcceptsForwardedUser(t *testing.T) {
	e := newAuthEngine(configs.AuthConfig{Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/files", nil)
	req.Header.Set("X-Forwarded-User", "alice")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthSkipPaths(t *testing.T) {
	e := newAuthEngine(configs.AuthConfig{Enabled: true, SkipPaths: []string{"/api/files"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/abc", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on skipped path, got %d", w.Code)
	}
}

func TestAuthDevQueryFallback(t *testing.T) {
	e := newAuthEngine(configs.AuthConfig{Enabled: true, DevAllowQuery: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/files?user=bob", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestIdentityInjectsCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conf := configs.AuthConfig{Enabled: false}

	var got string

	e := gin.New()
	e.Use(IdentityMiddleware(conf))
	e.GET("/whoami", func(c *gin.Context) {
		got = GetCaller(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Auth-Request-User", "carol")
	e.ServeHTTP(w, req)

	if got != "carol" {
		t.Fatalf("expected caller carol, got %q", got)
	}
}
