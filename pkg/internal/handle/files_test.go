package handle_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/proximashare/pkg/configs"
	"github.com/yeisme/proximashare/pkg/internal/model"
	"github.com/yeisme/proximashare/pkg/internal/router"
	"github.com/yeisme/proximashare/pkg/internal/storage"
	"github.com/yeisme/proximashare/pkg/internal/storage/blob"
	"github.com/yeisme/proximashare/pkg/internal/storage/db"
	"github.com/yeisme/proximashare/pkg/internal/types"
	"github.com/yeisme/proximashare/pkg/middleware"
)

// newTestServer 构造带本地存储与临时数据库的完整 HTTP 测试服务.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.User{}, &model.FileRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local blob store: %v", err)
	}

	manager := &storage.Manager{DB: &db.Client{DB: gdb}, Blob: store}

	e := gin.New()
	e.Use(
		middleware.StorageMiddleware(manager),
		middleware.IdentityMiddleware(configs.GetConfig().Auth),
	)

	router.RegisterFilesRoutes(e.Group("/api"))
	router.RegisterUserFilesRoutes(e.Group("/user"))

	return e
}

// multipartBody 构造带单个文件的 multipart 请求体.
func multipartBody(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func uploadFile(t *testing.T, e *gin.Engine, path, user, fileName, content string) types.UploadFileResponse {
	t.Helper()

	body, contentType := multipartBody(t, fileName, content)

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	if user != "" {
		req.Header.Set("X-Auth-Request-User", user)
	}

	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp types.UploadFileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	return resp
}

func TestAnonymousUploadAndMeta(t *testing.T) {
	e := newTestServer(t)

	resp := uploadFile(t, e, "/api/files/upload", "", "hello.txt", "hello world")

	if resp.ID == "" {
		t.Fatal("expected non-empty file id")
	}

	if !resp.IsPublic {
		t.Fatal("anonymous upload should be public")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/"+resp.ID, nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("meta: expected 200, got %d", w.Code)
	}

	var meta types.FileMetaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}

	if meta.FileName != "hello.txt" || meta.Size != int64(len("hello world")) {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestMetaUnknownIDReturns404(t *testing.T) {
	e := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/no-such-id", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDownloadCountsAndLimit(t *testing.T) {
	e := newTestServer(t)

	resp := uploadFile(t, e, "/api/files/upload", "", "data.bin", "payload-bytes")

	limit := configs.GetConfig().Upload.Public.MaxDownloads
	for i := 1; i <= limit; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/files/download/"+resp.ID, nil)
		e.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("download %d: expected 200, got %d", i, w.Code)
		}

		if w.Body.String() != "payload-bytes" {
			t.Fatalf("download %d: unexpected body %q", i, w.Body.String())
		}

		if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="data.bin"` {
			t.Fatalf("download %d: unexpected disposition %q", i, cd)
		}
	}

	// 超出限制后返回 400，并带上限说明
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/download/"+resp.ID, nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 after limit, got %d", w.Code)
	}

	if !bytes.Contains(w.Body.Bytes(), []byte(fmt.Sprintf("%d", limit))) {
		t.Fatalf("expected limit %d in error, got %s", limit, w.Body.String())
	}
}

func TestUserFileVisibility(t *testing.T) {
	e := newTestServer(t)

	resp := uploadFile(t, e, "/user/files/upload", "alice", "private.txt", "secret")

	if resp.IsPublic {
		t.Fatal("user upload should not be public")
	}

	// 元数据对任何知道标识的调用方可见，并带所有者展示名
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/"+resp.ID, nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("anonymous meta: expected 200, got %d", w.Code)
	}

	var meta types.FileMetaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}

	if meta.OwnerUsername != "alice" {
		t.Fatalf("expected owner_username alice, got %q", meta.OwnerUsername)
	}

	// 匿名下载私有文件被拒绝
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/files/download/"+resp.ID, nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous download: expected 403, got %d", w.Code)
	}

	// 他人下载私有文件被拒绝
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/user/files/download/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "bob")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("other user download: expected 403, got %d", w.Code)
	}

	// 所有者可以下载
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/user/files/download/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "alice")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("owner download: expected 200, got %d", w.Code)
	}

	if w.Body.String() != "secret" {
		t.Fatalf("owner download: unexpected body %q", w.Body.String())
	}
}

// TestAuthenticatedDownloadOfPublicFile 认证用户通过用户接口下载公共文件.
func TestAuthenticatedDownloadOfPublicFile(t *testing.T) {
	e := newTestServer(t)

	resp := uploadFile(t, e, "/api/files/upload", "", "open.txt", "for everyone")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/files/download/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "bob")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w.Body.String() != "for everyone" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestDeleteUserFile(t *testing.T) {
	e := newTestServer(t)

	resp := uploadFile(t, e, "/user/files/upload", "alice", "trash.txt", "to be removed")

	// 其他用户删除按不存在处理
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/user/files/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "bob")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("other user delete: expected 404, got %d", w.Code)
	}

	// 所有者删除成功
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/user/files/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "alice")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", w.Code)
	}

	// 删除后不可见
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/user/files/"+resp.ID, nil)
	req.Header.Set("X-Auth-Request-User", "alice")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("meta after delete: expected 404, got %d", w.Code)
	}
}

func TestListUserFiles(t *testing.T) {
	e := newTestServer(t)

	uploadFile(t, e, "/user/files/upload", "alice", "one.txt", "1")
	uploadFile(t, e, "/user/files/upload", "alice", "two.txt", "22")
	uploadFile(t, e, "/user/files/upload", "bob", "other.txt", "333")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/files", nil)
	req.Header.Set("X-Auth-Request-User", "alice")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}

	var list types.ListFilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if list.Total != 2 {
		t.Fatalf("expected 2 files for alice, got %d", list.Total)
	}
}
