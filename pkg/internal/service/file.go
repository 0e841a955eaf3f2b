package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yeisme/proximashare/pkg/configs"
	ctxPkg "github.com/yeisme/proximashare/pkg/context"
	"github.com/yeisme/proximashare/pkg/internal/storage/blob"
	"github.com/yeisme/proximashare/pkg/internal/storage/db"
	"github.com/yeisme/proximashare/pkg/internal/storage/mq"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// FileService 负责文件分享相关业务逻辑（上传、下载、过期、清理），不处理 HTTP 细节.
type FileService struct {
	dbClient  *db.Client
	blobStore blob.Store
	mqClient  *mq.Client

	// policies 每次调用时读取当前策略，配置热重载后立即生效
	policies func() configs.UploadConfig
	// now 与 newID 可注入，便于测试控制时间与标识
	now   func() time.Time
	newID func() string
}

// NewFileService 从 context 获取依赖实例.
func NewFileService(c context.Context) *FileService {
	dbc := ctxPkg.GetDBClient(c)
	blobStore := ctxPkg.GetBlobStore(c)
	mqc := ctxPkg.GetMQClient(c)

	// 为了安全起见，应该直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if dbc == nil || dbc.DB == nil || blobStore == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	return newFileService(dbc, blobStore, mqc)
}

// NewFileServiceWithDeps 使用显式依赖构造服务，供测试与任务调度使用.
func NewFileServiceWithDeps(dbc *db.Client, blobStore blob.Store, mqc *mq.Client) *FileService {
	return newFileService(dbc, blobStore, mqc)
}

func newFileService(dbc *db.Client, blobStore blob.Store, mqc *mq.Client) *FileService {
	return &FileService{
		dbClient:  dbc,
		blobStore: blobStore,
		mqClient:  mqc,
		policies:  func() configs.UploadConfig { return configs.GetConfig().Upload },
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// policyFor 根据是否匿名选择上传级别策略.
func (s *FileService) policyFor(public bool) configs.TierPolicy {
	p := s.policies()
	if public {
		return p.Public
	}

	return p.User
}
