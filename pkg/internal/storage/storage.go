// Package storage 聚合数据库、对象存储、消息队列与 KV 等存储资源的初始化和访问.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	dbClient := mgr.GetDBClient()
//	blobStore := mgr.GetBlobStore()
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeisme/proximashare/pkg/configs"
	blobc "github.com/yeisme/proximashare/pkg/internal/storage/blob"
	dbc "github.com/yeisme/proximashare/pkg/internal/storage/db"
	kvc "github.com/yeisme/proximashare/pkg/internal/storage/kv"
	mqc "github.com/yeisme/proximashare/pkg/internal/storage/mq"
	s3c "github.com/yeisme/proximashare/pkg/internal/storage/s3"
	nlog "github.com/yeisme/proximashare/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3   *s3c.Client
	DB   *dbc.Client
	MQ   *mqc.Client
	KV   *kvc.Client
	Blob blobc.Store
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = fmt.Errorf("init db: %w", e)
			return
		}

		m.DB = dbi

		// Blob：s3 后端需要先建立 S3 连接，local 后端直接使用本地目录
		switch cfg.Blob.Backend {
		case configs.BlobBackendLocal:
			store, e := blobc.NewLocalStore(cfg.Blob.LocalPath)
			if e != nil {
				err = fmt.Errorf("init local blob store: %w", e)
				return
			}

			m.Blob = store
		default:
			s3i, e := s3c.New(ctx)
			if e != nil {
				err = fmt.Errorf("init s3: %w", e)
				return
			}

			m.S3 = s3i
			m.Blob = blobc.NewS3Store(s3i)
		}

		// MQ：事件发布是辅助能力，未启用时跳过，连接失败时降级为无事件运行
		if cfg.Events.Enabled {
			mqi, e := mqc.New(ctx)
			if e != nil {
				nlog.Logger().Warn().Err(e).Msg("mq unavailable, lifecycle events disabled")
			} else {
				m.MQ = mqi
			}
		}

		// KV
		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = fmt.Errorf("init kv: %w", e)
			return
		}

		m.KV = kvi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetS3Client 获取 S3 客户端，local blob 后端下为 nil.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetBlobStore 获取文件内容存储.
func (m *Manager) GetBlobStore() blobc.Store {
	return m.Blob
}

// Close 关闭所有存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.Blob != nil {
		if e := m.Blob.Close(); e != nil {
			err = e
		}
	}

	return err
}
