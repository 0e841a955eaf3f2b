package configs

import "github.com/spf13/viper"

// BlobBackend 文件内容存储后端类型.
type BlobBackend string

const (
	BlobBackendS3    BlobBackend = "s3"    // MinIO/S3 对象存储
	BlobBackendLocal BlobBackend = "local" // 本地磁盘目录

	DefaultBlobBackend   = BlobBackendS3
	DefaultBlobLocalPath = "data/blobs" // 本地后端的存储根目录
)

// BlobConfig 选择文件内容的存储后端.
// 元数据始终在数据库中，这里只决定字节内容放在哪里.
type BlobConfig struct {
	Backend   BlobBackend `mapstructure:"backend"    rule:"oneof=s3 local"`
	LocalPath string      `mapstructure:"local_path"`
}

// setDefaults 设置 Blob 配置的默认值.
func (c *BlobConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("blob.backend", DefaultBlobBackend)
	v.SetDefault("blob.local_path", DefaultBlobLocalPath)
}
