package configs

import "github.com/spf13/viper"

const (
	gib = 1024 * 1024 * 1024

	// 公共（匿名）上传的默认策略.
	DefaultPublicMaxSizeBytes = 1 * gib
	DefaultPublicExpiryDays   = 7
	DefaultPublicMaxDownloads = 3

	// 认证用户上传的默认策略.
	DefaultUserMaxSizeBytes = 5 * gib
	DefaultUserExpiryDays   = 30
	DefaultUserMaxDownloads = 100
)

// TierPolicy 单个上传级别的策略：大小上限、保存天数、下载次数上限.
// 请求期间只读；修改配置不会回写已有文件记录的过期时间.
type TierPolicy struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes" rule:"min=1"`
	ExpiryDays   int   `mapstructure:"expiry_days"    rule:"min=1"`
	MaxDownloads int   `mapstructure:"max_downloads"  rule:"min=1"`
}

// UploadConfig 上传分级策略表.
type UploadConfig struct {
	Public TierPolicy `mapstructure:"public"` // 匿名上传
	User   TierPolicy `mapstructure:"user"`   // 认证用户上传
}

// setDefaults 设置上传策略的默认值.
func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.public.max_size_bytes", DefaultPublicMaxSizeBytes)
	v.SetDefault("upload.public.expiry_days", DefaultPublicExpiryDays)
	v.SetDefault("upload.public.max_downloads", DefaultPublicMaxDownloads)

	v.SetDefault("upload.user.max_size_bytes", DefaultUserMaxSizeBytes)
	v.SetDefault("upload.user.expiry_days", DefaultUserExpiryDays)
	v.SetDefault("upload.user.max_downloads", DefaultUserMaxDownloads)
}
