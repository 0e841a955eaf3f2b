package service

import (
	"github.com/yeisme/proximashare/pkg/configs"
	"github.com/yeisme/proximashare/pkg/internal/types"
)

// Limits 返回当前配置的分级上传限制，供公共配置接口使用.
func (s *FileService) Limits() types.LimitsResponse {
	p := s.policies()

	return types.LimitsResponse{
		Public: tierLimits(p.Public),
		User:   tierLimits(p.User),
	}
}

func tierLimits(t configs.TierPolicy) types.TierLimits {
	return types.TierLimits{
		MaxSizeBytes: t.MaxSizeBytes,
		ExpiryDays:   t.ExpiryDays,
		MaxDownloads: t.MaxDownloads,
	}
}
