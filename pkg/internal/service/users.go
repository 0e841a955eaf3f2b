package service

import (
	"context"

	"github.com/yeisme/proximashare/pkg/internal/model"
)

// ResolveUser 按用户名取出用户，不存在时创建.
// 身份由上游网关保证，这里只负责落库以获得稳定的用户 ID.
func (s *FileService) ResolveUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User

	err := s.dbClient.GetDB().WithContext(ctx).
		Where(model.User{Username: username}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, &StorageError{Op: "resolve user", Err: err}
	}

	return &user, nil
}
