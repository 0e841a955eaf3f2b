package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeisme/proximashare/pkg/internal/model"
)

// maxIDAttempts ID 碰撞时的重试上限，正常情况下一次即可成功.
const maxIDAttempts = 1000

// allocateID 生成一个数据库中尚不存在的文件 ID.
func (s *FileService) allocateID(ctx context.Context) (string, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	for range maxIDAttempts {
		id := s.newID()

		var count int64
		if err := dbx.Model(&model.FileRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", &StorageError{Op: "check id", Err: err}
		}

		if count == 0 {
			return id, nil
		}
	}

	return "", ErrAllocationExhausted
}

// blobKeyFor 构造 blob 对象键：文件 ID 加上原始文件名的扩展名.
// 扩展名中出现路径分隔符时视为无扩展名，避免污染对象键.
func blobKeyFor(id, fileName string) string {
	ext := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i:]
	}

	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}

	return fmt.Sprintf("%s%s", id, ext)
}

// normalizeFileName 空白文件名落库为 "unknown".
func normalizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unknown"
	}

	return name
}
