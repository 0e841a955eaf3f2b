package model

import (
	"time"
)

// User 认证用户.
// 身份由上游网关（oauth2-proxy 等）注入的用户名决定，这里只做落库记录.
type User struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex"    json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
