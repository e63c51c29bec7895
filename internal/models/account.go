package models

import "time"

const (
	RoleEmployee = "EMPLOYEE"
	RoleAgent    = "AGENT"
	RoleAdmin    = "ADMIN"
)

// Account holds login state for a user. It lives apart from users so a
// re-import (INSERT OR REPLACE) never wipes passwords or roles.
type Account struct {
	UserID       uint   `gorm:"primaryKey;autoIncrement:false"`
	Role         string `gorm:"size:16;not null;default:EMPLOYEE"`
	PasswordHash string `gorm:"size:255"` // empty: email-only login
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"` // 连续登录失败次数
	LockedUntil         *time.Time `gorm:"index"`     // 账户锁定到期时间
	LastLoginAt         *time.Time
	LastLoginIP         string     `gorm:"size:64"`
}
