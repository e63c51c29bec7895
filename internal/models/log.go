package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records mutating API calls. Details holds the request path and
// a body digest, AES encrypted when an encryption key is configured.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Details   datatypes.JSON `gorm:"column:details_json" json:"details"`
	IP        string         `gorm:"size:64" json:"ip"`
	UserAgent string         `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
