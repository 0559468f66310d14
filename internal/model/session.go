package model

import (
	"time"
)

// SessionKeyCurrentUser the single key under which the logged-in session is persisted
const SessionKeyCurrentUser = "user"

// StoredSession persisted "current user" value, survives restarts of the console
type StoredSession struct {
	Key          string    `gorm:"primaryKey;size:64"`
	Identity     string    `gorm:"type:text"` // JSON encoded Identity
	AccessToken  string    `gorm:"type:text"`
	RefreshToken string    `gorm:"type:text"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (StoredSession) TableName() string { return "console_sessions" }
