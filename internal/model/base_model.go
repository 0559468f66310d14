package model

import (
	"time"
)

// BaseModel shared primary key and timestamps
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
