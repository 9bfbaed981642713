package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking is written on every successful login
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"userId"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
