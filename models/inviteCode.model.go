package models

import (
	"time"

	"gorm.io/gorm"
)

// InviteCode grants a single enrollment into a program
type InviteCode struct {
	gorm.Model
	Code        string     `gorm:"uniqueIndex;size:16;not null" json:"code"`
	ProgramID   uint       `gorm:"not null;index" json:"programId"`
	CreatedByID uint       `json:"createdById"`
	ExpiresAt   time.Time  `gorm:"not null;index" json:"expiresAt"`
	Used        bool       `gorm:"default:false" json:"used"`
	UsedByID    *uint      `json:"usedById"`
	UsedAt      *time.Time `json:"usedAt"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// IsExpired reports whether the code can no longer be redeemed at t
func (i *InviteCode) IsExpired(t time.Time) bool {
	return t.After(i.ExpiresAt)
}
