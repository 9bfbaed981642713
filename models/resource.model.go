package models

import "gorm.io/gorm"

// Resource is a shared link visible to every signed-in user
type Resource struct {
	gorm.Model
	Title       string  `gorm:"not null" json:"title"`
	URL         string  `gorm:"not null" json:"url"`
	Description *string `gorm:"type:text" json:"description"`
	Category    *string `gorm:"size:64;index" json:"category"`
	CreatedByID uint    `gorm:"index" json:"createdById"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}
