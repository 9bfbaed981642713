package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Program is an internship track interns enroll into
type Program struct {
	gorm.Model
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Domain       string         `gorm:"size:128" json:"domain"`
	DurationDays int            `gorm:"not null" json:"durationDays"`
	StartDate    datatypes.Date `json:"startDate"`
	EndDate      datatypes.Date `json:"endDate"`
	CreatedByID  uint           `gorm:"index" json:"createdById"`

	CreatedBy *User  `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Tasks     []Task `gorm:"foreignKey:ProgramID" json:"tasks,omitempty"`
}
