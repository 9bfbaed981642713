package models

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus enum values
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentExtended  = "EXTENDED"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment links an intern to a program. One per (user, program).
type Enrollment struct {
	gorm.Model
	UserID         uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_program" json:"userId"`
	ProgramID      uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_program;index" json:"programId"`
	Status         string     `gorm:"size:16;default:'ACTIVE';index" json:"status"`
	EnrolledAt     time.Time  `gorm:"not null" json:"enrolledAt"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expiresAt"`
	ExtensionDays  int        `gorm:"default:0" json:"extensionDays"`
	CompletedAt    *time.Time `json:"completedAt"`
	CertificateURL *string    `json:"certificateUrl"`
	ReminderSentAt *time.Time `json:"-"`

	User     *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Program  *Program       `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	Progress []UserProgress `gorm:"foreignKey:EnrollmentID" json:"progress,omitempty"`
}

// IsOpen reports whether the enrollment still counts as running
func (e *Enrollment) IsOpen() bool {
	return e.Status == EnrollmentActive || e.Status == EnrollmentExtended
}
