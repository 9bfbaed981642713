package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleAdmin  = "ADMIN"
	RoleMentor = "MENTOR"
	RoleIntern = "INTERN"
)

type User struct {
	gorm.Model
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                string     `gorm:"size:16;default:'INTERN';index" json:"role"` // ADMIN, MENTOR, INTERN
	Phone               *string    `gorm:"size:32" json:"phone"`
	College             *string    `json:"college"`
	Duration            *int       `json:"duration"` // preferred internship length in days
	Interests           *string    `gorm:"type:text" json:"interests"`
	LastLogin           *time.Time `json:"lastLogin"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"-"`
	BlockedUntil        *time.Time `json:"-"`

	Enrollments []Enrollment `gorm:"foreignKey:UserID" json:"enrollments,omitempty"`
}

// IsStaff reports whether the user can manage program content
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleMentor
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMentor, RoleIntern:
		return true
	}
	return false
}
