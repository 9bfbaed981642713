package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressStatus enum values
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// UserProgress tracks one task inside one enrollment
type UserProgress struct {
	gorm.Model
	EnrollmentID  uint       `gorm:"not null;uniqueIndex:idx_progress_enrollment_task" json:"enrollmentId"`
	TaskID        uint       `gorm:"not null;uniqueIndex:idx_progress_enrollment_task;index" json:"taskId"`
	Status        string     `gorm:"size:16;default:'NOT_STARTED';index" json:"status"`
	SubmissionURL *string    `json:"submissionUrl"`
	Grade         *string    `gorm:"size:32" json:"grade"`
	Feedback      *string    `gorm:"type:text" json:"feedback"`
	GradedByID    *uint      `json:"gradedById"`
	GradedAt      *time.Time `json:"gradedAt"`
	StartedAt     *time.Time `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt"`

	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (UserProgress) TableName() string { return "user_progress" }
