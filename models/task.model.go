package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskType enum values
const (
	TaskTypeVideo   = "VIDEO"
	TaskTypeReading = "READING"
	TaskTypeQuiz    = "QUIZ"
)

// Task is an ordered unit of work inside a program
type Task struct {
	gorm.Model
	ProgramID   uint       `gorm:"not null;index" json:"programId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"size:16;not null" json:"type"`
	ContentURL  string     `json:"contentUrl"`
	Mandatory   bool       `json:"mandatory"`
	Deadline    *time.Time `json:"deadline"`
	OrderIndex  int        `gorm:"default:0" json:"orderIndex"`
	CreatedByID uint       `json:"createdById"`
}
