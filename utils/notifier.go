package utils

import (
	"context"
	"fmt"
	"time"

	"internlab/config"
	"internlab/logger"
	"internlab/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// Webhook event names
const (
	EventEnrollmentCreated   = "enrollment.created"
	EventEnrollmentCompleted = "enrollment.completed"
)

// EnrollmentEvent is the webhook payload
type EnrollmentEvent struct {
	Event        string    `json:"event"`
	EnrollmentID uint      `json:"enrollmentId"`
	UserID       uint      `json:"userId"`
	ProgramID    uint      `json:"programId"`
	OccurredAt   time.Time `json:"occurredAt"`
}

var webhookClient = resty.New().
	SetTimeout(10*time.Second).
	SetRetryCount(2).
	SetRetryWaitTime(500*time.Millisecond).
	SetHeader("Content-Type", "application/json")

// PostEvent delivers an event to NOTIFY_WEBHOOK_URL. It is a no-op when no URL is configured.
func PostEvent(ctx context.Context, event EnrollmentEvent) error {
	url := config.AppConfig.NotifyWebhookURL
	if url == "" {
		return nil
	}

	resp, err := webhookClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(url)
	if err != nil {
		return fmt.Errorf("post %s: %w", event.Event, err)
	}
	if resp.IsError() {
		return fmt.Errorf("post %s: webhook responded %d", event.Event, resp.StatusCode())
	}
	return nil
}

// PostEventAsync delivers in the background and logs failures
func PostEventAsync(event EnrollmentEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := PostEvent(ctx, event); err != nil {
			logger.Log.Warn("webhook delivery failed", "event", event.Event, "enrollmentId", event.EnrollmentID, "error", err)
		}
	}()
}

// AnnounceEnrollment sends the confirmation email and the enrollment.created event
func AnnounceEnrollment(db *gorm.DB, enrollmentID uint) {
	enrollment, ok := loadForNotification(db, enrollmentID)
	if !ok {
		return
	}
	SendEmailAsync(enrollment.User.Email, enrollment.User.Name,
		EnrollmentEmail(enrollment.User.Name, enrollment.Program.Title, enrollment.ExpiresAt))
	PostEventAsync(newEnrollmentEvent(EventEnrollmentCreated, enrollment))
}

// AnnounceCompletion sends the completion email and the enrollment.completed event
func AnnounceCompletion(db *gorm.DB, enrollmentID uint) {
	enrollment, ok := loadForNotification(db, enrollmentID)
	if !ok {
		return
	}
	SendEmailAsync(enrollment.User.Email, enrollment.User.Name,
		CompletionEmail(enrollment.User.Name, enrollment.Program.Title))
	PostEventAsync(newEnrollmentEvent(EventEnrollmentCompleted, enrollment))
}

func loadForNotification(db *gorm.DB, enrollmentID uint) (models.Enrollment, bool) {
	var enrollment models.Enrollment
	if err := db.Preload("User").Preload("Program").First(&enrollment, enrollmentID).Error; err != nil {
		logger.Log.Warn("notification skipped, enrollment not loaded", "enrollmentId", enrollmentID, "error", err)
		return enrollment, false
	}
	if enrollment.User == nil || enrollment.Program == nil {
		return enrollment, false
	}
	return enrollment, true
}

func newEnrollmentEvent(event string, enrollment models.Enrollment) EnrollmentEvent {
	return EnrollmentEvent{
		Event:        event,
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		ProgramID:    enrollment.ProgramID,
		OccurredAt:   time.Now().UTC(),
	}
}
