package utils

import (
	"fmt"
	"time"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
	"internlab/models"

	"github.com/robfig/cron/v3"
)

// InitializeEnrollmentScheduler registers the daily enrollment job and starts the cron runner.
// The caller stops the returned runner on shutdown.
func InitializeEnrollmentScheduler() (*cron.Cron, error) {
	spec := config.AppConfig.SchedulerSpec
	logger.Log.Info("[ENROLLMENT-SCHEDULER] initializing", "spec", spec)

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RunEnrollmentJobs(time.Now()) }); err != nil {
		return nil, fmt.Errorf("schedule enrollment jobs %q: %w", spec, err)
	}

	c.Start()
	logger.Log.Info("[ENROLLMENT-SCHEDULER] started")
	return c, nil
}

// RunEnrollmentJobs runs every scheduled job once
func RunEnrollmentJobs(t time.Time) {
	logger.Log.Info("[ENROLLMENT-SCHEDULER] running daily enrollment check")
	if _, err := SendExpiryReminders(t); err != nil {
		logger.Log.Error("[ENROLLMENT-SCHEDULER] reminders failed", "error", err)
	}
	if _, err := PurgeExpiredInvites(t); err != nil {
		logger.Log.Error("[ENROLLMENT-SCHEDULER] invite purge failed", "error", err)
	}
}

// SendExpiryReminders emails interns whose open enrollment expires within the reminder window
// and stamps reminder_sent_at. It returns how many reminders were sent.
func SendExpiryReminders(t time.Time) (int, error) {
	db := database.Database.Db
	windowEnd := t.AddDate(0, 0, config.AppConfig.ReminderWindowDays)

	var expiring []models.Enrollment
	if err := db.
		Where("status IN ? AND reminder_sent_at IS NULL", []string{models.EnrollmentActive, models.EnrollmentExtended}).
		Where("expires_at BETWEEN ? AND ?", t, windowEnd).
		Preload("User").
		Preload("Program").
		Find(&expiring).Error; err != nil {
		return 0, fmt.Errorf("load expiring enrollments: %w", err)
	}

	logger.Log.Info("[ENROLLMENT-SCHEDULER] enrollments expiring soon", "count", len(expiring))

	sent := 0
	for _, enrollment := range expiring {
		if enrollment.User == nil || enrollment.Program == nil {
			logger.Log.Warn("[ENROLLMENT-SCHEDULER] enrollment without user or program", "enrollmentId", enrollment.ID)
			continue
		}

		content := ExpiryReminderEmail(enrollment.User.Name, enrollment.Program.Title, enrollment.ExpiresAt)
		if err := SendEmail(enrollment.User.Email, enrollment.User.Name, content); err != nil {
			logger.Log.Error("[ENROLLMENT-SCHEDULER] reminder failed", "enrollmentId", enrollment.ID, "error", err)
			continue
		}

		if err := db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Update("reminder_sent_at", t).Error; err != nil {
			return sent, fmt.Errorf("stamp reminder for enrollment %d: %w", enrollment.ID, err)
		}
		sent++
	}
	return sent, nil
}

// PurgeExpiredInvites deletes unused invite codes past their expiry
func PurgeExpiredInvites(t time.Time) (int64, error) {
	result := database.Database.Db.Unscoped().
		Where("used = ? AND expires_at < ?", false, t).
		Delete(&models.InviteCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge expired invites: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Log.Info("[ENROLLMENT-SCHEDULER] purged expired invites", "count", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
