package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"internlab/database"
	"internlab/models"

	"gorm.io/gorm"
)

// StatsCacheKey holds the cached admin dashboard
const StatsCacheKey = "internlab:admin:stats"

var (
	ErrInviteInvalid   = errors.New("invite code not found")
	ErrInviteUsed      = errors.New("invite code already used")
	ErrInviteExpired   = errors.New("invite code expired")
	ErrProgramNotFound = errors.New("program not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in program")
)

// RedeemInvite enrolls userID into the program behind code. The enrollment, its seeded
// progress rows and the used flag on the invite are written in one transaction.
func RedeemInvite(db *gorm.DB, userID uint, code string, t time.Time) (*models.Enrollment, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInviteInvalid
	}

	var enrollment models.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var invite models.InviteCode
		if err := tx.Where("code = ?", code).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteInvalid
			}
			return err
		}
		if invite.Used {
			return ErrInviteUsed
		}
		if invite.IsExpired(t) {
			return ErrInviteExpired
		}

		var program models.Program
		if err := tx.First(&program, invite.ProgramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgramNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND program_id = ?", userID, program.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyEnrolled
		}

		enrollment = models.Enrollment{
			UserID:     userID,
			ProgramID:  program.ID,
			Status:     models.EnrollmentActive,
			EnrolledAt: t,
			ExpiresAt:  t.AddDate(0, 0, program.DurationDays),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}

		if err := SeedProgressForEnrollment(tx, enrollment.ID, program.ID); err != nil {
			return err
		}

		// guard against two requests redeeming the same code at once
		res := tx.Model(&models.InviteCode{}).
			Where("id = ? AND used = ?", invite.ID, false).
			Updates(map[string]interface{}{"used": true, "used_by_id": userID, "used_at": t})
		if res.Error != nil {
			return fmt.Errorf("mark invite used: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInviteUsed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// SeedProgressForEnrollment creates a NOT_STARTED row for every task of the program
func SeedProgressForEnrollment(tx *gorm.DB, enrollmentID, programID uint) error {
	var taskIDs []uint
	if err := tx.Model(&models.Task{}).Where("program_id = ?", programID).Pluck("id", &taskIDs).Error; err != nil {
		return fmt.Errorf("load program tasks: %w", err)
	}
	if len(taskIDs) == 0 {
		return nil
	}

	rows := make([]models.UserProgress, len(taskIDs))
	for i, taskID := range taskIDs {
		rows[i] = models.UserProgress{EnrollmentID: enrollmentID, TaskID: taskID, Status: models.ProgressNotStarted}
	}
	if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("seed progress: %w", err)
	}
	return nil
}

// SeedProgressForTask adds a NOT_STARTED row for the task to every enrollment of its program
// and reopens enrollments that were completed before the task existed.
func SeedProgressForTask(tx *gorm.DB, task models.Task, t time.Time) error {
	var enrollmentIDs []uint
	if err := tx.Model(&models.Enrollment{}).Where("program_id = ?", task.ProgramID).Pluck("id", &enrollmentIDs).Error; err != nil {
		return fmt.Errorf("load program enrollments: %w", err)
	}
	if len(enrollmentIDs) == 0 {
		return nil
	}

	rows := make([]models.UserProgress, len(enrollmentIDs))
	for i, enrollmentID := range enrollmentIDs {
		rows[i] = models.UserProgress{EnrollmentID: enrollmentID, TaskID: task.ID, Status: models.ProgressNotStarted}
	}
	if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("seed progress: %w", err)
	}

	for _, enrollmentID := range enrollmentIDs {
		if _, _, err := RecalculateEnrollment(tx, enrollmentID, t); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTaskProgress deletes the task's progress rows and re-evaluates the enrollments that had them
func RemoveTaskProgress(tx *gorm.DB, taskID uint, t time.Time) ([]uint, error) {
	var enrollmentIDs []uint
	if err := tx.Model(&models.UserProgress{}).Where("task_id = ?", taskID).Pluck("enrollment_id", &enrollmentIDs).Error; err != nil {
		return nil, fmt.Errorf("load task progress: %w", err)
	}
	if err := tx.Unscoped().Where("task_id = ?", taskID).Delete(&models.UserProgress{}).Error; err != nil {
		return nil, fmt.Errorf("delete task progress: %w", err)
	}

	var completed []uint
	for _, enrollmentID := range enrollmentIDs {
		before, after, err := RecalculateEnrollment(tx, enrollmentID, t)
		if err != nil {
			return nil, err
		}
		if before != models.EnrollmentCompleted && after == models.EnrollmentCompleted {
			completed = append(completed, enrollmentID)
		}
	}
	return completed, nil
}

// RecalculateEnrollment applies ResolveEnrollmentStatus and persists a status change.
// It returns the status before and after.
func RecalculateEnrollment(tx *gorm.DB, enrollmentID uint, t time.Time) (string, string, error) {
	var enrollment models.Enrollment
	if err := tx.Preload("Progress").First(&enrollment, enrollmentID).Error; err != nil {
		return "", "", fmt.Errorf("load enrollment %d: %w", enrollmentID, err)
	}

	before := enrollment.Status
	after := ResolveEnrollmentStatus(enrollment, CountProgress(enrollment.Progress))
	if before == after {
		return before, after, nil
	}

	updates := map[string]interface{}{"status": after}
	if after == models.EnrollmentCompleted {
		updates["completed_at"] = t
	} else {
		updates["completed_at"] = nil
	}
	if err := tx.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).Updates(updates).Error; err != nil {
		return "", "", fmt.Errorf("update enrollment %d: %w", enrollmentID, err)
	}
	return before, after, nil
}

// InvalidateStats drops the cached dashboard after writes that change it
func InvalidateStats(ctx context.Context) {
	database.CacheDelete(ctx, StatsCacheKey)
}
