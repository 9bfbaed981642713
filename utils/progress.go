package utils

import (
	"math"
	"time"

	"internlab/models"

	"github.com/jinzhu/now"
)

// Progress buckets used on the admin dashboard
const (
	BucketYetToStart = "YET_TO_START"
	BucketInProgress = "IN_PROGRESS"
	BucketCompleted  = "COMPLETED"
)

// ProgressCounts tallies progress rows by status
type ProgressCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`
}

// DashboardSummary is the enrollment part of the admin dashboard
type DashboardSummary struct {
	TotalEnrollments       int `json:"totalEnrollments"`
	ActiveEnrollments      int `json:"activeEnrollments"`
	YetToStart             int `json:"yetToStart"`
	InProgress             int `json:"inProgress"`
	Completed              int `json:"completed"`
	AvgProgress            int `json:"avgProgress"`
	AvgTimeSpent           int `json:"avgTimeSpent"` // days
	NewEnrollmentsThisWeek int `json:"newEnrollmentsThisWeek"`
}

func CountProgress(rows []models.UserProgress) ProgressCounts {
	counts := ProgressCounts{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case models.ProgressCompleted:
			counts.Completed++
		case models.ProgressInProgress:
			counts.InProgress++
		default:
			counts.NotStarted++
		}
	}
	return counts
}

// Percentage returns done/total as a whole percent, rounded half up
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Bucket classifies an enrollment by its progress rows
func Bucket(counts ProgressCounts) string {
	switch {
	case counts.Total == 0 || counts.NotStarted == counts.Total:
		return BucketYetToStart
	case counts.Completed == counts.Total:
		return BucketCompleted
	default:
		return BucketInProgress
	}
}

// DaysSpent counts whole days from enrollment to the last completion, or to t while work remains.
// The result is never below one.
func DaysSpent(enrolledAt time.Time, rows []models.UserProgress, t time.Time) int {
	end := t
	counts := CountProgress(rows)
	if counts.Total > 0 && counts.Completed == counts.Total {
		var latest *time.Time
		for i := range rows {
			if rows[i].CompletedAt != nil && (latest == nil || rows[i].CompletedAt.After(*latest)) {
				latest = rows[i].CompletedAt
			}
		}
		if latest != nil {
			end = *latest
		}
	}

	days := int(math.Round(end.Sub(enrolledAt).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// ResolveEnrollmentStatus returns the status an enrollment should have given its progress.
// It is COMPLETED iff there is at least one row and every row is completed.
func ResolveEnrollmentStatus(enrollment models.Enrollment, counts ProgressCounts) string {
	if counts.Total > 0 && counts.Completed == counts.Total {
		return models.EnrollmentCompleted
	}
	if enrollment.Status != models.EnrollmentCompleted {
		return enrollment.Status
	}
	if enrollment.ExtensionDays > 0 {
		return models.EnrollmentExtended
	}
	return models.EnrollmentActive
}

// SummarizeDashboard aggregates enrollments, which must have Progress preloaded
func SummarizeDashboard(enrollments []models.Enrollment, t time.Time) DashboardSummary {
	summary := DashboardSummary{TotalEnrollments: len(enrollments)}
	weekStart := now.With(t).BeginningOfWeek()

	var totalPct, withTasks, totalDays int
	for _, e := range enrollments {
		if e.IsOpen() {
			summary.ActiveEnrollments++
		}
		if !e.EnrolledAt.Before(weekStart) {
			summary.NewEnrollmentsThisWeek++
		}

		counts := CountProgress(e.Progress)
		switch Bucket(counts) {
		case BucketYetToStart:
			summary.YetToStart++
		case BucketCompleted:
			summary.Completed++
		default:
			summary.InProgress++
		}
		if counts.Total == 0 {
			continue
		}

		totalPct += Percentage(counts.Completed, counts.Total)
		withTasks++
		totalDays += DaysSpent(e.EnrolledAt, e.Progress, t)
	}

	if withTasks > 0 {
		summary.AvgProgress = int(math.Round(float64(totalPct) / float64(withTasks)))
	}
	if summary.TotalEnrollments > 0 {
		summary.AvgTimeSpent = int(math.Round(float64(totalDays) / float64(summary.TotalEnrollments)))
	}
	return summary
}
