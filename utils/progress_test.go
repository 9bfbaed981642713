package utils

import (
	"testing"
	"time"

	"internlab/models"

	"github.com/stretchr/testify/assert"
)

func rows(statuses ...string) []models.UserProgress {
	out := make([]models.UserProgress, len(statuses))
	for i, s := range statuses {
		out[i] = models.UserProgress{Status: s}
	}
	return out
}

func TestCountProgress(t *testing.T) {
	c := CountProgress(rows(models.ProgressCompleted, models.ProgressInProgress, models.ProgressNotStarted, models.ProgressCompleted))
	assert.Equal(t, ProgressCounts{Total: 4, Completed: 2, InProgress: 1, NotStarted: 1}, c)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{3, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.done, tt.total), "%d/%d", tt.done, tt.total)
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketYetToStart, Bucket(CountProgress(nil)))
	assert.Equal(t, BucketYetToStart, Bucket(CountProgress(rows(models.ProgressNotStarted, models.ProgressNotStarted))))
	assert.Equal(t, BucketInProgress, Bucket(CountProgress(rows(models.ProgressNotStarted, models.ProgressInProgress))))
	assert.Equal(t, BucketInProgress, Bucket(CountProgress(rows(models.ProgressCompleted, models.ProgressNotStarted))))
	assert.Equal(t, BucketCompleted, Bucket(CountProgress(rows(models.ProgressCompleted, models.ProgressCompleted))))
}

func TestDaysSpent(t *testing.T) {
	enrolled := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := enrolled.Add(10 * 24 * time.Hour)

	// unfinished work counts up to now
	assert.Equal(t, 10, DaysSpent(enrolled, rows(models.ProgressCompleted, models.ProgressNotStarted), current))

	// finished work stops at the latest completion
	first := enrolled.Add(2 * 24 * time.Hour)
	last := enrolled.Add(4*24*time.Hour + 13*time.Hour)
	done := []models.UserProgress{
		{Status: models.ProgressCompleted, CompletedAt: &first},
		{Status: models.ProgressCompleted, CompletedAt: &last},
	}
	assert.Equal(t, 5, DaysSpent(enrolled, done, current))

	// same-day completion still counts one day
	sameDay := enrolled.Add(time.Hour)
	assert.Equal(t, 1, DaysSpent(enrolled, []models.UserProgress{{Status: models.ProgressCompleted, CompletedAt: &sameDay}}, current))

	// all completed without timestamps falls back to now
	assert.Equal(t, 10, DaysSpent(enrolled, rows(models.ProgressCompleted), current))
}

func TestResolveEnrollmentStatus(t *testing.T) {
	active := models.Enrollment{Status: models.EnrollmentActive}
	extended := models.Enrollment{Status: models.EnrollmentExtended, ExtensionDays: 5}
	completed := models.Enrollment{Status: models.EnrollmentCompleted}
	completedExtended := models.Enrollment{Status: models.EnrollmentCompleted, ExtensionDays: 3}

	allDone := CountProgress(rows(models.ProgressCompleted, models.ProgressCompleted))
	partial := CountProgress(rows(models.ProgressCompleted, models.ProgressNotStarted))
	none := CountProgress(nil)

	assert.Equal(t, models.EnrollmentCompleted, ResolveEnrollmentStatus(active, allDone))
	assert.Equal(t, models.EnrollmentCompleted, ResolveEnrollmentStatus(extended, allDone))
	assert.Equal(t, models.EnrollmentActive, ResolveEnrollmentStatus(active, partial))
	assert.Equal(t, models.EnrollmentExtended, ResolveEnrollmentStatus(extended, partial))
	assert.Equal(t, models.EnrollmentActive, ResolveEnrollmentStatus(active, none))

	// a completed enrollment reopens when a task is added
	assert.Equal(t, models.EnrollmentActive, ResolveEnrollmentStatus(completed, partial))
	assert.Equal(t, models.EnrollmentExtended, ResolveEnrollmentStatus(completedExtended, partial))
}

func TestSummarizeDashboard(t *testing.T) {
	// Wednesday, so the week began on Sunday 2026-03-01
	current := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	oldEnroll := current.Add(-20 * 24 * time.Hour)
	done := current.Add(-14 * 24 * time.Hour)

	enrollments := []models.Enrollment{
		{Status: models.EnrollmentActive, EnrolledAt: current.Add(-24 * time.Hour)}, // no tasks
		{Status: models.EnrollmentActive, EnrolledAt: oldEnroll, Progress: rows(models.ProgressNotStarted, models.ProgressNotStarted)},
		{Status: models.EnrollmentExtended, EnrolledAt: oldEnroll, Progress: rows(models.ProgressCompleted, models.ProgressInProgress)},
		{Status: models.EnrollmentCompleted, EnrolledAt: oldEnroll, Progress: []models.UserProgress{
			{Status: models.ProgressCompleted, CompletedAt: &done},
		}},
	}

	s := SummarizeDashboard(enrollments, current)

	assert.Equal(t, 4, s.TotalEnrollments)
	assert.Equal(t, 3, s.ActiveEnrollments)
	assert.Equal(t, 2, s.YetToStart)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.Completed)
	// (0 + 50 + 100) / 3
	assert.Equal(t, 50, s.AvgProgress)
	// (20 + 20 + 6) / 4 enrollments
	assert.Equal(t, 12, s.AvgTimeSpent)
	assert.Equal(t, 1, s.NewEnrollmentsThisWeek)
}

func TestSummarizeDashboard_Empty(t *testing.T) {
	assert.Equal(t, DashboardSummary{}, SummarizeDashboard(nil, time.Now()))
}
