package utils

import (
	"testing"
	"time"

	"internlab/config"
	"internlab/models"
	"internlab/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendExpiryReminders(t *testing.T) {
	db := testutil.Setup(t)
	current := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	program, _ := seedProgram(t, db, 1)

	mk := func(email, status string, expiresAt time.Time) models.Enrollment {
		user := testutil.CreateUser(t, db, "Intern", email, models.RoleIntern)
		e := models.Enrollment{UserID: user.ID, ProgramID: program.ID, Status: status, EnrolledAt: current.AddDate(0, 0, -20), ExpiresAt: expiresAt}
		require.NoError(t, db.Create(&e).Error)
		return e
	}

	soon := mk("soon@example.com", models.EnrollmentActive, current.Add(24*time.Hour))
	extended := mk("ext@example.com", models.EnrollmentExtended, current.Add(47*time.Hour))
	later := mk("later@example.com", models.EnrollmentActive, current.AddDate(0, 0, 10))
	done := mk("done@example.com", models.EnrollmentCompleted, current.Add(24*time.Hour))
	past := mk("past@example.com", models.EnrollmentActive, current.Add(-time.Hour))

	sent, err := SendExpiryReminders(current)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	stamped := func(id uint) bool {
		var e models.Enrollment
		require.NoError(t, db.First(&e, id).Error)
		return e.ReminderSentAt != nil
	}
	assert.True(t, stamped(soon.ID))
	assert.True(t, stamped(extended.ID))
	assert.False(t, stamped(later.ID))
	assert.False(t, stamped(done.ID))
	assert.False(t, stamped(past.ID))

	// a second run does not remind again
	sent, err = SendExpiryReminders(current.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendExpiryReminders_Window(t *testing.T) {
	db := testutil.Setup(t)
	config.AppConfig.ReminderWindowDays = 5
	current := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	program, _ := seedProgram(t, db, 0)

	user := testutil.CreateUser(t, db, "Intern", "intern@example.com", models.RoleIntern)
	e := models.Enrollment{UserID: user.ID, ProgramID: program.ID, Status: models.EnrollmentActive, EnrolledAt: current, ExpiresAt: current.AddDate(0, 0, 4)}
	require.NoError(t, db.Create(&e).Error)

	sent, err := SendExpiryReminders(current)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestPurgeExpiredInvites(t *testing.T) {
	db := testutil.Setup(t)
	current := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	program, _ := seedProgram(t, db, 0)

	seedInvite(t, db, "STALE2", program.ID, current.Add(-time.Hour))
	seedInvite(t, db, "FRESH2", program.ID, current.Add(time.Hour))
	used := seedInvite(t, db, "USED22", program.ID, current.Add(-time.Hour))
	require.NoError(t, db.Model(&used).Update("used", true).Error)

	purged, err := PurgeExpiredInvites(current)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var codes []string
	require.NoError(t, db.Unscoped().Model(&models.InviteCode{}).Order("code").Pluck("code", &codes).Error)
	assert.Equal(t, []string{"FRESH2", "USED22"}, codes)
}

func TestInitializeEnrollmentScheduler(t *testing.T) {
	testutil.Setup(t)

	c, err := InitializeEnrollmentScheduler()
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()

	config.AppConfig.SchedulerSpec = "not a spec"
	_, err = InitializeEnrollmentScheduler()
	assert.Error(t, err)
}
