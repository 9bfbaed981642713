package utils

import (
	"testing"
	"time"

	"internlab/models"
	"internlab/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProgram(t *testing.T, db *gorm.DB, taskCount int) (models.Program, []models.Task) {
	t.Helper()
	program := models.Program{Title: "Backend Track", DurationDays: 30}
	require.NoError(t, db.Create(&program).Error)

	tasks := make([]models.Task, taskCount)
	for i := range tasks {
		tasks[i] = models.Task{ProgramID: program.ID, Title: "Task", Type: models.TaskTypeReading, Mandatory: true, OrderIndex: i}
		require.NoError(t, db.Create(&tasks[i]).Error)
	}
	return program, tasks
}

func seedInvite(t *testing.T, db *gorm.DB, code string, programID uint, expiresAt time.Time) models.InviteCode {
	t.Helper()
	invite := models.InviteCode{Code: code, ProgramID: programID, ExpiresAt: expiresAt}
	require.NoError(t, db.Create(&invite).Error)
	return invite
}

func TestRedeemInvite(t *testing.T) {
	db := testutil.Setup(t)
	intern := testutil.CreateUser(t, db, "Asha", "asha@example.com", models.RoleIntern)
	program, _ := seedProgram(t, db, 2)
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	invite := seedInvite(t, db, "ABC234", program.ID, current.Add(24*time.Hour))

	enrollment, err := RedeemInvite(db, intern.ID, "  abc234 ", current)
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, program.ID, enrollment.ProgramID)
	assert.True(t, enrollment.ExpiresAt.Equal(current.AddDate(0, 0, 30)))

	var progress []models.UserProgress
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).Find(&progress).Error)
	require.Len(t, progress, 2)
	for _, p := range progress {
		assert.Equal(t, models.ProgressNotStarted, p.Status)
	}

	require.NoError(t, db.First(&invite, invite.ID).Error)
	assert.True(t, invite.Used)
	require.NotNil(t, invite.UsedByID)
	assert.Equal(t, intern.ID, *invite.UsedByID)

	// single use
	other := testutil.CreateUser(t, db, "Ravi", "ravi@example.com", models.RoleIntern)
	_, err = RedeemInvite(db, other.ID, "ABC234", current)
	assert.ErrorIs(t, err, ErrInviteUsed)
}

func TestRedeemInvite_Rejections(t *testing.T) {
	db := testutil.Setup(t)
	intern := testutil.CreateUser(t, db, "Asha", "asha@example.com", models.RoleIntern)
	program, _ := seedProgram(t, db, 1)
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := RedeemInvite(db, intern.ID, "", current)
	assert.ErrorIs(t, err, ErrInviteInvalid)

	_, err = RedeemInvite(db, intern.ID, "NOPE22", current)
	assert.ErrorIs(t, err, ErrInviteInvalid)

	seedInvite(t, db, "OLD234", program.ID, current.Add(-time.Minute))
	_, err = RedeemInvite(db, intern.ID, "OLD234", current)
	assert.ErrorIs(t, err, ErrInviteExpired)

	orphan := models.Program{Title: "Gone", DurationDays: 5}
	require.NoError(t, db.Create(&orphan).Error)
	seedInvite(t, db, "GONE23", orphan.ID, current.Add(time.Hour))
	require.NoError(t, db.Delete(&orphan).Error)
	_, err = RedeemInvite(db, intern.ID, "GONE23", current)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestRedeemInvite_AlreadyEnrolledRollsBack(t *testing.T) {
	db := testutil.Setup(t)
	intern := testutil.CreateUser(t, db, "Asha", "asha@example.com", models.RoleIntern)
	program, _ := seedProgram(t, db, 1)
	current := time.Now()

	seedInvite(t, db, "FIRST2", program.ID, current.Add(time.Hour))
	second := seedInvite(t, db, "SECND2", program.ID, current.Add(time.Hour))

	_, err := RedeemInvite(db, intern.ID, "FIRST2", current)
	require.NoError(t, err)

	_, err = RedeemInvite(db, intern.ID, "SECND2", current)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	require.NoError(t, db.First(&second, second.ID).Error)
	assert.False(t, second.Used)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ?", intern.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedProgressForTask_ReopensCompleted(t *testing.T) {
	db := testutil.Setup(t)
	intern := testutil.CreateUser(t, db, "Asha", "asha@example.com", models.RoleIntern)
	program, tasks := seedProgram(t, db, 1)
	current := time.Now()

	seedInvite(t, db, "REOPEN", program.ID, current.Add(time.Hour))
	enrollment, err := RedeemInvite(db, intern.ID, "REOPEN", current)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("enrollment_id = ? AND task_id = ?", enrollment.ID, tasks[0].ID).
		Update("status", models.ProgressCompleted).Error)
	before, after, err := RecalculateEnrollment(db, enrollment.ID, current)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, before)
	assert.Equal(t, models.EnrollmentCompleted, after)

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	require.NotNil(t, reloaded.CompletedAt)

	extra := models.Task{ProgramID: program.ID, Title: "Extra", Type: models.TaskTypeQuiz, Mandatory: true}
	require.NoError(t, db.Create(&extra).Error)
	require.NoError(t, SeedProgressForTask(db, extra, current))

	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentActive, reloaded.Status)
	assert.Nil(t, reloaded.CompletedAt)

	var rowCount int64
	db.Model(&models.UserProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&rowCount)
	assert.Equal(t, int64(2), rowCount)
}

func TestRemoveTaskProgress_CompletesEnrollment(t *testing.T) {
	db := testutil.Setup(t)
	intern := testutil.CreateUser(t, db, "Asha", "asha@example.com", models.RoleIntern)
	program, tasks := seedProgram(t, db, 2)
	current := time.Now()

	seedInvite(t, db, "REMOVE", program.ID, current.Add(time.Hour))
	enrollment, err := RedeemInvite(db, intern.ID, "REMOVE", current)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("enrollment_id = ? AND task_id = ?", enrollment.ID, tasks[0].ID).
		Update("status", models.ProgressCompleted).Error)

	completed, err := RemoveTaskProgress(db, tasks[1].ID, current)
	require.NoError(t, err)
	assert.Equal(t, []uint{enrollment.ID}, completed)

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, reloaded.Status)

	var rowCount int64
	db.Unscoped().Model(&models.UserProgress{}).Where("task_id = ?", tasks[1].ID).Count(&rowCount)
	assert.Zero(t, rowCount)
}
