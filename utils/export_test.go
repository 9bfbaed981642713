package utils

import (
	"bytes"
	"testing"
	"time"

	"internlab/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func TestBuildInternWorkbook(t *testing.T) {
	college := "IIT"
	interns := []models.User{
		{
			Model:   gorm.Model{ID: 4, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			Name:    "Asha",
			Email:   "asha@example.com",
			College: &college,
			Enrollments: []models.Enrollment{
				{ProgramID: 1, Program: &models.Program{Title: "Backend"}, Progress: rows(models.ProgressCompleted, models.ProgressNotStarted)},
				{ProgramID: 9},
			},
		},
		{Model: gorm.Model{ID: 5}, Name: "Ravi", Email: "ravi@example.com"},
	}

	raw, err := BuildInternWorkbook(interns)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheetRows, err := f.GetRows(internSheet)
	require.NoError(t, err)
	require.Len(t, sheetRows, 3)
	assert.Equal(t, "Email", sheetRows[0][2])
	assert.Equal(t, "asha@example.com", sheetRows[1][2])
	assert.Equal(t, "IIT", sheetRows[1][4])
	assert.Equal(t, "2", sheetRows[1][6])
	assert.Equal(t, "Backend (50%); program #9 (0%)", sheetRows[1][7])
	assert.Equal(t, "Ravi", sheetRows[2][1])
}
