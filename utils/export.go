package utils

import (
	"fmt"
	"strings"

	"internlab/models"

	"github.com/xuri/excelize/v2"
)

const internSheet = "Interns"

var internHeaders = []interface{}{"ID", "Name", "Email", "Phone", "College", "Joined", "Enrollments", "Progress"}

// BuildInternWorkbook renders interns as an xlsx workbook, one row per intern.
// Enrollments must be preloaded with Program and Progress.
func BuildInternWorkbook(interns []models.User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", internSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(internSheet, "A1", &internHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, intern := range interns {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			intern.ID,
			intern.Name,
			intern.Email,
			deref(intern.Phone),
			deref(intern.College),
			intern.CreatedAt.Format("2006-01-02"),
			len(intern.Enrollments),
			enrollmentSummary(intern.Enrollments),
		}
		if err := f.SetSheetRow(internSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write intern %d: %w", intern.ID, err)
		}
	}

	if err := f.SetColWidth(internSheet, "B", "C", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(internSheet, "H", "H", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// enrollmentSummary joins "Program (NN%)" for every enrollment
func enrollmentSummary(enrollments []models.Enrollment) string {
	parts := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		title := fmt.Sprintf("program #%d", e.ProgramID)
		if e.Program != nil {
			title = e.Program.Title
		}
		counts := CountProgress(e.Progress)
		parts = append(parts, fmt.Sprintf("%s (%d%%)", title, Percentage(counts.Completed, counts.Total)))
	}
	return strings.Join(parts, "; ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
