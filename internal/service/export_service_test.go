package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type stubRoster struct {
	students []models.Student
	err      error
}

func (s stubRoster) ListAll(ctx context.Context) ([]models.Student, error) {
	return s.students, s.err
}

func newExportService(roster stubRoster) *ExportService {
	svc := NewExportService(roster, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	dob := models.NewDate(time.Date(2001, 4, 12, 0, 0, 0, 0, time.UTC))
	svc := newExportService(stubRoster{students: []models.Student{
		{ID: 1, FullName: "Ada Lovelace", RollNumber: "R-1", City: models.StringPtr("London"), DOB: dob},
	}})

	file, err := svc.Export(context.Background(), "CSV")
	require.NoError(t, err)
	assert.Equal(t, "students_20261016_093000.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Full Name,Roll Number,Email,Gender,Date of Birth,City,Interest,Department,Degree,Subject,Start Date,End Date", lines[0])
	assert.Equal(t, "1,Ada Lovelace,R-1,,,2001-04-12,London,,,,,,", lines[1])
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportService(stubRoster{students: []models.Student{{ID: 1, FullName: "Ada", RollNumber: "R-1"}}})

	file, err := svc.Export(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(stubRoster{})

	_, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestExportServiceRepositoryFailure(t *testing.T) {
	svc := newExportService(stubRoster{err: errors.New("timeout")})

	_, err := svc.Export(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
