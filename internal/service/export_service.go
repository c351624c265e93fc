package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const rosterTitle = "Student Roster"

var rosterHeaders = []string{
	"ID", "Full Name", "Roll Number", "Email", "Gender", "Date of Birth", "City",
	"Interest", "Department", "Degree", "Subject", "Start Date", "End Date",
}

type rosterLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered roster ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the student roster as CSV or PDF.
type ExportService struct {
	students  rosterLister
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(students rosterLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		renderers: map[string]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders every student in the requested format.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unsupported export format %q", format))
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to export students")
	}
	payload, err := r.Render(rosterDataset(students), rosterTitle)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to export students")
	}
	s.logger.Info("student roster exported", zap.String("format", format), zap.Int("rows", len(students)))

	return &ExportFile{
		Filename:    fmt.Sprintf("students_%s%s", s.now().UTC().Format("20060102_150405"), r.Extension()),
		ContentType: r.ContentType(),
		Data:        payload,
	}, nil
}

func rosterDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"ID":            strconv.FormatInt(st.ID, 10),
			"Full Name":     st.FullName,
			"Roll Number":   st.RollNumber,
			"Email":         models.StringValue(st.Email),
			"Gender":        models.StringValue(st.Gender),
			"Date of Birth": st.DOB.String(),
			"City":          models.StringValue(st.City),
			"Interest":      models.StringValue(st.Interest),
			"Department":    models.StringValue(st.Department),
			"Degree":        models.StringValue(st.DegreeTitle),
			"Subject":       models.StringValue(st.Subject),
			"Start Date":    st.StartDate.String(),
			"End Date":      st.EndDate.String(),
		})
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}
