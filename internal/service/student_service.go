package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, page, size int) ([]models.Student, int, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type photoSaver interface {
	Save(header *multipart.FileHeader) (string, error)
	Remove(path string) error
}

type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateStudentRequest is the form (multipart or JSON) submitted when registering a student.
type CreateStudentRequest struct {
	FullName    string `form:"full_name" json:"full_name" validate:"required"`
	RollNumber  string `form:"roll_number" json:"roll_number" validate:"required"`
	Email       string `form:"email" json:"email"`
	Gender      string `form:"gender" json:"gender"`
	DOB         string `form:"dob" json:"dob"`
	City        string `form:"city" json:"city"`
	Interest    string `form:"interest" json:"interest"`
	Department  string `form:"department" json:"department"`
	DegreeTitle string `form:"degree_title" json:"degree_title"`
	Subject     string `form:"subject" json:"subject"`
	StartDate   string `form:"start_date" json:"start_date"`
	EndDate     string `form:"end_date" json:"end_date"`
}

// UpdateStudentRequest is the full replacement payload. Omitted fields become NULL.
type UpdateStudentRequest struct {
	FullName    string  `json:"full_name"`
	RollNumber  string  `json:"roll_number"`
	Email       *string `json:"email"`
	Gender      *string `json:"gender"`
	DOB         *string `json:"dob"`
	City        *string `json:"city"`
	Interest    *string `json:"interest"`
	Department  *string `json:"department"`
	DegreeTitle *string `json:"degree_title"`
	Subject     *string `json:"subject"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Photo       *string `json:"photo"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	photos    photoSaver
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. stats may be nil.
func NewStudentService(repo studentRepository, photos photoSaver, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, photos: photos, stats: stats, validator: validate, logger: logger}
}

// List returns one page of students with paging metadata.
func (s *StudentService) List(ctx context.Context, page, size int) (*models.StudentPage, error) {
	page, size = models.NormalizePage(page, size)
	students, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return &models.StudentPage{
		Students:    students,
		TotalPages:  (total + size - 1) / size,
		CurrentPage: page,
	}, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Internal(err, "Failed to fetch student")
	}
	return student, nil
}

// Create validates the form, stores the optional photo and inserts the row. It
// returns the generated id.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest, photo *multipart.FileHeader) (int64, error) {
	req.trim()
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Full name and roll number are required.")
	}

	student := &models.Student{
		FullName:    req.FullName,
		RollNumber:  req.RollNumber,
		Email:       models.StringPtr(req.Email),
		Gender:      models.StringPtr(req.Gender),
		City:        models.StringPtr(req.City),
		Interest:    models.StringPtr(req.Interest),
		Department:  models.StringPtr(req.Department),
		DegreeTitle: models.StringPtr(req.DegreeTitle),
		Subject:     models.StringPtr(req.Subject),
	}
	if err := parseDates(student, req.DOB, req.StartDate, req.EndDate); err != nil {
		return 0, err
	}

	if photo != nil && s.photos != nil {
		path, err := s.photos.Save(photo)
		if err != nil {
			return 0, err
		}
		student.Photo = &path
	}

	if err := s.repo.Create(ctx, student); err != nil {
		s.discardPhoto(student.Photo)
		return 0, appErrors.Internal(err, "Failed to add student")
	}
	s.invalidate(ctx)
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student.ID, nil
}

// Update replaces every column of the student. A missing row is not reported.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) error {
	student := &models.Student{
		ID:          id,
		FullName:    req.FullName,
		RollNumber:  req.RollNumber,
		Email:       req.Email,
		Gender:      req.Gender,
		City:        req.City,
		Interest:    req.Interest,
		Department:  req.Department,
		DegreeTitle: req.DegreeTitle,
		Subject:     req.Subject,
		Photo:       req.Photo,
	}
	if err := parseDates(student, models.StringValue(req.DOB), models.StringValue(req.StartDate), models.StringValue(req.EndDate)); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return appErrors.Internal(err, "Failed to update student")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the student row. The photo file is kept.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "Failed to delete student")
	}
	s.invalidate(ctx)
	return nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

func (s *StudentService) discardPhoto(path *string) {
	if path == nil || s.photos == nil {
		return
	}
	if err := s.photos.Remove(*path); err != nil {
		s.logger.Warn("failed to remove orphaned photo", zap.String("photo", *path), zap.Error(err))
	}
}

func (r *CreateStudentRequest) trim() {
	for _, field := range []*string{
		&r.FullName, &r.RollNumber, &r.Email, &r.Gender, &r.DOB, &r.City, &r.Interest,
		&r.Department, &r.DegreeTitle, &r.Subject, &r.StartDate, &r.EndDate,
	} {
		*field = strings.TrimSpace(*field)
	}
}

func parseDates(student *models.Student, dob, start, end string) error {
	fields := []struct {
		name  string
		raw   string
		value *models.Date
	}{
		{"dob", dob, &student.DOB},
		{"start_date", start, &student.StartDate},
		{"end_date", end, &student.EndDate},
	}
	for _, field := range fields {
		parsed, err := models.ParseDate(field.raw)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("Invalid %s, expected YYYY-MM-DD", field.name))
		}
		*field.value = parsed
	}
	return nil
}
