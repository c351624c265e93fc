package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

const studentColumns = `id, full_name, roll_number, email, gender, dob, city, interest, department, degree_title, subject, start_date, end_date, photo`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns one page of students in insertion order together with the total row count.
func (r *StudentRepository) List(ctx context.Context, page, size int) ([]models.Student, int, error) {
	page, size = models.NormalizePage(page, size)
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students ORDER BY id ASC LIMIT $1 OFFSET $2", studentColumns)
	students := make([]models.Student, 0, size)
	if err := r.db.SelectContext(ctx, &students, query, size, offset); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListAll returns every student ordered by id.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY id ASC", studentColumns)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record and sets its generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (full_name, roll_number, email, gender, dob, city, interest, department, degree_title, subject, start_date, end_date, photo)
        VALUES (:full_name, :roll_number, :email, :gender, :dob, :city, :interest, :department, :degree_title, :subject, :start_date, :end_date, :photo)
        RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("create student: %w", err)
		}
		return fmt.Errorf("create student: no id returned")
	}
	if err := rows.Scan(&student.ID); err != nil {
		return fmt.Errorf("scan student id: %w", err)
	}
	return nil
}

// Update overwrites every column of the row. A missing row is not an error.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET full_name = :full_name, roll_number = :roll_number, email = :email, gender = :gender, dob = :dob, city = :city, interest = :interest, department = :department, degree_title = :degree_title, subject = :subject, start_date = :start_date, end_date = :end_date, photo = :photo WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes the row if present.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
