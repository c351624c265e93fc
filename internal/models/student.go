package models

import "math"

// Student represents a learner profile.
type Student struct {
	ID          int64   `db:"id" json:"id"`
	FullName    string  `db:"full_name" json:"full_name"`
	RollNumber  string  `db:"roll_number" json:"roll_number"`
	Email       *string `db:"email" json:"email"`
	Gender      *string `db:"gender" json:"gender"`
	DOB         Date    `db:"dob" json:"dob"`
	City        *string `db:"city" json:"city"`
	Interest    *string `db:"interest" json:"interest"`
	Department  *string `db:"department" json:"department"`
	DegreeTitle *string `db:"degree_title" json:"degree_title"`
	Subject     *string `db:"subject" json:"subject"`
	StartDate   Date    `db:"start_date" json:"start_date"`
	EndDate     Date    `db:"end_date" json:"end_date"`
	Photo       *string `db:"photo" json:"photo"`
}

// StudentPage is one slice of the roster.
type StudentPage struct {
	Students    []Student `json:"students"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Pagination bounds for the roster.
const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
	// MaxPage keeps the row offset within a 32-bit integer.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// NormalizePage clamps page and size to usable values.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// StringPtr returns nil for blank strings.
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// StringValue dereferences value, treating nil as "".
func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
