package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/dto"
)

// Columns that back the pie-chart distributions.
const (
	DistributionCity       = "city"
	DistributionDepartment = "department"
	DistributionDegree     = "degree_title"
	DistributionGender     = "gender"
)

const interestLimit = 5

// DashboardRepository runs the aggregate queries behind the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// TopInterests returns the most common non-empty interests, ties broken alphabetically.
func (r *DashboardRepository) TopInterests(ctx context.Context) ([]string, error) {
	const query = `SELECT interest FROM students
        WHERE interest IS NOT NULL AND interest <> ''
        GROUP BY interest
        ORDER BY COUNT(*) DESC, interest ASC
        LIMIT $1`
	interests := make([]string, 0, interestLimit)
	if err := r.db.SelectContext(ctx, &interests, query, interestLimit); err != nil {
		return nil, fmt.Errorf("top interests: %w", err)
	}
	return interests, nil
}

// BottomInterests returns the least common interests using the exact reverse of the
// TopInterests ordering.
func (r *DashboardRepository) BottomInterests(ctx context.Context) ([]string, error) {
	const query = `SELECT interest FROM students
        WHERE interest IS NOT NULL AND interest <> ''
        GROUP BY interest
        ORDER BY COUNT(*) ASC, interest DESC
        LIMIT $1`
	interests := make([]string, 0, interestLimit)
	if err := r.db.SelectContext(ctx, &interests, query, interestLimit); err != nil {
		return nil, fmt.Errorf("bottom interests: %w", err)
	}
	return interests, nil
}

// DistinctInterests counts unique non-empty interests.
func (r *DashboardRepository) DistinctInterests(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(DISTINCT interest) FROM students WHERE interest IS NOT NULL AND interest <> ''`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("distinct interests: %w", err)
	}
	return count, nil
}

// Distribution groups students by one of the Distribution* columns.
func (r *DashboardRepository) Distribution(ctx context.Context, column string) ([]dto.NamedCount, error) {
	switch column {
	case DistributionCity, DistributionDepartment, DistributionDegree, DistributionGender:
	default:
		return nil, fmt.Errorf("unsupported distribution column %q", column)
	}
	query := fmt.Sprintf(`SELECT %[1]s AS name, COUNT(*) AS value FROM students
        WHERE %[1]s IS NOT NULL AND %[1]s <> ''
        GROUP BY %[1]s
        ORDER BY value DESC, name ASC`, column)
	rows := make([]dto.NamedCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s distribution: %w", column, err)
	}
	return rows, nil
}

// Submissions counts students by start date over the last 30 days.
func (r *DashboardRepository) Submissions(ctx context.Context) ([]dto.DateCount, error) {
	const query = `SELECT to_char(start_date, 'YYYY-MM-DD') AS date, COUNT(*) AS count FROM students
        WHERE start_date IS NOT NULL AND start_date >= CURRENT_DATE - INTERVAL '30 days'
        GROUP BY start_date
        ORDER BY start_date`
	rows := make([]dto.DateCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("submissions chart: %w", err)
	}
	return rows, nil
}

// AgeDistribution buckets students by calendar-year age.
func (r *DashboardRepository) AgeDistribution(ctx context.Context) ([]dto.AgeCount, error) {
	const query = `SELECT (EXTRACT(YEAR FROM CURRENT_DATE) - EXTRACT(YEAR FROM dob))::int AS age, COUNT(*) AS count FROM students
        WHERE dob IS NOT NULL
        GROUP BY age
        ORDER BY age`
	rows := make([]dto.AgeCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("age distribution: %w", err)
	}
	return rows, nil
}

// DailyActivity counts activity rows per day over the last 30 days.
func (r *DashboardRepository) DailyActivity(ctx context.Context) ([]dto.DateCount, error) {
	const query = `SELECT to_char("timestamp"::date, 'YYYY-MM-DD') AS date, COUNT(*) AS count FROM activities
        WHERE "timestamp" >= CURRENT_DATE - INTERVAL '30 days'
        GROUP BY "timestamp"::date
        ORDER BY "timestamp"::date`
	rows := make([]dto.DateCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("daily activity: %w", err)
	}
	return rows, nil
}

// QuarterHourActivity counts activity rows in 15-minute windows over the last 24 hours.
// Windows are keyed by time of day, so the partial window at either end of the range
// folds into a single "HH:MM" entry.
func (r *DashboardRepository) QuarterHourActivity(ctx context.Context) ([]dto.TimeCount, error) {
	const query = `SELECT to_char(date_trunc('hour', "timestamp") + floor(EXTRACT(MINUTE FROM "timestamp") / 15) * INTERVAL '15 minutes', 'HH24:MI') AS time,
            COUNT(*) AS count
        FROM activities
        WHERE "timestamp" >= now() - INTERVAL '24 hours'
        GROUP BY 1
        ORDER BY 1`
	rows := make([]dto.TimeCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("last 24 hours activity: %w", err)
	}
	return rows, nil
}

// StatusTotals counts students per enrolment status. The buckets overlap.
func (r *DashboardRepository) StatusTotals(ctx context.Context) (dto.StudentStatusTotals, error) {
	const query = `SELECT
            COUNT(*) FILTER (WHERE end_date IS NULL OR end_date > CURRENT_DATE) AS studying,
            COUNT(*) FILTER (WHERE start_date >= CURRENT_DATE - INTERVAL '6 months') AS recently_enrolled,
            COUNT(*) FILTER (WHERE end_date BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '3 months') AS about_to_graduate,
            COUNT(*) FILTER (WHERE end_date < CURRENT_DATE) AS graduated
        FROM students`
	var totals dto.StudentStatusTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return dto.StudentStatusTotals{}, fmt.Errorf("student status: %w", err)
	}
	return totals, nil
}

// HourlyActivity returns the hour-of-day histogram of activity over the last 30 days.
// Hours without activity are absent.
func (r *DashboardRepository) HourlyActivity(ctx context.Context) ([]dto.HourCount, error) {
	const query = `SELECT EXTRACT(HOUR FROM "timestamp")::int AS hour, COUNT(*) AS count FROM activities
        WHERE "timestamp" >= CURRENT_DATE - INTERVAL '30 days'
        GROUP BY hour`
	rows := make([]dto.HourCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("hourly activity: %w", err)
	}
	return rows, nil
}
