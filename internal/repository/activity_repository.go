package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

const createActivitiesTable = `CREATE TABLE IF NOT EXISTS activities (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(255),
    action VARCHAR(255),
    "timestamp" TIMESTAMPTZ NOT NULL DEFAULT now(),
    details TEXT
)`

// ActivityRepository appends request activity rows.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// EnsureSchema creates the activities table when it does not exist yet.
func (r *ActivityRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createActivitiesTable); err != nil {
		return fmt.Errorf("ensure activities table: %w", err)
	}
	return nil
}

// Create inserts an activity row. The timestamp is assigned by the database.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	const query = `INSERT INTO activities (user_id, action, details) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, activity.UserID, activity.Action, activity.Details); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}
