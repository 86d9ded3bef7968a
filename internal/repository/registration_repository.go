package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/miftal/academy-api/internal/models"
)

// RegistrationRepository handles persistence of course registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, course_id, course_name, user_id, full_name, email, phone, age, experience, preferred_time, timezone, message, status, created_at`

// List returns registrations newest first, filtered by the provided criteria.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM registrations%s ORDER BY created_at DESC", registrationColumns, clause)
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	var registrations []models.Registration
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return registrations, nil
}

// FindByID returns a registration by its ID.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE id = $1", registrationColumns)
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// Create persists a new registration. No dedupe is performed: repeated
// submissions create distinct documents.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now().UTC()
	}
	if registration.Status == "" {
		registration.Status = models.RegistrationStatusPending
	}
	const query = `INSERT INTO registrations (id, course_id, course_name, user_id, full_name, email, phone, age, experience, preferred_time, timezone, message, status, created_at)
        VALUES (:id, :course_id, :course_name, :user_id, :full_name, :email, :phone, :age, :experience, :preferred_time, :timezone, :message, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// UpdateStatus unconditionally overwrites the status field.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE registrations SET status = $2 WHERE id = $1", id, status); err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return nil
}
