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

// ContactRepository handles persistence of contact submissions and the
// newsletter subscriber side channel.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs the repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone, subject, course_interest, message, preferred_contact, subscribed_to_newsletter, status, created_at, updated_at`

// List returns contact submissions newest first, filtered by the criteria.
func (r *ContactRepository) List(ctx context.Context, filter models.ContactFilter) ([]models.ContactSubmission, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM contact_submissions%s ORDER BY created_at DESC", contactColumns, clause)
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	var submissions []models.ContactSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return submissions, nil
}

// FindByID returns a contact submission by its ID.
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM contact_submissions WHERE id = $1", contactColumns)
	var submission models.ContactSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Create persists a new contact submission.
func (r *ContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	if submission.UpdatedAt.IsZero() {
		submission.UpdatedAt = submission.CreatedAt
	}
	if submission.Status == "" {
		submission.Status = models.ContactStatusNew
	}
	const query = `INSERT INTO contact_submissions (id, first_name, last_name, email, phone, subject, course_interest, message, preferred_contact, subscribed_to_newsletter, status, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :phone, :subject, :course_interest, :message, :preferred_contact, :subscribed_to_newsletter, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create contact submission: %w", err)
	}
	return nil
}

// UpdateStatus overwrites status and updated_at. No ordering constraint is
// enforced among the four status values.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus, updatedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE contact_submissions SET status = $2, updated_at = $3 WHERE id = $1", id, status, updatedAt); err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return nil
}

// Delete removes a contact submission permanently.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM contact_submissions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete contact submission: %w", err)
	}
	return nil
}

// CreateNewsletterSubscriber inserts the side-channel subscriber record.
func (r *ContactRepository) CreateNewsletterSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	if subscriber.ID == "" {
		subscriber.ID = uuid.NewString()
	}
	if subscriber.SubscribedAt.IsZero() {
		subscriber.SubscribedAt = time.Now().UTC()
	}
	const query = `INSERT INTO newsletter_subscribers (id, email, first_name, last_name, source, subscribed_at)
        VALUES (:id, :email, :first_name, :last_name, :source, :subscribed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subscriber); err != nil {
		return fmt.Errorf("create newsletter subscriber: %w", err)
	}
	return nil
}
