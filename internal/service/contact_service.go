package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

// MinContactMessageLength is the minimum accepted contact message size.
const MinContactMessageLength = 10

type contactRepository interface {
	List(ctx context.Context, filter models.ContactFilter) ([]models.ContactSubmission, error)
	FindByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	Create(ctx context.Context, submission *models.ContactSubmission) error
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	CreateNewsletterSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) error
}

// SubmitContactRequest holds the payload of the public contact form.
type SubmitContactRequest struct {
	FirstName              string `json:"first_name" validate:"required,min=2"`
	LastName               string `json:"last_name" validate:"required,min=2"`
	Email                  string `json:"email" validate:"required,email"`
	Phone                  string `json:"phone"`
	Subject                string `json:"subject" validate:"required"`
	CourseInterest         string `json:"course_interest"`
	Message                string `json:"message" validate:"required"`
	PreferredContact       string `json:"preferred_contact" validate:"required"`
	SubscribedToNewsletter bool   `json:"subscribed_to_newsletter"`
}

// ContactService captures inbound inquiries and staff triage actions.
type ContactService struct {
	repo      contactRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewContactService constructs the contact service.
func NewContactService(repo contactRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Submit validates and persists a contact submission with status new. When
// the submitter opted into the newsletter, a subscriber record is written as
// a best-effort secondary step: its failure is logged and swallowed, and the
// primary submission still reports success.
func (s *ContactService) Submit(ctx context.Context, req SubmitContactRequest) (*models.ContactSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	if len(req.Message) < MinContactMessageLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message must be at least 10 characters")
	}
	subject := models.ContactSubject(req.Subject)
	if !subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown contact subject")
	}
	preferred := models.PreferredContact(req.PreferredContact)
	if !preferred.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown preferred contact channel")
	}

	now := s.now().UTC()
	submission := &models.ContactSubmission{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		Subject:                subject,
		CourseInterest:         req.CourseInterest,
		Message:                req.Message,
		PreferredContact:       preferred,
		SubscribedToNewsletter: req.SubscribedToNewsletter,
		Status:                 models.ContactStatusNew,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit contact form")
	}

	if req.SubscribedToNewsletter {
		subscriber := &models.NewsletterSubscriber{
			Email:        req.Email,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Source:       models.NewsletterSourceContactForm,
			SubscribedAt: now,
		}
		if err := s.repo.CreateNewsletterSubscriber(ctx, subscriber); err != nil {
			s.logger.Warn("newsletter subscription failed",
				zap.String("submission_id", submission.ID), zap.Error(err))
		}
	}

	s.invalidateDashboard(ctx)
	return submission, nil
}

// List returns contact submissions for staff triage.
func (s *ContactService) List(ctx context.Context, filter models.ContactFilter) ([]models.ContactSubmission, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown contact status")
	}
	submissions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact submissions")
	}
	return submissions, nil
}

// Get returns a single contact submission.
func (s *ContactService) Get(ctx context.Context, id string) (*models.ContactSubmission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contact submission")
	}
	return submission, nil
}

// UpdateStatus overwrites status and updated_at. The four states form no
// enforced progression; staff may set any at any time.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactSubmission, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown contact status")
	}
	submission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, status, updatedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contact status")
	}
	submission.Status = status
	submission.UpdatedAt = updatedAt

	s.invalidateDashboard(ctx)
	return submission, nil
}

// View returns a submission and, only when it is currently new, marks it
// read. Viewing an already-read submission changes nothing.
func (s *ContactService) View(ctx context.Context, id string) (*models.ContactSubmission, error) {
	submission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.ContactStatusNew {
		return submission, nil
	}
	return s.UpdateStatus(ctx, id, models.ContactStatusRead)
}

// Delete removes a submission permanently. Confirmation is the caller's job.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete contact submission")
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *ContactService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
