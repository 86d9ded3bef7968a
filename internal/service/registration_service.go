package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Create(ctx context.Context, registration *models.Registration) error
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error
}

// SubmitRegistrationRequest holds the payload of the public registration form.
type SubmitRegistrationRequest struct {
	CourseID      string  `json:"course_id" validate:"required"`
	CourseName    string  `json:"course_name" validate:"required"`
	FullName      string  `json:"full_name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	Age           string  `json:"age"`
	Experience    string  `json:"experience"`
	PreferredTime string  `json:"preferred_time"`
	Timezone      string  `json:"timezone"`
	Message       string  `json:"message"`
	UserID        *string `json:"-"`
}

// RegistrationService captures enrollment intent and staff review actions.
type RegistrationService struct {
	repo      registrationRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(repo registrationRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Submit persists a new registration with status pending. Whitespace-only
// required fields count as missing. The operation is not idempotent:
// resubmission creates a duplicate document.
func (s *RegistrationService) Submit(ctx context.Context, req SubmitRegistrationRequest) (*models.Registration, error) {
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full name, email and phone are required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	registration := &models.Registration{
		CourseID:      req.CourseID,
		CourseName:    req.CourseName,
		UserID:        req.UserID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Age:           req.Age,
		Experience:    req.Experience,
		PreferredTime: req.PreferredTime,
		Timezone:      req.Timezone,
		Message:       req.Message,
		Status:        models.RegistrationStatusPending,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit registration")
	}

	s.invalidateDashboard(ctx)
	return registration, nil
}

// List returns registrations for staff review.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown registration status")
	}
	registrations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return registrations, nil
}

// Get returns a single registration.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return registration, nil
}

// UpdateStatus unconditionally overwrites the review status. Any status may
// follow any other; staff may revisit a decision any number of times.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown registration status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration status")
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *RegistrationService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
