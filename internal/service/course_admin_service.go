package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
	"github.com/miftal/academy-api/pkg/storage"
)

type adminCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type thumbnailStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// SaveCourseRequest holds the admin course form fields.
type SaveCourseRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Instructor    string   `json:"instructor"`
	Duration      string   `json:"duration"`
	Level         string   `json:"level" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"original_price"`
	ThumbnailURL  string   `json:"thumbnail"`
}

// ThumbnailUpload carries an optional uploaded thumbnail file.
type ThumbnailUpload struct {
	Filename string
	Reader   io.Reader
}

// CourseAdminServiceConfig tunes thumbnail handling.
type CourseAdminServiceConfig struct {
	PublicBaseURL  string
	PlaceholderURL string
}

// CourseAdminService implements admin course create/update/delete with
// optional thumbnail replacement.
type CourseAdminService struct {
	repo      adminCourseRepository
	store     thumbnailStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       CourseAdminServiceConfig
}

// NewCourseAdminService constructs the admin course service.
func NewCourseAdminService(repo adminCourseRepository, store thumbnailStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg CourseAdminServiceConfig) *CourseAdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseAdminService{repo: repo, store: store, cache: cache, validator: validate, logger: logger, now: time.Now, cfg: cfg}
}

// Save creates or updates a course. When a thumbnail file is supplied it is
// uploaded first and its public URL wins over the manually entered URL; when
// both are absent the placeholder URL is used. Updating preserves the
// enrolled counter from the existing record.
func (s *CourseAdminService) Save(ctx context.Context, req SaveCourseRequest, thumbnail *ThumbnailUpload, existingID string) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	level := models.CourseLevel(req.Level)
	if !level.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course level")
	}
	if req.OriginalPrice != nil && *req.OriginalPrice < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "original price must not be negative")
	}

	thumbnailURL := req.ThumbnailURL
	if thumbnail != nil && thumbnail.Reader != nil {
		relPath := storage.ThumbnailPath(thumbnail.Filename, s.now().UTC())
		if _, err := s.store.SaveStream(relPath, thumbnail.Reader); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upload thumbnail")
		}
		thumbnailURL = storage.PublicURL(s.cfg.PublicBaseURL, relPath)
	}
	if thumbnailURL == "" {
		thumbnailURL = s.cfg.PlaceholderURL
	}

	if existingID != "" {
		existing, err := s.repo.FindByID(ctx, existingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}

		course := *existing
		course.Title = req.Title
		course.Description = req.Description
		course.Instructor = req.Instructor
		course.Duration = req.Duration
		course.Level = level
		course.Price = req.Price
		course.OriginalPrice = req.OriginalPrice
		course.Thumbnail = thumbnailURL
		if err := s.repo.Update(ctx, &course); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
		}
		s.invalidateCaches(ctx)
		return &course, nil
	}

	course := &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Instructor:    req.Instructor,
		Duration:      req.Duration,
		Level:         level,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Thumbnail:     thumbnailURL,
		Enrolled:      0,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateCaches(ctx)
	return course, nil
}

// SetEnrolled overwrites the enrolled counter, an admin-only edit.
func (s *CourseAdminService) SetEnrolled(ctx context.Context, id string, enrolled int) (*models.Course, error) {
	if enrolled < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrolled must not be negative")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course := *existing
	course.Enrolled = enrolled
	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateCaches(ctx)
	return &course, nil
}

// Delete removes a course permanently. The confirmation dialog is the
// caller's responsibility.
func (s *CourseAdminService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *CourseAdminService) invalidateCaches(ctx context.Context) {
	for _, pattern := range []string{"catalog:*", "dashboard:*"} {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
