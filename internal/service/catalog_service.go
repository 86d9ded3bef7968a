package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type catalogCourseRepository interface {
	List(ctx context.Context, limit int) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// demoCourses is the built-in fallback shown when the catalog is empty or a
// course id cannot be resolved. It is presentation-only and never written back.
var demoCourses = map[string]models.Course{
	"1": {
		ID:          "1",
		Title:       "Quran Recitation Fundamentals for Beginners",
		Description: "Learn the fundamentals of Quran recitation with proper pronunciation and basic Tajweed rules. Perfect for those starting their journey.",
		Thumbnail:   "https://images.unsplash.com/photo-1609599006353-e629aaabfeae?w=800&q=80",
		Instructor:  "Sheikh Ahmad Al-Rashid",
		Duration:    "12 weeks",
		Level:       models.CourseLevelBeginner,
		Price:       99,
		Enrolled:    1250,
	},
}

// CatalogServiceConfig tunes catalog behaviour.
type CatalogServiceConfig struct {
	FeaturedLimit int
	CacheTTL      time.Duration
}

// CatalogService builds the visible course list from the raw collection.
type CatalogService struct {
	repo   catalogCourseRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    CatalogServiceConfig
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo catalogCourseRepository, cache *CacheService, logger *zap.Logger, cfg CatalogServiceConfig) *CatalogService {
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger, cfg: cfg}
}

// List returns courses newest first. When the backing fetch yields nothing,
// the built-in demo list is substituted so public pages are never empty.
func (s *CatalogService) List(ctx context.Context, limit int) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if len(courses) == 0 {
		return demoCatalog(), nil
	}
	return courses, nil
}

// Featured returns the bounded newest-first list used on the home page.
func (s *CatalogService) Featured(ctx context.Context) ([]models.Course, error) {
	const cacheKey = "catalog:featured"
	if s.cache.Enabled() {
		var cached []models.Course
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	courses, err := s.List(ctx, s.cfg.FeaturedLimit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, courses, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("featured cache write failed", zap.Error(err))
	}
	return courses, nil
}

// Get resolves a course by id, falling back to the built-in demo record
// before reporting not found.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if demo, ok := demoCourses[id]; ok {
				return &demo, nil
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Filter applies the client-side catalog filter: a case-insensitive substring
// match on title, description or instructor, AND an exact level equality.
// An empty query and the "all" level sentinel each disable their clause.
func (s *CatalogService) Filter(courses []models.Course, filter models.CourseFilter) []models.Course {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	level := filter.Level

	filtered := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if query != "" && !matchesQuery(course, query) {
			continue
		}
		if level != "" && level != models.LevelFilterAll && string(course.Level) != level {
			continue
		}
		filtered = append(filtered, course)
	}
	return filtered
}

func matchesQuery(course models.Course, query string) bool {
	return strings.Contains(strings.ToLower(course.Title), query) ||
		strings.Contains(strings.ToLower(course.Description), query) ||
		strings.Contains(strings.ToLower(course.Instructor), query)
}

func demoCatalog() []models.Course {
	list := make([]models.Course, 0, len(demoCourses))
	for _, course := range demoCourses {
		list = append(list, course)
	}
	return list
}
