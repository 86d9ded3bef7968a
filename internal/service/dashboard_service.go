package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

const dashboardStatsCacheKey = "dashboard:stats"

type dashboardCourseRepository interface {
	List(ctx context.Context, limit int) ([]models.Course, error)
}

type dashboardRegistrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
}

type dashboardContactRepository interface {
	List(ctx context.Context, filter models.ContactFilter) ([]models.ContactSubmission, error)
}

// DashboardServiceConfig tunes caching of the dashboard snapshot.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService aggregates counters for the admin overview page.
type DashboardService struct {
	courses       dashboardCourseRepository
	registrations dashboardRegistrationRepository
	contacts      dashboardContactRepository
	cache         *CacheService
	logger        *zap.Logger
	cfg           DashboardServiceConfig
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(courses dashboardCourseRepository, registrations dashboardRegistrationRepository, contacts dashboardContactRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{courses: courses, registrations: registrations, contacts: contacts, cache: cache, logger: logger, cfg: cfg}
}

// Stats recomputes the dashboard counters from the current collections. The
// computation is a pure reduction over the fetched rows, so repeated calls
// against unchanged data yield identical results.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var cached models.DashboardStats
	if hit, _ := s.cache.Get(ctx, dashboardStatsCacheKey, &cached); hit {
		return &cached, nil
	}

	courses, err := s.courses.List(ctx, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	registrations, err := s.registrations.List(ctx, models.RegistrationFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	contacts, err := s.contacts.List(ctx, models.ContactFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact submissions")
	}

	stats := Reduce(courses, registrations, contacts)

	if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return stats, nil
}

// Reduce folds the collections into a stats snapshot without touching storage.
func Reduce(courses []models.Course, registrations []models.Registration, contacts []models.ContactSubmission) *models.DashboardStats {
	stats := &models.DashboardStats{
		TotalCourses:       len(courses),
		TotalRegistrations: len(registrations),
		TotalContacts:      len(contacts),
	}
	for _, c := range courses {
		stats.TotalRevenue += c.Price
		stats.TotalEnrolled += c.Enrolled
	}
	for _, r := range registrations {
		switch r.Status {
		case models.RegistrationStatusPending:
			stats.PendingRegistrations++
		case models.RegistrationStatusApproved:
			stats.ApprovedRegistrations++
		}
	}
	for _, c := range contacts {
		if c.Status == models.ContactStatusNew {
			stats.NewContacts++
		}
	}
	return stats
}
