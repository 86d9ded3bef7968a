package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

func noCache() *CacheService {
	return NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
}

type fakeCourseRepo struct {
	courses   []models.Course
	byID      map[string]*models.Course
	listErr   error
	lastLimit int
}

func (f *fakeCourseRepo) List(_ context.Context, limit int) ([]models.Course, error) {
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.courses) > limit {
		return f.courses[:limit], nil
	}
	return f.courses, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	if course, ok := f.byID[id]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

func sampleCourses() []models.Course {
	return []models.Course{
		{ID: "c1", Title: "Tajweed Mastery", Description: "Advanced recitation rules", Instructor: "Sheikh Ahmad Al-Rashid", Level: models.CourseLevelAdvanced, Price: 149},
		{ID: "c2", Title: "Arabic for Quran", Description: "Classical Arabic grammar", Instructor: "Dr. Fatima Hassan", Level: models.CourseLevelIntermediate, Price: 129},
		{ID: "c3", Title: "Quran Memorization", Description: "Structured Hifz program", Instructor: "Sheikh Ahmad Al-Rashid", Level: models.CourseLevelBeginner, Price: 99},
	}
}

func TestCatalogList_FallsBackToDemoWhenEmpty(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})

	courses, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "1", courses[0].ID)
	assert.Equal(t, "Quran Recitation Fundamentals for Beginners", courses[0].Title)
}

func TestCatalogList_ReturnsStoredCourses(t *testing.T) {
	repo := &fakeCourseRepo{courses: sampleCourses()}
	svc := NewCatalogService(repo, noCache(), zap.NewNop(), CatalogServiceConfig{})

	courses, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestCatalogFeatured_AppliesLimit(t *testing.T) {
	repo := &fakeCourseRepo{courses: sampleCourses()}
	svc := NewCatalogService(repo, noCache(), zap.NewNop(), CatalogServiceConfig{FeaturedLimit: 2})

	courses, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Equal(t, 2, repo.lastLimit)
}

func TestCatalogFeatured_ServesFromCacheOnSecondCall(t *testing.T) {
	repo := &fakeCourseRepo{courses: sampleCourses()}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewCatalogService(repo, cacheSvc, zap.NewNop(), CatalogServiceConfig{FeaturedLimit: 2})

	first, err := svc.Featured(context.Background())
	require.NoError(t, err)

	repo.courses = nil
	second, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalogGet_DemoFallbackThenNotFound(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})

	course, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Sheikh Ahmad Al-Rashid", course.Instructor)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCatalogFilter_QueryMatchesTitleDescriptionInstructor(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})
	courses := sampleCourses()

	byTitle := svc.Filter(courses, models.CourseFilter{Query: "tajweed"})
	require.Len(t, byTitle, 1)
	assert.Equal(t, "c1", byTitle[0].ID)

	byDescription := svc.Filter(courses, models.CourseFilter{Query: "GRAMMAR"})
	require.Len(t, byDescription, 1)
	assert.Equal(t, "c2", byDescription[0].ID)

	byInstructor := svc.Filter(courses, models.CourseFilter{Query: "al-rashid"})
	assert.Len(t, byInstructor, 2)
}

func TestCatalogFilter_LevelIsExactMatch(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})
	courses := sampleCourses()

	beginner := svc.Filter(courses, models.CourseFilter{Level: "Beginner"})
	require.Len(t, beginner, 1)
	assert.Equal(t, "c3", beginner[0].ID)

	// "beginner" is not "Beginner": level comparison is case-sensitive.
	assert.Empty(t, svc.Filter(courses, models.CourseFilter{Level: "beginner"}))
}

func TestCatalogFilter_EmptyAndAllAreNoOps(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})
	courses := sampleCourses()

	assert.Len(t, svc.Filter(courses, models.CourseFilter{}), 3)
	assert.Len(t, svc.Filter(courses, models.CourseFilter{Query: "   ", Level: models.LevelFilterAll}), 3)
}

func TestCatalogFilter_ClausesCompose(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})
	courses := sampleCourses()

	// Instructor matches two courses; the level clause narrows to one.
	filtered := svc.Filter(courses, models.CourseFilter{Query: "al-rashid", Level: "Advanced"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "c1", filtered[0].ID)
}

func TestCatalogFilter_AppliesToDemoFallbackToo(t *testing.T) {
	svc := NewCatalogService(&fakeCourseRepo{}, noCache(), zap.NewNop(), CatalogServiceConfig{})

	courses, err := svc.List(context.Background(), 0)
	require.NoError(t, err)

	assert.Empty(t, svc.Filter(courses, models.CourseFilter{Query: "no such course"}))
	assert.Len(t, svc.Filter(courses, models.CourseFilter{Query: "recitation"}), 1)
}
