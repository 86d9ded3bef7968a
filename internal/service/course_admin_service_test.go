package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type fakeAdminCourseRepo struct {
	byID    map[string]*models.Course
	created *models.Course
	updated *models.Course
	deleted []string
}

func (f *fakeAdminCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = "course-new"
	f.created = course
	return nil
}

func (f *fakeAdminCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.updated = course
	return nil
}

func (f *fakeAdminCourseRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeThumbnailStore struct {
	saved   []string
	saveErr error
}

func (f *fakeThumbnailStore) SaveStream(filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.saved = append(f.saved, filename)
	return filename, nil
}

const testPlaceholderURL = "https://images.unsplash.com/photo-1609599006353-e629aaabfeae?w=800"

func newCourseAdminService(repo *fakeAdminCourseRepo, store *fakeThumbnailStore) *CourseAdminService {
	return NewCourseAdminService(repo, store, noCache(), nil, zap.NewNop(), CourseAdminServiceConfig{
		PublicBaseURL:  "https://cdn.example.com/uploads",
		PlaceholderURL: testPlaceholderURL,
	})
}

func validCourseRequest() SaveCourseRequest {
	return SaveCourseRequest{
		Title:       "Tajweed Mastery",
		Description: "Advanced recitation rules",
		Instructor:  "Sheikh Ahmad Al-Rashid",
		Duration:    "8 weeks",
		Level:       "Advanced",
		Price:       149,
	}
}

func TestCourseAdminSave_CreateUsesPlaceholderWhenNoThumbnail(t *testing.T) {
	repo := &fakeAdminCourseRepo{}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	course, err := svc.Save(context.Background(), validCourseRequest(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, testPlaceholderURL, course.Thumbnail)
	assert.Zero(t, course.Enrolled)
	require.NotNil(t, repo.created)
}

func TestCourseAdminSave_UploadedThumbnailWinsOverManualURL(t *testing.T) {
	repo := &fakeAdminCourseRepo{}
	store := &fakeThumbnailStore{}
	svc := newCourseAdminService(repo, store)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }

	req := validCourseRequest()
	req.ThumbnailURL = "https://example.com/manual.jpg"
	upload := &ThumbnailUpload{Filename: "cover photo.jpg", Reader: strings.NewReader("jpeg bytes")}

	course, err := svc.Save(context.Background(), req, upload, "")
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "thumbnails/1700000000000_cover_photo.jpg", store.saved[0])
	assert.Equal(t, "https://cdn.example.com/uploads/thumbnails/1700000000000_cover_photo.jpg", course.Thumbnail)
}

func TestCourseAdminSave_ManualURLUsedWhenNoUpload(t *testing.T) {
	repo := &fakeAdminCourseRepo{}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	req := validCourseRequest()
	req.ThumbnailURL = "https://example.com/manual.jpg"

	course, err := svc.Save(context.Background(), req, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/manual.jpg", course.Thumbnail)
}

func TestCourseAdminSave_UploadFailureAbortsSave(t *testing.T) {
	repo := &fakeAdminCourseRepo{}
	store := &fakeThumbnailStore{saveErr: errors.New("disk full")}
	svc := newCourseAdminService(repo, store)

	upload := &ThumbnailUpload{Filename: "cover.jpg", Reader: strings.NewReader("jpeg bytes")}
	_, err := svc.Save(context.Background(), validCourseRequest(), upload, "")
	require.Error(t, err)
	assert.Nil(t, repo.created)
}

func TestCourseAdminSave_UpdatePreservesEnrolled(t *testing.T) {
	created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	repo := &fakeAdminCourseRepo{byID: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Old Title", Enrolled: 1250, CreatedAt: created},
	}}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	course, err := svc.Save(context.Background(), validCourseRequest(), nil, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Tajweed Mastery", course.Title)
	assert.Equal(t, 1250, course.Enrolled)
	assert.Equal(t, created, course.CreatedAt)
	require.NotNil(t, repo.updated)
	assert.Nil(t, repo.created)
}

func TestCourseAdminSave_UpdateMissingCourse(t *testing.T) {
	svc := newCourseAdminService(&fakeAdminCourseRepo{}, &fakeThumbnailStore{})

	_, err := svc.Save(context.Background(), validCourseRequest(), nil, "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseAdminSave_RejectsInvalidPayload(t *testing.T) {
	repo := &fakeAdminCourseRepo{}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	req := validCourseRequest()
	req.Level = "Expert"
	_, err := svc.Save(context.Background(), req, nil, "")
	require.Error(t, err)

	req = validCourseRequest()
	req.Title = ""
	_, err = svc.Save(context.Background(), req, nil, "")
	require.Error(t, err)
	assert.Nil(t, repo.created)
}

func TestCourseAdminSetEnrolled_Overwrites(t *testing.T) {
	repo := &fakeAdminCourseRepo{byID: map[string]*models.Course{
		"c1": {ID: "c1", Enrolled: 10},
	}}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	course, err := svc.SetEnrolled(context.Background(), "c1", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, course.Enrolled)

	_, err = svc.SetEnrolled(context.Background(), "c1", -1)
	require.Error(t, err)
}

func TestCourseAdminDelete_IsPermanent(t *testing.T) {
	repo := &fakeAdminCourseRepo{byID: map[string]*models.Course{
		"c1": {ID: "c1"},
	}}
	svc := newCourseAdminService(repo, &fakeThumbnailStore{})

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
