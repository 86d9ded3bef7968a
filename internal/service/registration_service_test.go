package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type fakeRegistrationRepo struct {
	created    []*models.Registration
	byID       map[string]*models.Registration
	lastStatus models.RegistrationStatus
	lastFilter models.RegistrationFilter
	createErr  error
}

func (f *fakeRegistrationRepo) List(_ context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	f.lastFilter = filter
	out := make([]models.Registration, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRegistrationRepo) FindByID(_ context.Context, id string) (*models.Registration, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRegistrationRepo) Create(_ context.Context, registration *models.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	registration.ID = "reg-1"
	registration.CreatedAt = time.Now().UTC()
	f.created = append(f.created, registration)
	return nil
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus) error {
	f.lastStatus = status
	if r, ok := f.byID[id]; ok {
		r.Status = status
	}
	return nil
}

func validRegistrationRequest() SubmitRegistrationRequest {
	return SubmitRegistrationRequest{
		CourseID:   "c1",
		CourseName: "Tajweed Mastery",
		FullName:   "Aisha Rahman",
		Email:      "aisha@example.com",
		Phone:      "+60123456789",
	}
}

func TestRegistrationSubmit_CreatesPending(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	reg, err := svc.Submit(context.Background(), validRegistrationRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	assert.Equal(t, "Tajweed Mastery", reg.CourseName)
	require.Len(t, repo.created, 1)
}

func TestRegistrationSubmit_RejectsMissingRequiredFields(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	cases := map[string]SubmitRegistrationRequest{
		"missing full name":    {CourseID: "c1", CourseName: "x", Email: "a@b.com", Phone: "123"},
		"missing email":        {CourseID: "c1", CourseName: "x", FullName: "A", Phone: "123"},
		"missing phone":        {CourseID: "c1", CourseName: "x", FullName: "A", Email: "a@b.com"},
		"whitespace full name": {CourseID: "c1", CourseName: "x", FullName: "   ", Email: "a@b.com", Phone: "123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Empty(t, repo.created)
		})
	}
}

func TestRegistrationSubmit_OptionalFieldsMayBeEmpty(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	reg, err := svc.Submit(context.Background(), validRegistrationRequest())
	require.NoError(t, err)
	assert.Empty(t, reg.Age)
	assert.Empty(t, reg.Message)
}

func TestRegistrationSubmit_ResubmissionCreatesDuplicate(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), validRegistrationRequest())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), validRegistrationRequest())
	require.NoError(t, err)
	assert.Len(t, repo.created, 2)
}

func TestRegistrationUpdateStatus_AllowsAnyTransition(t *testing.T) {
	repo := &fakeRegistrationRepo{byID: map[string]*models.Registration{
		"reg-1": {ID: "reg-1", Status: models.RegistrationStatusPending},
	}}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	require.NoError(t, svc.UpdateStatus(context.Background(), "reg-1", models.RegistrationStatusApproved))
	assert.Equal(t, models.RegistrationStatusApproved, repo.byID["reg-1"].Status)

	// Decisions are revisitable: approved back to pending, then rejected.
	require.NoError(t, svc.UpdateStatus(context.Background(), "reg-1", models.RegistrationStatusPending))
	require.NoError(t, svc.UpdateStatus(context.Background(), "reg-1", models.RegistrationStatusRejected))
	assert.Equal(t, models.RegistrationStatusRejected, repo.byID["reg-1"].Status)
}

func TestRegistrationUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := &fakeRegistrationRepo{byID: map[string]*models.Registration{
		"reg-1": {ID: "reg-1", Status: models.RegistrationStatusPending},
	}}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), "reg-1", "cancelled")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.RegistrationStatusPending, repo.byID["reg-1"].Status)
}

func TestRegistrationUpdateStatus_NotFound(t *testing.T) {
	svc := NewRegistrationService(&fakeRegistrationRepo{}, noCache(), nil, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), "missing", models.RegistrationStatusApproved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRegistrationList_ValidatesStatusFilter(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := NewRegistrationService(repo, noCache(), nil, zap.NewNop())

	_, err := svc.List(context.Background(), models.RegistrationFilter{Status: "bogus"})
	require.Error(t, err)

	_, err = svc.List(context.Background(), models.RegistrationFilter{Status: models.RegistrationStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, repo.lastFilter.Status)
}
