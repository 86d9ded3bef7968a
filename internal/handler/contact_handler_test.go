package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/internal/service"
)

type contactRepoMock struct {
	created       []*models.ContactSubmission
	subscribers   []*models.NewsletterSubscriber
	byID          map[string]*models.ContactSubmission
	subscriberErr error
}

func (m *contactRepoMock) List(_ context.Context, _ models.ContactFilter) ([]models.ContactSubmission, error) {
	out := make([]models.ContactSubmission, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (m *contactRepoMock) FindByID(_ context.Context, id string) (*models.ContactSubmission, error) {
	if c, ok := m.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *contactRepoMock) Create(_ context.Context, submission *models.ContactSubmission) error {
	submission.ID = "contact-1"
	m.created = append(m.created, submission)
	return nil
}

func (m *contactRepoMock) UpdateStatus(_ context.Context, id string, status models.ContactStatus, updatedAt time.Time) error {
	if c, ok := m.byID[id]; ok {
		c.Status = status
		c.UpdatedAt = updatedAt
	}
	return nil
}

func (m *contactRepoMock) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *contactRepoMock) CreateNewsletterSubscriber(_ context.Context, subscriber *models.NewsletterSubscriber) error {
	if m.subscriberErr != nil {
		return m.subscriberErr
	}
	m.subscribers = append(m.subscribers, subscriber)
	return nil
}

func newContactHandler(repo *contactRepoMock) *ContactHandler {
	svc := service.NewContactService(repo, disabledCache(), nil, zap.NewNop())
	return NewContactHandler(svc)
}

func validContactBody() map[string]interface{} {
	return map[string]interface{}{
		"first_name":        "Omar",
		"last_name":         "Khalid",
		"email":             "omar@example.com",
		"subject":           "courses",
		"message":           "Do you offer weekend Tajweed classes?",
		"preferred_contact": "email",
	}
}

func TestContactHandlerSubmit_Creates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &contactRepoMock{}
	handler := newContactHandler(repo)

	w, c := postJSON(t, validContactBody())
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.ContactStatusNew, repo.created[0].Status)
}

func TestContactHandlerSubmit_ShortMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &contactRepoMock{}
	handler := newContactHandler(repo)

	body := validContactBody()
	body["message"] = "hi"
	w, c := postJSON(t, body)
	handler.Submit(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.created)
}

func TestContactHandlerSubmit_NewsletterFailureStill201(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &contactRepoMock{subscriberErr: errors.New("subscriber store down")}
	handler := newContactHandler(repo)

	body := validContactBody()
	body["subscribed_to_newsletter"] = true
	w, c := postJSON(t, body)
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Empty(t, repo.subscribers)
}

func TestContactHandlerView_MarksRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &contactRepoMock{byID: map[string]*models.ContactSubmission{
		"contact-1": {ID: "contact-1", Status: models.ContactStatusNew},
	}}
	handler := newContactHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/contacts/contact-1/view", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "contact-1"}}

	handler.View(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ContactStatusRead, repo.byID["contact-1"].Status)
}

func TestContactHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &contactRepoMock{byID: map[string]*models.ContactSubmission{
		"contact-1": {ID: "contact-1", Status: models.ContactStatusArchived},
	}}
	handler := newContactHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/admin/contacts/contact-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "contact-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.byID)
}
