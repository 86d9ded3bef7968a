package handler

import (
	"context"
	"database/sql"
	"encoding/json"
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
	"github.com/miftal/academy-api/pkg/response"
)

type courseRepoMock struct {
	courses []models.Course
}

func (m *courseRepoMock) List(_ context.Context, limit int) ([]models.Course, error) {
	if limit > 0 && len(m.courses) > limit {
		return m.courses[:limit], nil
	}
	return m.courses, nil
}

func (m *courseRepoMock) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range m.courses {
		if m.courses[i].ID == id {
			return &m.courses[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func disabledCache() *service.CacheService {
	return service.NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
}

func newCourseHandler(courses []models.Course) *CourseHandler {
	catalog := service.NewCatalogService(&courseRepoMock{courses: courses}, disabledCache(), zap.NewNop(), service.CatalogServiceConfig{})
	return NewCourseHandler(catalog)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func catalogFixture() []models.Course {
	return []models.Course{
		{ID: "c1", Title: "Tajweed Mastery", Instructor: "Sheikh Ahmad Al-Rashid", Level: models.CourseLevelAdvanced},
		{ID: "c2", Title: "Arabic for Quran", Instructor: "Dr. Fatima Hassan", Level: models.CourseLevelBeginner},
	}
}

func TestCourseHandlerList_AppliesSearchAndLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(catalogFixture())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses?search=tajweed&level=Advanced", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var courses []models.Course
	envelope := decodeEnvelope(t, w)
	payload, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(payload, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
}

func TestCourseHandlerList_LevelAllReturnsEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(catalogFixture())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses?level=all", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var courses []models.Course
	envelope := decodeEnvelope(t, w)
	payload, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(payload, &courses))
	assert.Len(t, courses, 2)
}

func TestCourseHandlerList_EmptyCatalogServesDemo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Quran Recitation Fundamentals")
}

func TestCourseHandlerGet_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(catalogFixture())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerGet_ReturnsCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(catalogFixture())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/c2", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c2"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Arabic for Quran")
}
