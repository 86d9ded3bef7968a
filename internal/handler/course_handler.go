package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/internal/service"
	"github.com/miftal/academy-api/pkg/response"
)

// CourseHandler exposes the public catalog endpoints.
type CourseHandler struct {
	catalog *service.CatalogService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Substring match on title, description or instructor"
// @Param level query string false "Exact level, or 'all' for no filter"
// @Param limit query int false "Maximum number of courses"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Query: c.Query("search"),
		Level: c.Query("level"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	courses, err := h.catalog.List(c.Request.Context(), filter.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.catalog.Filter(courses, filter), nil)
}

// Featured godoc
// @Summary List featured courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/featured [get]
func (h *CourseHandler) Featured(c *gin.Context) {
	courses, err := h.catalog.Featured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}
