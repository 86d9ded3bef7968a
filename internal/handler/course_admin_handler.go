package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miftal/academy-api/internal/service"
	appErrors "github.com/miftal/academy-api/pkg/errors"
	"github.com/miftal/academy-api/pkg/response"
)

// CourseAdminHandler exposes the back-office course endpoints. Create and
// update accept multipart forms so a thumbnail file can ride along.
type CourseAdminHandler struct {
	courses     *service.CourseAdminService
	maxFileSize int64
}

// NewCourseAdminHandler constructs CourseAdminHandler.
func NewCourseAdminHandler(courses *service.CourseAdminService, maxFileSize int64) *CourseAdminHandler {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &CourseAdminHandler{courses: courses, maxFileSize: maxFileSize}
}

// Create godoc
// @Summary Create course
// @Tags Admin Courses
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/courses [post]
func (h *CourseAdminHandler) Create(c *gin.Context) {
	h.save(c, "")
}

// Update godoc
// @Summary Update course
// @Tags Admin Courses
// @Accept mpfd
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /admin/courses/{id} [put]
func (h *CourseAdminHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *CourseAdminHandler) save(c *gin.Context, existingID string) {
	req, upload, err := h.parseForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	course, err := h.courses.Save(c.Request.Context(), req, upload, existingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if existingID == "" {
		response.Created(c, course)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

func (h *CourseAdminHandler) parseForm(c *gin.Context) (service.SaveCourseRequest, *service.ThumbnailUpload, error) {
	var req service.SaveCourseRequest
	req.Title = c.PostForm("title")
	req.Description = c.PostForm("description")
	req.Instructor = c.PostForm("instructor")
	req.Duration = c.PostForm("duration")
	req.Level = c.PostForm("level")
	req.ThumbnailURL = c.PostForm("thumbnail")

	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, nil, appErrors.Clone(appErrors.ErrValidation, "price must be a number")
		}
		req.Price = price
	}
	if raw := c.PostForm("original_price"); raw != "" {
		original, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, nil, appErrors.Clone(appErrors.ErrValidation, "original price must be a number")
		}
		req.OriginalPrice = &original
	}

	fileHeader, err := c.FormFile("thumbnail_file")
	if err != nil {
		if err == http.ErrMissingFile {
			return req, nil, nil
		}
		return req, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid thumbnail upload")
	}
	if fileHeader.Size > h.maxFileSize {
		return req, nil, appErrors.Clone(appErrors.ErrValidation, "thumbnail exceeds the size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return req, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read thumbnail upload")
	}
	// Closed by the multipart reader when the request body is released.
	return req, &service.ThumbnailUpload{Filename: fileHeader.Filename, Reader: file}, nil
}

type setEnrolledRequest struct {
	Enrolled int `json:"enrolled"`
}

// SetEnrolled godoc
// @Summary Overwrite the enrolled counter
// @Tags Admin Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body setEnrolledRequest true "Enrolled counter"
// @Success 200 {object} response.Envelope
// @Router /admin/courses/{id}/enrolled [patch]
func (h *CourseAdminHandler) SetEnrolled(c *gin.Context) {
	var req setEnrolledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.SetEnrolled(c.Request.Context(), c.Param("id"), req.Enrolled)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Admin Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /admin/courses/{id} [delete]
func (h *CourseAdminHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
