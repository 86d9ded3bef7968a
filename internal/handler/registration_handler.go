package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/internal/service"
	appErrors "github.com/miftal/academy-api/pkg/errors"
	"github.com/miftal/academy-api/pkg/response"
)

// RegistrationHandler exposes the public submission endpoint and the staff
// review endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Submit godoc
// @Summary Submit a course registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.SubmitRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req service.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = &claims.UserID
	}

	registration, err := h.registrations.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Param status query string false "Filter by status"
// @Param courseId query string false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	filter := models.RegistrationFilter{
		CourseID: c.Query("courseId"),
		Status:   models.RegistrationStatus(c.Query("status")),
	}
	registrations, err := h.registrations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, nil)
}

// Get godoc
// @Summary Get registration detail
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	registration, err := h.registrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}

type updateRegistrationStatusRequest struct {
	Status models.RegistrationStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update registration status
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param payload body updateRegistrationStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/{id}/status [patch]
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	var req updateRegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.registrations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	registration, err := h.registrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}
