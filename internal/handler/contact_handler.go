package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/internal/service"
	appErrors "github.com/miftal/academy-api/pkg/errors"
	"github.com/miftal/academy-api/pkg/response"
)

// ContactHandler exposes the public contact form and staff triage endpoints.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit godoc
// @Summary Submit a contact form
// @Tags Contacts
// @Accept json
// @Produce json
// @Param payload body service.SubmitContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	submission, err := h.contacts.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// List godoc
// @Summary List contact submissions
// @Tags Contacts
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /admin/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	filter := models.ContactFilter{
		Status: models.ContactStatus(c.Query("status")),
	}
	submissions, err := h.contacts.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}

// View godoc
// @Summary View a contact submission
// @Tags Contacts
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /admin/contacts/{id}/view [post]
func (h *ContactHandler) View(c *gin.Context) {
	submission, err := h.contacts.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

type updateContactStatusRequest struct {
	Status models.ContactStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update contact submission status
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body updateContactStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /admin/contacts/{id}/status [patch]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req updateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	submission, err := h.contacts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Delete godoc
// @Summary Delete a contact submission
// @Tags Contacts
// @Param id path string true "Submission ID"
// @Success 204
// @Router /admin/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
