package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/miftal/academy-api/internal/service"
	appErrors "github.com/miftal/academy-api/pkg/errors"
	"github.com/miftal/academy-api/pkg/response"
)

// ExportHandler exposes export generation and signed downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type generateExportRequest struct {
	Type   service.ExportType   `json:"type" binding:"required"`
	Format service.ExportFormat `json:"format" binding:"required"`
}

// Generate godoc
// @Summary Generate a CSV or PDF export
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body generateExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Router /admin/exports [post]
func (h *ExportHandler) Generate(c *gin.Context) {
	var req generateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.exports.Generate(c.Request.Context(), req.Type, req.Format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "export failed"))
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an export by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing download token"))
		return
	}

	_, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}

	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file no longer exists"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	mimeType := "application/octet-stream"
	switch filepath.Ext(relPath) {
	case ".csv":
		mimeType = "text/csv"
	case ".pdf":
		mimeType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.DataFromReader(http.StatusOK, info.Size(), mimeType, file, nil)
}
