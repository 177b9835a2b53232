package handlers

import (
	"github.com/gin-gonic/gin"

	"invoice-backend/internal/apperrors"
	"invoice-backend/internal/logger"
	"invoice-backend/internal/middleware"
)

// respondError logs the full failure and serializes only the client-safe
// message (plus per-field details for validation errors).
func (h *InvoiceHandler) respondError(c *gin.Context, op string, err error) {
	logger.LogError(h.log, "invoice", op, c.GetString(middleware.ContextRequestID), err)

	body := gin.H{"message": apperrors.Message(err)}
	if fields := apperrors.FieldErrors(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(apperrors.Status(err), body)
}
