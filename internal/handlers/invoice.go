package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"invoice-backend/internal/apperrors"
	"invoice-backend/internal/models"
)

// InvoiceService is what the HTTP boundary needs from the service layer.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) (*models.Invoice, error)
	GetAllInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id uint, input models.UpdateInvoiceInput) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id uint) error
}

type InvoiceHandler struct {
	service InvoiceService
	log     *logrus.Logger
}

func NewInvoiceHandler(service InvoiceService, log *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, log: log}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var input models.CreateInvoiceInput
	if err := bindStrict(c, &input); err != nil {
		h.respondError(c, "Create", err)
		return
	}
	if err := input.Validate(); err != nil {
		h.respondError(c, "Create", err)
		return
	}

	if _, err := h.service.CreateInvoice(c.Request.Context(), input.Invoice(), input.InvoiceItems()); err != nil {
		h.respondError(c, "Create", err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.service.GetAllInvoices(c.Request.Context())
	if err != nil {
		h.respondError(c, "List", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, "Get", err)
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Get", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, "Update", err)
		return
	}

	var input models.UpdateInvoiceInput
	if err := bindStrict(c, &input); err != nil {
		h.respondError(c, "Update", err)
		return
	}

	invoice, err := h.service.UpdateInvoice(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, "Update", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, "Delete", err)
		return
	}

	if err := h.service.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.respondError(c, "Delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindStrict decodes the body rejecting fields that are not part of the
// schema; gin's ShouldBindJSON would silently drop them.
func bindStrict(c *gin.Context, dst any) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, "malformed request body: "+err.Error(), err)
	}
	return nil
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrValidation, "invalid id")
	}
	return uint(id), nil
}
