package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"invoice-backend/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

const dateLayout = "2006-01-02"

// ParseDate accepts plain dates and RFC 3339 timestamps.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CreateInvoiceInput mirrors the persisted shape minus generated fields
// (id, invoiceNumber, timestamps). Amounts arrive as fixed-point decimals,
// dates as YYYY-MM-DD strings.
type CreateInvoiceInput struct {
	InvoiceData CreateInvoiceData   `json:"invoiceData"`
	Items       []CreateInvoiceItem `json:"items" validate:"dive"`
}

type CreateInvoiceData struct {
	InvoiceDate string           `json:"invoiceDate" validate:"required"`
	PaymentDate string           `json:"paymentDate" validate:"required"`
	BillTo      json.RawMessage  `json:"billTo" validate:"required"`
	ShipTo      json.RawMessage  `json:"shipTo,omitempty"`
	Company     json.RawMessage  `json:"company,omitempty"`
	SubTotal    *decimal.Decimal `json:"subTotal" validate:"required"`
	TaxRate     *decimal.Decimal `json:"taxRate,omitempty"`
	TaxAmount   *decimal.Decimal `json:"taxAmount,omitempty"`
	GrandTotal  *decimal.Decimal `json:"grandTotal" validate:"required"`
	Notes       string           `json:"notes,omitempty"`
}

type CreateInvoiceItem struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Total       *decimal.Decimal `json:"total" validate:"required"`
}

// Validate reports every violation at once: field-level checks first, then
// the numeric invariants (grandTotal = subTotal + taxAmount, item total =
// quantity x amount). Must pass before Invoice/InvoiceItems are called.
func (in *CreateInvoiceInput) Validate() error {
	fields := map[string]string{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.Wrap(apperrors.ErrValidation, "invalid invoice payload", err)
		}
		for _, fe := range verrs {
			fields[trimNamespace(fe.Namespace())] = violationMessage(fe)
		}
	}

	data := in.InvoiceData
	if data.InvoiceDate != "" {
		if _, err := ParseDate(data.InvoiceDate); err != nil {
			fields["invoiceData.invoiceDate"] = "must be a date (YYYY-MM-DD)"
		}
	}
	if data.PaymentDate != "" {
		if _, err := ParseDate(data.PaymentDate); err != nil {
			fields["invoiceData.paymentDate"] = "must be a date (YYYY-MM-DD)"
		}
	}
	if len(data.BillTo) > 0 && !isJSONObject(data.BillTo) {
		fields["invoiceData.billTo"] = "must be an object"
	}
	if isPresent(data.ShipTo) && !isJSONObject(data.ShipTo) {
		fields["invoiceData.shipTo"] = "must be an object"
	}
	if isPresent(data.Company) && !isJSONObject(data.Company) {
		fields["invoiceData.company"] = "must be an object"
	}
	if data.SubTotal != nil && data.GrandTotal != nil {
		tax := decimal.Zero
		if data.TaxAmount != nil {
			tax = *data.TaxAmount
		}
		if !data.SubTotal.Add(tax).Equal(*data.GrandTotal) {
			fields["invoiceData.grandTotal"] = "must equal subTotal plus taxAmount"
		}
	}
	for i, item := range in.Items {
		if item.Amount != nil && item.Total != nil && item.Quantity > 0 {
			expected := item.Amount.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if !expected.Equal(*item.Total) {
				fields[fmt.Sprintf("items[%d].total", i)] = "must equal quantity times amount"
			}
		}
	}

	if len(fields) > 0 {
		return apperrors.Validation("invalid invoice payload", fields)
	}
	return nil
}

// Invoice converts the validated input into the persisted record shape.
func (in *CreateInvoiceInput) Invoice() *Invoice {
	data := in.InvoiceData
	invoiceDate, _ := ParseDate(data.InvoiceDate)
	paymentDate, _ := ParseDate(data.PaymentDate)

	invoice := &Invoice{
		InvoiceDate: invoiceDate,
		PaymentDate: paymentDate,
		BillTo:      datatypes.JSON(data.BillTo),
		SubTotal:    *data.SubTotal,
		TaxRate:     data.TaxRate,
		TaxAmount:   data.TaxAmount,
		GrandTotal:  *data.GrandTotal,
		Notes:       data.Notes,
	}
	if isPresent(data.ShipTo) {
		invoice.ShipTo = datatypes.JSON(data.ShipTo)
	}
	if isPresent(data.Company) {
		invoice.Company = datatypes.JSON(data.Company)
	}
	return invoice
}

func (in *CreateInvoiceInput) InvoiceItems() []InvoiceItem {
	items := make([]InvoiceItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, InvoiceItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      *item.Amount,
			Total:       *item.Total,
		})
	}
	return items
}

// UpdateInvoiceInput is a partial update: nil means leave the field as is.
type UpdateInvoiceInput struct {
	InvoiceDate *string          `json:"invoiceDate,omitempty"`
	PaymentDate *string          `json:"paymentDate,omitempty"`
	BillTo      json.RawMessage  `json:"billTo,omitempty"`
	ShipTo      json.RawMessage  `json:"shipTo,omitempty"`
	Company     json.RawMessage  `json:"company,omitempty"`
	SubTotal    *decimal.Decimal `json:"subTotal,omitempty"`
	TaxRate     *decimal.Decimal `json:"taxRate,omitempty"`
	TaxAmount   *decimal.Decimal `json:"taxAmount,omitempty"`
	GrandTotal  *decimal.Decimal `json:"grandTotal,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// Apply validates the partial update against the current record and returns
// the column updates to persist. The totals invariant is checked on the
// merged result so a partial change cannot leave the record inconsistent.
func (in *UpdateInvoiceInput) Apply(current *Invoice) (map[string]any, error) {
	fields := map[string]string{}
	updates := map[string]any{}

	if in.InvoiceDate != nil {
		if t, err := ParseDate(*in.InvoiceDate); err != nil {
			fields["invoiceDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			updates["invoice_date"] = t
		}
	}
	if in.PaymentDate != nil {
		if t, err := ParseDate(*in.PaymentDate); err != nil {
			fields["paymentDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			updates["payment_date"] = t
		}
	}
	if len(in.BillTo) > 0 {
		if !isJSONObject(in.BillTo) {
			fields["billTo"] = "must be an object"
		} else {
			updates["bill_to"] = datatypes.JSON(in.BillTo)
		}
	}
	if isPresent(in.ShipTo) {
		if !isJSONObject(in.ShipTo) {
			fields["shipTo"] = "must be an object"
		} else {
			updates["ship_to"] = datatypes.JSON(in.ShipTo)
		}
	}
	if isPresent(in.Company) {
		if !isJSONObject(in.Company) {
			fields["company"] = "must be an object"
		} else {
			updates["company"] = datatypes.JSON(in.Company)
		}
	}

	subTotal := current.SubTotal
	if in.SubTotal != nil {
		subTotal = *in.SubTotal
		updates["sub_total"] = *in.SubTotal
	}
	taxAmount := decimal.Zero
	if current.TaxAmount != nil {
		taxAmount = *current.TaxAmount
	}
	if in.TaxAmount != nil {
		taxAmount = *in.TaxAmount
		updates["tax_amount"] = *in.TaxAmount
	}
	grandTotal := current.GrandTotal
	if in.GrandTotal != nil {
		grandTotal = *in.GrandTotal
		updates["grand_total"] = *in.GrandTotal
	}
	if !subTotal.Add(taxAmount).Equal(grandTotal) {
		fields["grandTotal"] = "must equal subTotal plus taxAmount"
	}
	if in.TaxRate != nil {
		updates["tax_rate"] = *in.TaxRate
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid invoice update", fields)
	}
	return updates, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

func trimNamespace(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
