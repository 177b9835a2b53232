package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice is the billing document aggregate. InvoiceNumber is assigned by the
// invoice_number_seq database sequence (starts at 40000) and exposed as a
// string. Party fields are semi-free-form and stored as JSONB.
type Invoice struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	InvoiceNumber string           `gorm:"uniqueIndex;not null;default:nextval('invoice_number_seq')::text" json:"invoiceNumber"`
	InvoiceDate   time.Time        `gorm:"not null" json:"invoiceDate"`
	PaymentDate   time.Time        `gorm:"not null" json:"paymentDate"`
	BillTo        datatypes.JSON   `gorm:"type:jsonb;not null" json:"billTo"`
	ShipTo        datatypes.JSON   `gorm:"type:jsonb" json:"shipTo,omitempty"`
	Company       datatypes.JSON   `gorm:"type:jsonb" json:"company,omitempty"`
	SubTotal      decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"subTotal"`
	TaxRate       *decimal.Decimal `gorm:"type:numeric(5,2)" json:"taxRate,omitempty"`
	TaxAmount     *decimal.Decimal `gorm:"type:numeric(10,2)" json:"taxAmount,omitempty"`
	GrandTotal    decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"grandTotal"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
	Items         []InvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one billable line owned by an invoice.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"index;not null" json:"invoiceId"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Total       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }
