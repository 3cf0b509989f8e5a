package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents money received against an invoice
type Payment struct {
	ID          uint            `gorm:"primary_key" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentDate string          `gorm:"type:varchar(32)" json:"payment_date"`
	PaymentMode string          `gorm:"type:varchar(32)" json:"payment_mode"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
