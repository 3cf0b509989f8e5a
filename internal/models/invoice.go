package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents the single billing document issued for a menu
type Invoice struct {
	ID             uint            `gorm:"primary_key" json:"id"`
	OwnerID        string          `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	MenuID         uint            `gorm:"not null;unique_index:idx_invoices_menu_id" json:"menu_id"`
	ClientName     string          `json:"client_name"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"final_amount"`
	TaxPercent     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_percent"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount_amount"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"grand_total"`
	IsPaid         bool            `gorm:"not null" json:"is_paid"`
	EventDate      string          `gorm:"type:varchar(32)" json:"event_date"`
	OrderStatus    OrderStatus     `gorm:"type:varchar(20);not null" json:"order_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName sets the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// OrderStatus represents the lifecycle state of a catering order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValid checks if the status is one of the known order states
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus converts a raw status into an OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", NewDomainError(ErrInvalidInput.Code, fmt.Sprintf("unknown order status: %q", raw))
	}
	return s, nil
}

// SettlementStatus is the payment state derived from paid amount against grand total
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "Pending"
	SettlementPartial SettlementStatus = "Partial"
	SettlementPaid    SettlementStatus = "Paid"
)
