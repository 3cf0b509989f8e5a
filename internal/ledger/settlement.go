package ledger

import (
	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Settlement is the live payment position of one invoice
type Settlement struct {
	InvoiceID uint                    `json:"invoice_id"`
	Total     decimal.Decimal         `json:"total"`
	Paid      decimal.Decimal         `json:"paid"`
	Balance   decimal.Decimal         `json:"balance"`
	Status    models.SettlementStatus `json:"status"`
}

// IsSettled is the single threshold rule behind both the stored is_paid flag
// and the live status.
func IsSettled(total, paid decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total)
}

// Settle derives the three-way settlement status
func Settle(invoiceID uint, total, paid decimal.Decimal) Settlement {
	s := Settlement{
		InvoiceID: invoiceID,
		Total:     total,
		Paid:      paid,
		Balance:   total.Sub(paid),
	}
	switch {
	case IsSettled(total, paid):
		s.Status = models.SettlementPaid
	case paid.IsPositive():
		s.Status = models.SettlementPartial
	default:
		s.Status = models.SettlementPending
	}
	return s
}

// SumPayments adds up the amounts of all given payments
func SumPayments(payments []models.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// recompute rescans the invoice's payments inside tx and writes is_paid back
func recompute(tx *gorm.DB, inv *models.Invoice) (Settlement, error) {
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", inv.ID).Find(&payments).Error; err != nil {
		return Settlement{}, err
	}

	s := Settle(inv.ID, inv.GrandTotal, SumPayments(payments))
	paid := s.Status == models.SettlementPaid
	if inv.IsPaid != paid {
		if err := tx.Model(inv).UpdateColumn("is_paid", paid).Error; err != nil {
			return Settlement{}, err
		}
		inv.IsPaid = paid
	}
	return s, nil
}

// roundMoney rounds to the scale of the decimal(18,2) columns
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
