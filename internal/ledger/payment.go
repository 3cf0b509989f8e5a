package ledger

import (
	"context"
	"fmt"

	"caterer/internal/database"
	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Outcomes reported by the payment operations
const (
	PaymentRecorded = "recorded"
	PaymentUpdated  = "updated"
)

// EventSettlement is the feed event kind published after payment mutations
const EventSettlement = "settlement"

// PaymentInput describes a new payment against an invoice
type PaymentInput struct {
	InvoiceID   uint            `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	PaymentMode string          `json:"payment_mode"`
}

// PaymentResult is returned by AddPayment and UpdatePayment
type PaymentResult struct {
	Status     string     `json:"status"`
	PaymentID  uint       `json:"payment_id"`
	Settlement Settlement `json:"settlement"`
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return models.NewDomainError(models.ErrInvalidInput.Code, "amount must be greater than zero")
	}
	return nil
}

// AddPayment records a payment and re-derives the invoice's paid flag from
// the payment set as it stands right after the insert.
func (l *Ledger) AddPayment(ctx context.Context, owner string, in PaymentInput) (*PaymentResult, error) {
	in.Amount = roundMoney(in.Amount)
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	var res PaymentResult
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, owner, in.InvoiceID)
		if err != nil {
			return err
		}

		payment := models.Payment{
			InvoiceID:   inv.ID,
			Amount:      in.Amount,
			PaymentDate: in.PaymentDate,
			PaymentMode: in.PaymentMode,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		s, err := recompute(tx, inv)
		if err != nil {
			return fmt.Errorf("failed to recompute invoice %d: %w", inv.ID, err)
		}
		res = PaymentResult{Status: PaymentRecorded, PaymentID: payment.ID, Settlement: s}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterPayment(owner, &res)
	return &res, nil
}

// UpdatePayment corrects the amount and mode of an existing payment, then
// re-derives the invoice's paid flag. An empty mode keeps the current one.
func (l *Ledger) UpdatePayment(ctx context.Context, owner string, paymentID uint, amount decimal.Decimal, mode string) (*PaymentResult, error) {
	amount = roundMoney(amount)
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var res PaymentResult
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Where("id = ?", paymentID).First(&payment).Error
		if gorm.IsRecordNotFoundError(err) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load payment %d: %w", paymentID, err)
		}

		inv, err := lockInvoice(tx, owner, payment.InvoiceID)
		if err != nil {
			return err
		}

		payment.Amount = amount
		if mode != "" {
			payment.PaymentMode = mode
		}
		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("failed to update payment %d: %w", paymentID, err)
		}

		s, err := recompute(tx, inv)
		if err != nil {
			return fmt.Errorf("failed to recompute invoice %d: %w", inv.ID, err)
		}
		res = PaymentResult{Status: PaymentUpdated, PaymentID: payment.ID, Settlement: s}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterPayment(owner, &res)
	return &res, nil
}

func (l *Ledger) afterPayment(owner string, res *PaymentResult) {
	l.recorder.PaymentRecorded(res.Status, res.Settlement.Status)
	l.publisher.Publish(owner, EventSettlement, res.Settlement)
	l.logger.Info("payment "+res.Status,
		zap.Uint("payment_id", res.PaymentID),
		zap.Uint("invoice_id", res.Settlement.InvoiceID),
		zap.String("settlement", string(res.Settlement.Status)),
		zap.String("balance", res.Settlement.Balance.String()),
	)
}

// lockInvoice loads the owner's invoice, holding a row lock where supported
func lockInvoice(tx *gorm.DB, owner string, invoiceID uint) (*models.Invoice, error) {
	return findInvoice(database.ForUpdate(tx), owner, invoiceID)
}

// GetPaymentStatus computes the settlement of an invoice from its current
// payments. The stored is_paid flag is not consulted.
func (l *Ledger) GetPaymentStatus(ctx context.Context, owner string, invoiceID uint) (*Settlement, error) {
	var s Settlement
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		inv, err := findInvoice(tx, owner, invoiceID)
		if err != nil {
			return err
		}
		var payments []models.Payment
		if err := tx.Where("invoice_id = ?", inv.ID).Find(&payments).Error; err != nil {
			return fmt.Errorf("failed to load payments of invoice %d: %w", inv.ID, err)
		}
		s = Settle(inv.ID, inv.GrandTotal, SumPayments(payments))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListPayments returns the payments of one of the owner's invoices, oldest first
func (l *Ledger) ListPayments(ctx context.Context, owner string, invoiceID uint) ([]models.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := findInvoice(l.db, owner, invoiceID); err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := l.db.Where("invoice_id = ?", invoiceID).Order("id asc").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments of invoice %d: %w", invoiceID, err)
	}
	return payments, nil
}

// LedgerEntry summarizes the settlement of one invoice for the owner's ledger
type LedgerEntry struct {
	Settlement
	MenuID      uint               `json:"menu_id"`
	ClientName  string             `json:"client_name"`
	EventDate   string             `json:"event_date"`
	EventType   string             `json:"event_type,omitempty"`
	MenuMissing bool               `json:"menu_missing"`
	OrderStatus models.OrderStatus `json:"order_status"`
	IsPaid      bool               `json:"is_paid"`
}

// PaymentLedger lists a settlement summary for every invoice of the owner.
// Invoices whose menu has been deleted are reported with MenuMissing set.
func (l *Ledger) PaymentLedger(ctx context.Context, owner string) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		var invoices []models.Invoice
		if err := tx.Where("owner_id = ?", owner).Order("id desc").Find(&invoices).Error; err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}
		if len(invoices) == 0 {
			return nil
		}

		ids := make([]uint, len(invoices))
		menuIDs := make([]uint, len(invoices))
		for i, inv := range invoices {
			ids[i] = inv.ID
			menuIDs[i] = inv.MenuID
		}

		var payments []models.Payment
		if err := tx.Where("invoice_id IN (?)", ids).Find(&payments).Error; err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		byInvoice := make(map[uint][]models.Payment, len(invoices))
		for _, p := range payments {
			byInvoice[p.InvoiceID] = append(byInvoice[p.InvoiceID], p)
		}

		var menus []models.Menu
		if err := tx.Where("owner_id = ? AND id IN (?)", owner, menuIDs).Find(&menus).Error; err != nil {
			return fmt.Errorf("failed to load menus: %w", err)
		}
		eventTypes := make(map[uint]string, len(menus))
		for _, m := range menus {
			eventTypes[m.ID] = m.EventType
		}

		entries = make([]LedgerEntry, 0, len(invoices))
		for _, inv := range invoices {
			eventType, found := eventTypes[inv.MenuID]
			entries = append(entries, LedgerEntry{
				Settlement:  Settle(inv.ID, inv.GrandTotal, SumPayments(byInvoice[inv.ID])),
				MenuID:      inv.MenuID,
				ClientName:  inv.ClientName,
				EventDate:   inv.EventDate,
				EventType:   eventType,
				MenuMissing: !found,
				OrderStatus: inv.OrderStatus,
				IsPaid:      inv.IsPaid,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []LedgerEntry{}
	}
	return entries, nil
}
