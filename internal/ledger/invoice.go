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

// Outcomes reported by SaveInvoice
const (
	SaveCreated = "created"
	SaveUpdated = "updated"
)

// InvoiceInput carries the caller-editable invoice fields
type InvoiceInput struct {
	MenuID         uint            `json:"menu_id" binding:"required"`
	ClientName     string          `json:"client_name"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	EventDate      string          `json:"event_date"`
}

// SaveResult reports whether the invoice for a menu was created or updated
type SaveResult struct {
	Status string `json:"status"`
	ID     uint   `json:"id"`
}

// rounded returns the input with every money field at the 2 places the
// columns store, so the flag is derived from the values read back later.
func (in InvoiceInput) rounded() InvoiceInput {
	in.FinalAmount = roundMoney(in.FinalAmount)
	in.TaxPercent = roundMoney(in.TaxPercent)
	in.DiscountAmount = roundMoney(in.DiscountAmount)
	in.GrandTotal = roundMoney(in.GrandTotal)
	return in
}

func (in InvoiceInput) validate() error {
	if in.MenuID == 0 {
		return models.NewDomainError(models.ErrInvalidInput.Code, "menu_id is required")
	}
	for name, v := range map[string]decimal.Decimal{
		"final_amount":    in.FinalAmount,
		"tax_percent":     in.TaxPercent,
		"discount_amount": in.DiscountAmount,
		"grand_total":     in.GrandTotal,
	} {
		if v.IsNegative() {
			return models.NewDomainError(models.ErrInvalidInput.Code, name+" must not be negative")
		}
	}
	if in.grandTotal().IsNegative() {
		return models.NewDomainError(models.ErrInvalidInput.Code, "discount_amount exceeds the taxed final_amount")
	}
	return nil
}

// grandTotal uses the caller's total, or derives one when it was left at zero
func (in InvoiceInput) grandTotal() decimal.Decimal {
	if !in.GrandTotal.IsZero() {
		return in.GrandTotal
	}
	return roundMoney(models.InvoiceGrandTotal(in.FinalAmount, in.TaxPercent, in.DiscountAmount))
}

// SaveInvoice creates the invoice for in.MenuID or updates it in place.
// There is at most one invoice per menu; a concurrent insert that loses the
// race on the unique menu_id index is replayed once and becomes an update.
func (l *Ledger) SaveInvoice(ctx context.Context, owner string, in InvoiceInput) (*SaveResult, error) {
	in = in.rounded()
	if err := in.validate(); err != nil {
		return nil, err
	}

	res, err := l.saveInvoice(ctx, owner, in)
	if err != nil && database.IsUniqueViolation(err) {
		l.logger.Warn("invoice insert lost race, retrying as update", zap.Uint("menu_id", in.MenuID))
		res, err = l.saveInvoice(ctx, owner, in)
	}
	if err != nil {
		return nil, err
	}

	l.recorder.InvoiceSaved(res.Status)
	l.logger.Info("invoice saved",
		zap.String("status", res.Status),
		zap.Uint("invoice_id", res.ID),
		zap.Uint("menu_id", in.MenuID),
		zap.String("owner_id", owner),
	)
	return res, nil
}

func (l *Ledger) saveInvoice(ctx context.Context, owner string, in InvoiceInput) (*SaveResult, error) {
	var res SaveResult
	grand := in.grandTotal()

	err := l.transaction(ctx, func(tx *gorm.DB) error {
		var inv models.Invoice
		err := database.ForUpdate(tx).Where("menu_id = ?", in.MenuID).First(&inv).Error
		switch {
		case gorm.IsRecordNotFoundError(err):
			if err := requireMenu(tx, owner, in.MenuID); err != nil {
				return err
			}
			inv = models.Invoice{
				OwnerID:        owner,
				MenuID:         in.MenuID,
				ClientName:     in.ClientName,
				FinalAmount:    in.FinalAmount,
				TaxPercent:     in.TaxPercent,
				DiscountAmount: in.DiscountAmount,
				GrandTotal:     grand,
				IsPaid:         IsSettled(grand, decimal.Zero),
				EventDate:      in.EventDate,
				OrderStatus:    models.OrderStatusPending,
			}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
			res = SaveResult{Status: SaveCreated, ID: inv.ID}
			return nil
		case err != nil:
			return fmt.Errorf("failed to look up invoice for menu %d: %w", in.MenuID, err)
		}

		if inv.OwnerID != owner {
			return models.ErrNotFound
		}

		inv.ClientName = in.ClientName
		inv.FinalAmount = in.FinalAmount
		inv.TaxPercent = in.TaxPercent
		inv.DiscountAmount = in.DiscountAmount
		inv.GrandTotal = grand
		inv.EventDate = in.EventDate
		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("failed to update invoice %d: %w", inv.ID, err)
		}

		// Payments may predate the final terms, so the flag is re-derived here.
		if _, err := recompute(tx, &inv); err != nil {
			return fmt.Errorf("failed to recompute invoice %d: %w", inv.ID, err)
		}
		res = SaveResult{Status: SaveUpdated, ID: inv.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func requireMenu(tx *gorm.DB, owner string, menuID uint) error {
	var count int
	if err := tx.Model(&models.Menu{}).Where("id = ? AND owner_id = ?", menuID, owner).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up menu %d: %w", menuID, err)
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateOrderStatus overwrites the lifecycle state of an invoice.
// The value is not checked against the known states here; callers at the
// boundary are expected to parse it with models.ParseOrderStatus.
func (l *Ledger) UpdateOrderStatus(ctx context.Context, owner string, invoiceID uint, status models.OrderStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := l.db.Model(&models.Invoice{}).
		Where("id = ? AND owner_id = ?", invoiceID, owner).
		UpdateColumn("order_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status of invoice %d: %w", invoiceID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	l.logger.Info("order status updated", zap.Uint("invoice_id", invoiceID), zap.String("order_status", string(status)))
	return nil
}

// GetInvoice returns one invoice of the owner
func (l *Ledger) GetInvoice(ctx context.Context, owner string, invoiceID uint) (*models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return findInvoice(l.db, owner, invoiceID)
}

// ListInvoices returns the owner's invoices, newest first
func (l *Ledger) ListInvoices(ctx context.Context, owner string) ([]models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var invoices []models.Invoice
	if err := l.db.Where("owner_id = ?", owner).Order("id desc").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func findInvoice(db *gorm.DB, owner string, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := db.Where("id = ? AND owner_id = ?", invoiceID, owner).First(&inv).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %d: %w", invoiceID, err)
	}
	return &inv, nil
}
