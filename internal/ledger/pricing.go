package ledger

import (
	"context"
	"fmt"

	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingInput is a cost breakdown submitted for a menu
type PricingInput struct {
	MenuID              uint            `json:"menu_id" binding:"required"`
	BaseCost            decimal.Decimal `json:"base_cost"`
	LaborCost           decimal.Decimal `json:"labor_cost"`
	TransportCost       decimal.Decimal `json:"transport_cost"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
	FinalQuoteAmount    decimal.Decimal `json:"final_quote_amount"`
}

// SubmitPricing stores a new pricing record for one of the owner's menus.
// A zero final quote is computed from the costs and the margin.
func (l *Ledger) SubmitPricing(ctx context.Context, owner string, in PricingInput) (*models.PricingRecord, error) {
	for _, v := range []*decimal.Decimal{&in.BaseCost, &in.LaborCost, &in.TransportCost, &in.ProfitMarginPercent, &in.FinalQuoteAmount} {
		*v = roundMoney(*v)
	}
	for _, v := range []decimal.Decimal{in.BaseCost, in.LaborCost, in.TransportCost, in.ProfitMarginPercent, in.FinalQuoteAmount} {
		if v.IsNegative() {
			return nil, models.NewDomainError(models.ErrInvalidInput.Code, "pricing values must not be negative")
		}
	}

	quote := in.FinalQuoteAmount
	if quote.IsZero() {
		quote = roundMoney(models.QuoteAmount(in.BaseCost, in.LaborCost, in.TransportCost, in.ProfitMarginPercent))
	}

	record := models.PricingRecord{
		MenuID:              in.MenuID,
		BaseCost:            in.BaseCost,
		LaborCost:           in.LaborCost,
		TransportCost:       in.TransportCost,
		ProfitMarginPercent: in.ProfitMarginPercent,
		FinalQuoteAmount:    quote,
	}
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		if err := requireMenu(tx, owner, in.MenuID); err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to save pricing for menu %d: %w", in.MenuID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("pricing recorded",
		zap.Uint("pricing_id", record.ID),
		zap.Uint("menu_id", record.MenuID),
		zap.String("final_quote_amount", record.FinalQuoteAmount.String()),
	)
	return &record, nil
}

// ListPricing returns every pricing attempt for the owner's menu, oldest first
func (l *Ledger) ListPricing(ctx context.Context, owner string, menuID uint) ([]models.PricingRecord, error) {
	var records []models.PricingRecord
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		if err := requireMenu(tx, owner, menuID); err != nil {
			return err
		}
		return tx.Where("menu_id = ?", menuID).Order("id asc").Find(&records).Error
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
