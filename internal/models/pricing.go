package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingRecord is one cost breakdown submitted for a menu.
// Several records may exist for the same menu; none is ever modified.
type PricingRecord struct {
	ID                  uint            `gorm:"primary_key" json:"id"`
	MenuID              uint            `gorm:"not null;index" json:"menu_id"`
	BaseCost            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_cost"`
	LaborCost           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"labor_cost"`
	TransportCost       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"transport_cost"`
	ProfitMarginPercent decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"profit_margin_percent"`
	FinalQuoteAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"final_quote_amount"`
	CreatedAt           time.Time       `json:"created_at"`
}

// TableName sets the table name for PricingRecord
func (PricingRecord) TableName() string {
	return "pricing_records"
}

var hundred = decimal.NewFromInt(100)

// QuoteAmount adds the margin on top of the summed costs, rounded to paise
func QuoteAmount(base, labor, transport, marginPercent decimal.Decimal) decimal.Decimal {
	cost := base.Add(labor).Add(transport)
	return cost.Add(cost.Mul(marginPercent).Div(hundred)).Round(2)
}

// InvoiceGrandTotal applies tax to the final amount and subtracts the discount
func InvoiceGrandTotal(finalAmount, taxPercent, discount decimal.Decimal) decimal.Decimal {
	tax := finalAmount.Mul(taxPercent).Div(hundred)
	return finalAmount.Add(tax).Sub(discount).Round(2)
}
