package api

import (
	"net/http"

	"caterer/internal/ledger"
	"caterer/internal/logging"
	"caterer/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderStatusRequest struct {
	OrderStatus string `json:"order_status" binding:"required"`
}

type updatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
}

func (a *CateringAPI) SubmitPricing(c *gin.Context) {
	var in ledger.PricingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		a.respondBindError(c, err)
		return
	}
	record, err := a.Ledger.SubmitPricing(c.Request.Context(), OwnerID(c), in)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (a *CateringAPI) ListPricing(c *gin.Context) {
	menuID, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	records, err := a.Ledger.ListPricing(c.Request.Context(), OwnerID(c), menuID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing": records})
}

// SaveInvoice creates the invoice of a menu or updates it in place
func (a *CateringAPI) SaveInvoice(c *gin.Context) {
	var in ledger.InvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		a.respondBindError(c, err)
		return
	}
	res, err := a.Ledger.SaveInvoice(c.Request.Context(), OwnerID(c), in)
	if err != nil {
		a.respondError(c, err)
		return
	}

	status := http.StatusOK
	if res.Status == ledger.SaveCreated {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (a *CateringAPI) ListInvoices(c *gin.Context) {
	invoices, err := a.Ledger.ListInvoices(c.Request.Context(), OwnerID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (a *CateringAPI) GetInvoice(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	inv, err := a.Ledger.GetInvoice(c.Request.Context(), OwnerID(c), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateOrderStatus rejects values outside the known order states before
// they reach the ledger.
func (a *CateringAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	var body orderStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		a.respondBindError(c, err)
		return
	}
	status, err := models.ParseOrderStatus(body.OrderStatus)
	if err != nil {
		a.respondError(c, err)
		return
	}

	if err := a.Ledger.UpdateOrderStatus(c.Request.Context(), OwnerID(c), id, status); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (a *CateringAPI) AddPayment(c *gin.Context) {
	var in ledger.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		a.respondBindError(c, err)
		return
	}
	res, err := a.Ledger.AddPayment(c.Request.Context(), OwnerID(c), in)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentResponse(res))
}

func (a *CateringAPI) UpdatePayment(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	var body updatePaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		a.respondBindError(c, err)
		return
	}
	res, err := a.Ledger.UpdatePayment(c.Request.Context(), OwnerID(c), id, body.Amount, body.PaymentMode)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(res))
}

func paymentResponse(res *ledger.PaymentResult) gin.H {
	return gin.H{
		"status":         res.Status,
		"payment_id":     res.PaymentID,
		"balance":        res.Settlement.Balance,
		"payment_status": res.Settlement.Status,
	}
}

func (a *CateringAPI) ListPayments(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	payments, err := a.Ledger.ListPayments(c.Request.Context(), OwnerID(c), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetPaymentStatus reports the settlement computed from the current payments
func (a *CateringAPI) GetPaymentStatus(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	s, err := a.Ledger.GetPaymentStatus(c.Request.Context(), OwnerID(c), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *CateringAPI) PaymentLedger(c *gin.Context) {
	entries, err := a.Ledger.PaymentLedger(c.Request.Context(), OwnerID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ledger": entries})
}

// LedgerFeed upgrades to a websocket that receives the owner's settlement events
func (a *CateringAPI) LedgerFeed(c *gin.Context) {
	if err := a.Feed.Serve(c.Writer, c.Request, OwnerID(c)); err != nil {
		// the upgrader has already written the error response
		logging.FromContext(c, a.logger).Warn("feed upgrade failed", zap.Error(err))
	}
}
