// Package api exposes the catering pipeline over HTTP.
package api

import (
	"net/http"

	"caterer/internal/agents"
	"caterer/internal/feed"
	"caterer/internal/ledger"
	"caterer/internal/logging"
	"caterer/internal/menus"
	"caterer/internal/reporting"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services are the components the API delegates to
type Services struct {
	Planner *agents.MenuPlanner
	Menus   *menus.Store
	Ledger  *ledger.Ledger
	Reports *reporting.Service
	Feed    *feed.Hub
}

// CateringAPI represents the HTTP surface of the service
type CateringAPI struct {
	Router *gin.Engine
	Services
	logger *zap.Logger
	secret []byte
}

// NewCateringAPI creates the router. Extra middleware runs after request
// logging and before authentication.
func NewCateringAPI(svc Services, jwtSecret string, logger *zap.Logger, middleware ...gin.HandlerFunc) *CateringAPI {
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestID(), logging.GinMiddleware(logger))
	router.Use(middleware...)

	api := &CateringAPI{
		Router:   router,
		Services: svc,
		logger:   logger.Named("api"),
		secret:   []byte(jwtSecret),
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *CateringAPI) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Catering backend is running"})
	})

	v1 := a.Router.Group("/api/v1", OwnerAuth(a.secret))
	{
		// Menus
		v1.POST("/menus/generate", a.GenerateMenu)
		v1.POST("/menus/regenerate-section", a.RegenerateSection)
		v1.POST("/menus", a.SaveMenu)
		v1.GET("/menus", a.ListMenus)
		v1.GET("/menus/:id", a.GetMenu)
		v1.DELETE("/menus/:id", a.DeleteMenu)
		v1.GET("/menus/:id/pricing", a.ListPricing)

		// Pricing
		v1.POST("/pricing", a.SubmitPricing)

		// Invoices
		v1.POST("/invoices", a.SaveInvoice)
		v1.GET("/invoices", a.ListInvoices)
		v1.GET("/invoices/:id", a.GetInvoice)
		v1.PUT("/invoices/:id/status", a.UpdateOrderStatus)
		v1.GET("/invoices/:id/payments", a.ListPayments)
		v1.GET("/invoices/:id/payment-status", a.GetPaymentStatus)

		// Payments
		v1.POST("/payments", a.AddPayment)
		v1.PUT("/payments/:id", a.UpdatePayment)

		// Reporting
		v1.GET("/ledger", a.PaymentLedger)
		v1.GET("/ledger/feed", a.LedgerFeed)
		v1.GET("/dashboard", a.Dashboard)
	}
}
