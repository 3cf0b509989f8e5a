package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"caterer/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBusinessCounters(t *testing.T) {
	m := New()

	m.MenuGenerated("generate", "parsed", 2*time.Second)
	m.MenuGenerated("generate", "parsed", time.Second)
	m.MenuGenerated("regenerate", "placeholder", time.Second)
	m.InvoiceSaved("created")
	m.InvoiceSaved("updated")
	m.InvoiceSaved("updated")
	m.PaymentRecorded("recorded", models.SettlementPartial)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("generate", "parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("regenerate", "placeholder")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesSaved.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("recorded", "Partial")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.generationLatency))
}

func TestRouterServesMetrics(t *testing.T) {
	m := New()
	m.InvoiceSaved("created")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Router("/metrics").ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `caterer_invoices_saved_total{outcome="created"} 1`)
	assert.Contains(t, body, "caterer_uptime_seconds")
	assert.Contains(t, body, "go_goroutines")
}

func TestGinMiddleware(t *testing.T) {
	m := New()
	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/api/v1/invoices/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/v1/invoices/1", "/api/v1/invoices/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/invoices/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
