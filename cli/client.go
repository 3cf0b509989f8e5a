package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles requests to the catering API on behalf of one owner
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient reads CATERER_API_URL and CATERER_TOKEN from the environment
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("CATERER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("CATERER_TOKEN"),
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// DashboardStats mirrors GET /api/v1/dashboard
type DashboardStats struct {
	TotalEvents      int    `json:"total_events"`
	TotalGuests      int    `json:"total_guests"`
	ProjectedRevenue string `json:"projected_revenue"`
	TopCuisine       string `json:"top_cuisine"`
}

// LedgerEntry mirrors one row of GET /api/v1/ledger. Amounts are decimal strings.
type LedgerEntry struct {
	InvoiceID   uint   `json:"invoice_id"`
	Total       string `json:"total"`
	Paid        string `json:"paid"`
	Balance     string `json:"balance"`
	Status      string `json:"status"`
	MenuID      uint   `json:"menu_id"`
	ClientName  string `json:"client_name"`
	EventDate   string `json:"event_date"`
	EventType   string `json:"event_type"`
	MenuMissing bool   `json:"menu_missing"`
	OrderStatus string `json:"order_status"`
	IsPaid      bool   `json:"is_paid"`
}

// Payment mirrors a stored payment
type Payment struct {
	ID          uint   `json:"id"`
	InvoiceID   uint   `json:"invoice_id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
	PaymentMode string `json:"payment_mode"`
}

// PaymentResult is returned after a payment is recorded
type PaymentResult struct {
	Status        string `json:"status"`
	PaymentID     uint   `json:"payment_id"`
	Balance       string `json:"balance"`
	PaymentStatus string `json:"payment_status"`
}

// GetDashboard fetches the dashboard figures
func (c *ApiClient) GetDashboard() (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(http.MethodGet, "/api/v1/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetLedger fetches the settlement summary of every invoice
func (c *ApiClient) GetLedger() ([]LedgerEntry, error) {
	var body struct {
		Ledger []LedgerEntry `json:"ledger"`
	}
	if err := c.do(http.MethodGet, "/api/v1/ledger", nil, &body); err != nil {
		return nil, err
	}
	return body.Ledger, nil
}

// GetPayments fetches the payments of one invoice
func (c *ApiClient) GetPayments(invoiceID uint) ([]Payment, error) {
	var body struct {
		Payments []Payment `json:"payments"`
	}
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/invoices/%d/payments", invoiceID), nil, &body); err != nil {
		return nil, err
	}
	return body.Payments, nil
}

// AddPayment records a payment against an invoice
func (c *ApiClient) AddPayment(invoiceID uint, amount, mode string) (*PaymentResult, error) {
	payload := map[string]interface{}{
		"invoice_id":   invoiceID,
		"amount":       json.Number(amount),
		"payment_mode": mode,
		"payment_date": time.Now().Format("2006-01-02"),
	}
	var res PaymentResult
	if err := c.do(http.MethodPost, "/api/v1/payments", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateOrderStatus moves an invoice to another order state
func (c *ApiClient) UpdateOrderStatus(invoiceID uint, status string) error {
	payload := map[string]string{"order_status": status}
	return c.do(http.MethodPut, fmt.Sprintf("/api/v1/invoices/%d/status", invoiceID), payload, nil)
}

func (c *ApiClient) do(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
