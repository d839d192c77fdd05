package collectpointsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Collectpoint HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Wallet is the response of wallet mutations.
type Wallet struct {
	NewWalletBalance string `json:"new_wallet_balance"`
}

// Account represents an operator or pickup partner account.
type Account struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Status        string `json:"status,omitempty"`
	WalletBalance string `json:"wallet_balance"`
	TotalOrders   int    `json:"total_orders"`
	MCPID         string `json:"mcp_id,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Order represents a collection order.
type Order struct {
	ID              string  `json:"id"`
	MCPID           string  `json:"mcp_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerAddress string  `json:"customer_address"`
	CustomerContact string  `json:"customer_contact"`
	Amount          string  `json:"amount"`
	Status          string  `json:"status"`
	AssignedTo      *string `json:"assigned_to,omitempty"`
	PartnerName     string  `json:"partner_name,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Assignment pairs the updated order with the updated partner.
type Assignment struct {
	Order   Order   `json:"order"`
	Partner Account `json:"partner"`
}

// PartnerSummary is the dashboard projection of a partner.
type PartnerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TotalOrders int    `json:"total_orders"`
}

// OrderCounts aggregates orders by status.
type OrderCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Dashboard is the operator dashboard snapshot.
type Dashboard struct {
	WalletBalance  string           `json:"wallet_balance"`
	PickupPartners []PartnerSummary `json:"pickup_partners"`
	Orders         OrderCounts      `json:"orders"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// TopUp credits the operator wallet.
func (c *Client) TopUp(ctx context.Context, amount string) (Wallet, error) {
	var resp Wallet
	err := c.do(ctx, http.MethodPost, "v1/wallet/topup", map[string]any{"amount": amount}, &resp)
	return resp, err
}

// Transfer moves funds from the operator wallet to a partner wallet.
func (c *Client) Transfer(ctx context.Context, partnerID, amount string) (Wallet, error) {
	body := map[string]any{
		"partner_id": partnerID,
		"amount":     amount,
	}
	var resp Wallet
	err := c.do(ctx, http.MethodPost, "v1/wallet/transfer", body, &resp)
	return resp, err
}

// CreatePartner registers a new pickup partner.
func (c *Client) CreatePartner(ctx context.Context, name string) (Account, error) {
	var resp Account
	err := c.do(ctx, http.MethodPost, "v1/partners", map[string]any{"name": name}, &resp)
	return resp, err
}

// ListPartners returns the operator's partner roster.
func (c *Client) ListPartners(ctx context.Context) ([]Account, error) {
	var resp []Account
	err := c.do(ctx, http.MethodGet, "v1/partners", nil, &resp)
	return resp, err
}

// DeletePartner removes a partner and unassigns its orders.
func (c *Client) DeletePartner(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("v1/partners/%s", url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CreateOrder records a new collection order.
func (c *Client) CreateOrder(ctx context.Context, customerName, customerAddress, customerContact, amount string) (Order, error) {
	body := map[string]any{
		"customer_name":    customerName,
		"customer_address": customerAddress,
		"customer_contact": customerContact,
		"amount":           amount,
	}
	var resp Order
	err := c.do(ctx, http.MethodPost, "v1/orders", body, &resp)
	return resp, err
}

// ListOrders returns orders, optionally filtered by partner and status.
func (c *Client) ListOrders(ctx context.Context, partnerID, status string) ([]Order, error) {
	endpoint := "v1/orders"
	q := url.Values{}
	if partnerID != "" {
		q.Set("partner_id", partnerID)
	}
	if status != "" {
		q.Set("status", status)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp []Order
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// AssignOrder hands an order to a partner.
func (c *Client) AssignOrder(ctx context.Context, orderID, partnerID string) (Assignment, error) {
	body := map[string]any{
		"order_id":   orderID,
		"partner_id": partnerID,
	}
	var resp Assignment
	err := c.do(ctx, http.MethodPost, "v1/orders/assign", body, &resp)
	return resp, err
}

// UpdateOrderStatus changes an order's status label.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (Order, error) {
	var resp Order
	endpoint := fmt.Sprintf("v1/orders/%s/status", url.PathEscape(orderID))
	err := c.do(ctx, http.MethodPatch, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// Dashboard fetches the operator dashboard snapshot.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var resp Dashboard
	err := c.do(ctx, http.MethodGet, "v1/dashboard", nil, &resp)
	return resp, err
}

// OrderReport returns order counts over a daily or weekly window.
func (c *Client) OrderReport(ctx context.Context, rng string) (OrderCounts, error) {
	endpoint := "v1/orders/report"
	if rng != "" {
		endpoint += "?range=" + url.QueryEscape(rng)
	}
	var resp OrderCounts
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
