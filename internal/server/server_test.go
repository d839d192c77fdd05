package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"

	"collectpoint/internal/config"
	"collectpoint/internal/db"
	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
	"collectpoint/internal/migrate"
	"collectpoint/internal/repo"
)

func apiKeyFixture(accountID, rawKey string) domain.APIKey {
	return domain.APIKey{
		ID:        "key-1",
		AccountID: accountID,
		Name:      "test",
		KeyHash:   repo.HashAPIKey(rawKey),
	}
}

type testServer struct {
	URL    string
	Engine engine.Engine
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

const testMCP = "mcp-1"

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	workspace := t.TempDir()
	if _, err := db.EnsureWorkspace(workspace); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, config.Default())
	if _, err := e.CreateMCP(context.Background(), testMCP, "Test Operator"); err != nil {
		t.Fatalf("create mcp: %v", err)
	}
	handler, err := New(Config{
		Engine:   e,
		BasePath: "/v1",
		Auth:     AuthConfig{AllowLegacyAccountHeader: true},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		Engine: e,
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-Id", testMCP)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func createPartner(t *testing.T, srv *testServer, name string) AccountResponse {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/partners", map[string]any{"name": name}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create partner: %d %s", res.StatusCode, string(data))
	}
	var p AccountResponse
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal partner: %v", err)
	}
	return p
}

func createOrder(t *testing.T, srv *testServer, amount string) OrderResponse {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/orders", map[string]any{
		"customer_name":    "Asha",
		"customer_address": "12 Market Rd",
		"customer_contact": "9999900000",
		"amount":           amount,
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create order: %d %s", res.StatusCode, string(data))
	}
	var o OrderResponse
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	return o
}

func TestWalletFlow(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	p := createPartner(t, srv, "Ravi")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/wallet/topup", map[string]any{"amount": "1000"}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("topup: %d %s", res.StatusCode, string(data))
	}
	var wallet WalletResponse
	_ = json.Unmarshal(data, &wallet)
	if wallet.NewWalletBalance != "1000" {
		t.Fatalf("expected balance 1000, got %s", wallet.NewWalletBalance)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v1/wallet/transfer", map[string]any{
		"partner_id": p.ID,
		"amount":     "300",
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("transfer: %d %s", res.StatusCode, string(data))
	}
	_ = json.Unmarshal(data, &wallet)
	if wallet.NewWalletBalance != "700" {
		t.Fatalf("expected balance 700, got %s", wallet.NewWalletBalance)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v1/wallet/transfer", map[string]any{
		"partner_id": p.ID,
		"amount":     "800",
	}, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for overdraw, got %d %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if envelope.Error.Code != "insufficient_funds" {
		t.Fatalf("expected insufficient_funds, got %q", envelope.Error.Code)
	}
}

func TestTopUpInvalidAmount(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/wallet/topup", map[string]any{"amount": "-5"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(data, &envelope)
	if envelope.Error.Code != "invalid_amount" {
		t.Fatalf("expected invalid_amount, got %q", envelope.Error.Code)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	p := createPartner(t, srv, "Ravi")
	o := createOrder(t, srv, "150")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/orders/assign", map[string]any{
		"order_id":   o.ID,
		"partner_id": p.ID,
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("assign: %d %s", res.StatusCode, string(data))
	}
	var assigned AssignOrderResponse
	if err := json.Unmarshal(data, &assigned); err != nil {
		t.Fatalf("unmarshal assign: %v", err)
	}
	if assigned.Order.Status != "In Progress" {
		t.Fatalf("expected In Progress, got %s", assigned.Order.Status)
	}
	if assigned.Partner.TotalOrders != 1 {
		t.Fatalf("expected totalOrders 1, got %d", assigned.Partner.TotalOrders)
	}

	res, data = doJSON(t, client, http.MethodPatch, srv.URL+"/v1/orders/"+o.ID+"/status", map[string]any{"status": "Pending"}, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for back-to-pending, got %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodPatch, srv.URL+"/v1/orders/"+o.ID+"/status", map[string]any{"status": "Completed"}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("complete: %d %s", res.StatusCode, string(data))
	}
	var done OrderResponse
	_ = json.Unmarshal(data, &done)
	if done.Status != "Completed" {
		t.Fatalf("expected Completed, got %s", done.Status)
	}
}

func TestDashboardOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	p := createPartner(t, srv, "Ravi")
	o1 := createOrder(t, srv, "100")
	createOrder(t, srv, "200")
	createOrder(t, srv, "300")

	doJSON(t, client, http.MethodPost, srv.URL+"/v1/orders/assign", map[string]any{
		"order_id":   o1.ID,
		"partner_id": p.ID,
	}, nil)
	doJSON(t, client, http.MethodPatch, srv.URL+"/v1/orders/"+o1.ID+"/status", map[string]any{"status": "Completed"}, nil)

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v1/dashboard", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: %d %s", res.StatusCode, string(data))
	}
	var dash DashboardResponse
	if err := json.Unmarshal(data, &dash); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if dash.Orders.Total != 3 || dash.Orders.Completed != 1 || dash.Orders.Pending != 2 {
		t.Fatalf("unexpected counts: %+v", dash.Orders)
	}
	if len(dash.PickupPartners) != 1 || dash.PickupPartners[0].TotalOrders != 1 {
		t.Fatalf("unexpected partners: %+v", dash.PickupPartners)
	}
}

func TestDeletePartnerOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	p := createPartner(t, srv, "Leaving")
	o := createOrder(t, srv, "50")
	doJSON(t, client, http.MethodPost, srv.URL+"/v1/orders/assign", map[string]any{
		"order_id":   o.ID,
		"partner_id": p.ID,
	}, nil)

	res, data := doJSON(t, client, http.MethodDelete, srv.URL+"/v1/partners/"+p.ID, nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete partner: %d %s", res.StatusCode, string(data))
	}
	var deleted DeletePartnerResponse
	if err := json.Unmarshal(data, &deleted); err != nil || !deleted.OK {
		t.Fatalf("expected ok:true, got %s (%v)", string(data), err)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v1/orders", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list orders: %d %s", res.StatusCode, string(data))
	}
	var orders []OrderResponse
	if err := json.Unmarshal(data, &orders); err != nil {
		t.Fatalf("unmarshal orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].AssignedTo != nil {
		t.Fatalf("order still assigned after partner delete")
	}
	if orders[0].Status != "In Progress" {
		t.Fatalf("orphan repair changed status: %s", orders[0].Status)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/dashboard", nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", res.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/health", nil)
	res, err = srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health should not require auth, got %d", res.StatusCode)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	rawKey := "cpt_test_key_123"
	if err := srv.Engine.Repo.InsertAPIKey(context.Background(), nil, apiKeyFixture(testMCP, rawKey)); err != nil {
		t.Fatalf("insert api key: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/dashboard", nil)
	req.Header.Set("X-Api-Key", rawKey)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with api key, got %d", res.StatusCode)
	}
}
