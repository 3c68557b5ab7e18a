package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fxsim/internal/broker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(broker.NewSimulatorBroker(), log).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return resp.StatusCode
}

func pushTick(t *testing.T, srv *httptest.Server, bid, ask string) {
	t.Helper()
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/ticks", map[string]any{
		"time": "2024-03-01T09:00:00Z",
		"prices": map[string]any{
			"EUR_USD": map[string]string{"bid": bid, "ask": ask},
		},
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("POST /v1/ticks status = %d, want 200", status)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	status := doJSON(t, http.MethodGet, srv.URL+"/v1/health", nil, &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if body["broker"] != "simulator" {
		t.Errorf("broker field = %q, want simulator", body["broker"])
	}
}

func TestSubmitMarketOrder(t *testing.T) {
	srv := newTestServer(t)
	pushTick(t, srv, "1.1000", "1.1002")

	var result orderResultJSON
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/orders", submitOrderRequest{
		Pair:  "EUR_USD",
		Side:  "buy",
		Units: 100,
		Type:  "market",
	}, &result)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	if result.TradeOpened == nil {
		t.Fatal("expected tradeOpened in response")
	}
	if result.TradeOpened.EntryPrice != "1.1002" {
		t.Errorf("entryPrice = %q, want 1.1002", result.TradeOpened.EntryPrice)
	}

	var positions []positionJSON
	status = doJSON(t, http.MethodGet, srv.URL+"/v1/positions", nil, &positions)
	if status != http.StatusOK {
		t.Fatalf("GET /v1/positions status = %d, want 200", status)
	}
	if len(positions) != 1 || positions[0].Units != 100 {
		t.Errorf("positions = %+v, want one 100-unit position", positions)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	pushTick(t, srv, "1.1000", "1.1002")

	var result orderResultJSON
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/orders", submitOrderRequest{
		Pair:    "EUR_USD",
		Side:    "buy",
		Units:   100,
		Type:    "limit",
		Options: map[string]any{"price": "1.0900"},
	}, &result)
	if status != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201", status)
	}
	if result.OrderCreated == nil {
		t.Fatal("expected orderCreated for resting limit")
	}
	id := result.OrderCreated.ID

	var orders []orderJSON
	if status := doJSON(t, http.MethodGet, srv.URL+"/v1/orders", nil, &orders); status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}
	if len(orders) != 1 || orders[0].ID != id {
		t.Fatalf("orders = %+v, want the one pending order", orders)
	}

	var modified orderJSON
	status = doJSON(t, http.MethodPatch, srv.URL+"/v1/orders/"+id,
		map[string]any{"units": 250}, &modified)
	if status != http.StatusOK {
		t.Fatalf("modify status = %d, want 200", status)
	}
	if modified.Units != 250 {
		t.Errorf("modified units = %d, want 250", modified.Units)
	}

	if status := doJSON(t, http.MethodDelete, srv.URL+"/v1/orders/"+id, nil, nil); status != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200", status)
	}
	if status := doJSON(t, http.MethodGet, srv.URL+"/v1/orders/"+id, nil, nil); status != http.StatusNotFound {
		t.Fatalf("get after cancel status = %d, want 404", status)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	pushTick(t, srv, "1.1000", "1.1002")

	// Validation failure: 400.
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/orders", submitOrderRequest{
		Pair:  "EUR_USD",
		Side:  "buy",
		Units: 0,
		Type:  "market",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("invalid order status = %d, want 400", status)
	}

	// Unknown order: 404.
	if status := doJSON(t, http.MethodGet, srv.URL+"/v1/orders/99", nil, nil); status != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", status)
	}

	// Malformed JSON: 400.
	resp, err := http.Post(srv.URL+"/v1/orders", "application/json", bytes.NewBufferString("{"))
	if err != nil {
		t.Fatalf("POST malformed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", resp.StatusCode)
	}

	// Bad quote in a tick: 400.
	status = doJSON(t, http.MethodPost, srv.URL+"/v1/ticks", map[string]any{
		"time": "2024-03-01T09:00:00Z",
		"prices": map[string]any{
			"EUR_USD": map[string]string{"bid": "cheap", "ask": "1.1002"},
		},
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("bad tick status = %d, want 400", status)
	}
}

func TestTickFillsPendingOrders(t *testing.T) {
	srv := newTestServer(t)
	pushTick(t, srv, "1.1000", "1.1002")

	var submit orderResultJSON
	doJSON(t, http.MethodPost, srv.URL+"/v1/orders", submitOrderRequest{
		Pair:    "EUR_USD",
		Side:    "buy",
		Units:   100,
		Type:    "limit",
		Options: map[string]any{"price": "1.0950"},
	}, &submit)

	var results []orderResultJSON
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/ticks", map[string]any{
		"time": "2024-03-01T09:01:00Z",
		"prices": map[string]any{
			"EUR_USD": map[string]string{"bid": "1.0948", "ask": "1.0950"},
		},
	}, &results)
	if status != http.StatusOK {
		t.Fatalf("tick status = %d, want 200", status)
	}
	if len(results) != 1 || results[0].TradeOpened == nil {
		t.Fatalf("tick results = %+v, want one fill", results)
	}
	if got, want := results[0].TradeOpened.EntryPrice, "1.095"; got != want {
		t.Errorf("entry price = %q, want %q", got, want)
	}
}

func TestListCountParam(t *testing.T) {
	srv := newTestServer(t)
	pushTick(t, srv, "1.1000", "1.1002")

	for i := 0; i < 3; i++ {
		doJSON(t, http.MethodPost, srv.URL+"/v1/orders", submitOrderRequest{
			Pair:    "EUR_USD",
			Side:    "buy",
			Units:   100,
			Type:    "limit",
			Options: map[string]any{"price": fmt.Sprintf("1.08%d0", i)},
		}, nil)
	}

	var orders []orderJSON
	if status := doJSON(t, http.MethodGet, srv.URL+"/v1/orders?count=2", nil, &orders); status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	// Newest first.
	if orders[0].ID <= orders[1].ID {
		t.Errorf("order IDs = %q, %q, want descending", orders[0].ID, orders[1].ID)
	}
}
