package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/handler"
)

// --- Mock KitchenStore ---

type mockKitchenStore struct {
	listFn          func(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error)
	listCancelledFn func(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error)
	orderExistsFn   func(ctx context.Context, orderNumber int64) (bool, error)
	upsertStatusFn  func(ctx context.Context, arg database.UpsertOrderStatusParams) error
}

func (m *mockKitchenStore) ListKitchenLinesForDate(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error) {
	if m.listFn != nil {
		return m.listFn(ctx, date)
	}
	return nil, nil
}

func (m *mockKitchenStore) ListCancelledKitchenLinesForDate(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error) {
	if m.listCancelledFn != nil {
		return m.listCancelledFn(ctx, date)
	}
	return nil, nil
}

func (m *mockKitchenStore) OrderExists(ctx context.Context, orderNumber int64) (bool, error) {
	if m.orderExistsFn != nil {
		return m.orderExistsFn(ctx, orderNumber)
	}
	return false, nil
}

func (m *mockKitchenStore) UpsertOrderStatus(ctx context.Context, arg database.UpsertOrderStatusParams) error {
	if m.upsertStatusFn != nil {
		return m.upsertStatusFn(ctx, arg)
	}
	return nil
}

func setupKitchenRouter(store *mockKitchenStore, hub *recordingHub) *chi.Mux {
	h := handler.NewKitchenHandler(store, hub)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func kitchenLine(orderNumber int64, status, name string) database.KitchenLineRow {
	return database.KitchenLineRow{
		OrderNumber: orderNumber,
		Status:      status,
		OrderTime:   "14:05:00",
		ItemName:    name,
		Price:       testNumeric("5.25"),
		Size:        1,
		BobaPct:     100,
		IcePct:      50,
		SugarPct:    75,
	}
}

// --- Tests ---

func TestKitchenList_GroupsLinesByOrder(t *testing.T) {
	store := &mockKitchenStore{
		listFn: func(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error) {
			return []database.KitchenLineRow{
				kitchenLine(1, "pending", "Classic Milk Tea"),
				kitchenLine(1, "pending", "Taro Milk Tea"),
				kitchenLine(2, "completed", "Mango Green Tea"),
			}, nil
		},
	}
	router := setupKitchenRouter(store, &recordingHub{})

	rr := doRequest(t, router, "GET", "/kitchen", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	assertEnvelope(t, resp, true)
	orders := resp["orders"].([]any)
	if len(orders) != 2 {
		t.Fatalf("orders count: got %d, want 2", len(orders))
	}

	// Newest checkout first.
	first := orders[0].(map[string]any)
	if first["orderId"] != float64(2) {
		t.Errorf("first orderId: got %v, want 2", first["orderId"])
	}

	second := orders[1].(map[string]any)
	items := second["items"].([]any)
	if len(items) != 2 {
		t.Errorf("order 1 items: got %d, want 2", len(items))
	}
}

func TestKitchenList_IncludesCancelledOrders(t *testing.T) {
	store := &mockKitchenStore{
		listFn: func(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error) {
			return []database.KitchenLineRow{kitchenLine(1, "pending", "Classic Milk Tea")}, nil
		},
		listCancelledFn: func(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error) {
			return []database.KitchenLineRow{kitchenLine(3, "cancelled", "Taro Milk Tea")}, nil
		},
	}
	router := setupKitchenRouter(store, &recordingHub{})

	rr := doRequest(t, router, "GET", "/kitchen", nil)
	resp := decodeResponse(t, rr)
	orders := resp["orders"].([]any)
	if len(orders) != 2 {
		t.Fatalf("orders count: got %d, want 2", len(orders))
	}
	first := orders[0].(map[string]any)
	if first["status"] != "cancelled" {
		t.Errorf("first order status: got %v, want cancelled", first["status"])
	}
}

func TestKitchenList_Empty(t *testing.T) {
	router := setupKitchenRouter(&mockKitchenStore{}, &recordingHub{})

	rr := doRequest(t, router, "GET", "/kitchen", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	orders := resp["orders"].([]any)
	if len(orders) != 0 {
		t.Errorf("orders count: got %d, want 0", len(orders))
	}
}

func TestKitchenUpdateStatus_HappyPath(t *testing.T) {
	var upserted database.UpsertOrderStatusParams
	store := &mockKitchenStore{
		orderExistsFn: func(ctx context.Context, orderNumber int64) (bool, error) { return true, nil },
		upsertStatusFn: func(ctx context.Context, arg database.UpsertOrderStatusParams) error {
			upserted = arg
			return nil
		},
	}
	hub := &recordingHub{}
	router := setupKitchenRouter(store, hub)

	rr := doRequest(t, router, "POST", "/kitchen", map[string]any{"orderId": 7, "status": "completed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if upserted.OrderNumber != 7 || upserted.Status != "completed" {
		t.Errorf("upsert args: got %+v", upserted)
	}
	if len(hub.events) != 1 || hub.events[0] != "order.status_updated" {
		t.Errorf("broadcasts: got %v, want [order.status_updated]", hub.events)
	}
}

func TestKitchenUpdateStatus_InvalidStatus(t *testing.T) {
	router := setupKitchenRouter(&mockKitchenStore{}, &recordingHub{})

	rr := doRequest(t, router, "POST", "/kitchen", map[string]any{"orderId": 7, "status": "burnt"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestKitchenUpdateStatus_UnknownOrder(t *testing.T) {
	hub := &recordingHub{}
	store := &mockKitchenStore{
		orderExistsFn: func(ctx context.Context, orderNumber int64) (bool, error) { return false, nil },
	}
	router := setupKitchenRouter(store, hub)

	rr := doRequest(t, router, "POST", "/kitchen", map[string]any{"orderId": 999, "status": "completed"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != "Order not found" {
		t.Errorf("error: got %v, want 'Order not found'", resp["error"])
	}
	if len(hub.events) != 0 {
		t.Errorf("no broadcast expected, got %v", hub.events)
	}
}
