package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pearl-pos/api/internal/handler"
	"github.com/pearl-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mocks ---

type mockOrderPlacer struct {
	placeFn func(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
}

func (m *mockOrderPlacer) PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error) {
	return m.placeFn(ctx, req)
}

type mockOrderCanceller struct {
	cancelFn func(ctx context.Context, orderNumber int64) (*service.CancelResult, error)
}

func (m *mockOrderCanceller) Cancel(ctx context.Context, orderNumber int64) (*service.CancelResult, error) {
	return m.cancelFn(ctx, orderNumber)
}

func setupOrderRouter(placer *mockOrderPlacer, canceller *mockOrderCanceller, hub *recordingHub) *chi.Mux {
	h := handler.NewOrderHandler(placer, canceller, hub)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func orderBody(menuItemID uuid.UUID) map[string]any {
	return map[string]any{
		"employeeId": uuid.New().String(),
		"items": []map[string]any{
			{"id": menuItemID.String(), "price": 5.25, "boba": 100, "ice": 50, "sugar": 75, "size": 1},
		},
	}
}

// --- Place order tests ---

func TestOrderCreate_HappyPath(t *testing.T) {
	menuItemID := uuid.New()

	placer := &mockOrderPlacer{
		placeFn: func(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error) {
			if len(req.Items) != 1 {
				t.Fatalf("items count: got %d, want 1", len(req.Items))
			}
			if req.Items[0].MenuItemID != menuItemID.String() {
				t.Errorf("menu item id: got %s, want %s", req.Items[0].MenuItemID, menuItemID)
			}
			if req.Items[0].Price != "5.25" {
				t.Errorf("price: got %s, want 5.25", req.Items[0].Price)
			}
			return &service.PlaceOrderResult{
				OrderNumber: 42,
				Total:       decimal.RequireFromString("5.25"),
				OrderTime:   "14:05:00",
			}, nil
		},
	}
	hub := &recordingHub{}
	router := setupOrderRouter(placer, nil, hub)

	rr := doRequest(t, router, "POST", "/orders", orderBody(menuItemID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	assertEnvelope(t, resp, true)
	if resp["orderId"] != float64(42) {
		t.Errorf("orderId: got %v, want 42", resp["orderId"])
	}
	if resp["total"] != "5.25" {
		t.Errorf("total: got %v, want 5.25", resp["total"])
	}

	if len(hub.events) != 1 || hub.events[0] != "order.created" {
		t.Errorf("broadcasts: got %v, want [order.created]", hub.events)
	}
}

func TestOrderCreate_EmptyItems(t *testing.T) {
	hub := &recordingHub{}
	router := setupOrderRouter(&mockOrderPlacer{}, nil, hub)

	rr := doRequest(t, router, "POST", "/orders", map[string]any{"items": []map[string]any{}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	assertEnvelope(t, resp, false)
	if resp["error"] != "No items provided" {
		t.Errorf("error: got %v, want 'No items provided'", resp["error"])
	}
	if len(hub.events) != 0 {
		t.Errorf("no broadcast expected, got %v", hub.events)
	}
}

func TestOrderCreate_InvalidBody(t *testing.T) {
	router := setupOrderRouter(&mockOrderPlacer{}, nil, &recordingHub{})

	rr := doRequest(t, router, "POST", "/orders", "not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestOrderCreate_ValidationErrorFromService(t *testing.T) {
	placer := &mockOrderPlacer{
		placeFn: func(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error) {
			return nil, service.ErrInsufficientStock
		},
	}
	router := setupOrderRouter(placer, nil, &recordingHub{})

	rr := doRequest(t, router, "POST", "/orders", orderBody(uuid.New()))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestOrderCreate_InternalError(t *testing.T) {
	placer := &mockOrderPlacer{
		placeFn: func(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	hub := &recordingHub{}
	router := setupOrderRouter(placer, nil, hub)

	rr := doRequest(t, router, "POST", "/orders", orderBody(uuid.New()))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusInternalServerError, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["error"] != "internal server error" {
		t.Errorf("db errors must be redacted, got %v", resp["error"])
	}
	if len(hub.events) != 0 {
		t.Errorf("no broadcast on failure, got %v", hub.events)
	}
}

// --- Cancel tests ---

func TestOrderCancel_HappyPath(t *testing.T) {
	canceller := &mockOrderCanceller{
		cancelFn: func(ctx context.Context, orderNumber int64) (*service.CancelResult, error) {
			if orderNumber != 7 {
				t.Errorf("order number: got %d, want 7", orderNumber)
			}
			return &service.CancelResult{
				OrderNumber: 7,
				LinesMoved:  2,
				RevenueLost: decimal.RequireFromString("11.75"),
				CostSaved:   decimal.RequireFromString("1.20"),
				NetImpact:   decimal.RequireFromString("-10.55"),
			}, nil
		},
	}
	hub := &recordingHub{}
	router := setupOrderRouter(nil, canceller, hub)

	rr := doRequest(t, router, "POST", "/orders/cancel", map[string]any{"orderId": 7})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	assertEnvelope(t, resp, true)
	if resp["revenueLost"] != "11.75" {
		t.Errorf("revenueLost: got %v, want 11.75", resp["revenueLost"])
	}
	if resp["netImpact"] != "-10.55" {
		t.Errorf("netImpact: got %v, want -10.55", resp["netImpact"])
	}
	if len(hub.events) != 1 || hub.events[0] != "order.cancelled" {
		t.Errorf("broadcasts: got %v, want [order.cancelled]", hub.events)
	}
}

func TestOrderCancel_NotFound(t *testing.T) {
	canceller := &mockOrderCanceller{
		cancelFn: func(ctx context.Context, orderNumber int64) (*service.CancelResult, error) {
			return nil, service.ErrOrderNotFound
		},
	}
	router := setupOrderRouter(nil, canceller, &recordingHub{})

	rr := doRequest(t, router, "POST", "/orders/cancel", map[string]any{"orderId": 999})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["error"] != "Order not found" {
		t.Errorf("error: got %v, want 'Order not found'", resp["error"])
	}
}

func TestOrderCancel_AlreadyCancelled(t *testing.T) {
	hub := &recordingHub{}
	canceller := &mockOrderCanceller{
		cancelFn: func(ctx context.Context, orderNumber int64) (*service.CancelResult, error) {
			return nil, service.ErrAlreadyCancelled
		},
	}
	router := setupOrderRouter(nil, canceller, hub)

	rr := doRequest(t, router, "POST", "/orders/cancel", map[string]any{"orderId": 7})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["error"] != "Order is already cancelled" {
		t.Errorf("error: got %v, want 'Order is already cancelled'", resp["error"])
	}
	if len(hub.events) != 0 {
		t.Errorf("no broadcast on refused cancel, got %v", hub.events)
	}
}

func TestOrderCancel_MissingOrderID(t *testing.T) {
	router := setupOrderRouter(nil, &mockOrderCanceller{}, &recordingHub{})

	rr := doRequest(t, router, "POST", "/orders/cancel", map[string]any{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}
