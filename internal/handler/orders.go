package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pearl-pos/api/internal/service"
	"github.com/pearl-pos/api/internal/ws"
)

// Broadcaster pushes events to connected kitchen displays.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// OrderPlacer defines the service method behind checkout.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
}

// OrderCanceller defines the service method behind cancellation.
// Satisfied by *service.CancelService.
type OrderCanceller interface {
	Cancel(ctx context.Context, orderNumber int64) (*service.CancelResult, error)
}

// OrderHandler handles checkout and cancellation endpoints.
type OrderHandler struct {
	placer    OrderPlacer
	canceller OrderCanceller
	hub       Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(placer OrderPlacer, canceller OrderCanceller, hub Broadcaster) *OrderHandler {
	return &OrderHandler{placer: placer, canceller: canceller, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Post("/orders/cancel", h.Cancel)
}

// --- Request types ---

type placeOrderItemRequest struct {
	ID       string      `json:"id"`
	Price    json.Number `json:"price"`
	Boba     int32       `json:"boba"`
	Ice      int32       `json:"ice"`
	Sugar    int32       `json:"sugar"`
	Size     int32       `json:"size"`
	Toppings string      `json:"toppings"`
}

type placeOrderRequest struct {
	EmployeeID string                  `json:"employeeId"`
	Items      []placeOrderItemRequest `json:"items"`
}

type cancelOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

// --- Handlers ---

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "No items provided")
		return
	}

	items := make([]service.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.PlaceOrderItem{
			MenuItemID: item.ID,
			Price:      item.Price.String(),
			Boba:       item.Boba,
			Ice:        item.Ice,
			Sugar:      item.Sugar,
			Size:       item.Size,
			Toppings:   item.Toppings,
		}
	}

	result, err := h.placer.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		EmployeeID: req.EmployeeID,
		Items:      items,
	})
	if err != nil {
		if isOrderValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: place order: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.hub.Broadcast(ws.EventOrderCreated, envelope{
		"orderId":   result.OrderNumber,
		"total":     result.Total.StringFixed(2),
		"orderTime": result.OrderTime,
	})

	respondOK(w, http.StatusCreated, envelope{
		"orderId": result.OrderNumber,
		"total":   result.Total.StringFixed(2),
	})
}

// Cancel handles POST /api/orders/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderID <= 0 {
		respondError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	result, err := h.canceller.Cancel(r.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyCancelled):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: cancel order: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.hub.Broadcast(ws.EventOrderCancelled, envelope{"orderId": result.OrderNumber})

	respondOK(w, http.StatusOK, envelope{
		"orderId":     result.OrderNumber,
		"revenueLost": result.RevenueLost.StringFixed(2),
		"costSaved":   result.CostSaved.StringFixed(2),
		"netImpact":   result.NetImpact.StringFixed(2),
	})
}

// isOrderValidationError checks if the error is a known validation error
// from the order service that should result in 400 Bad Request.
func isOrderValidationError(err error) bool {
	return errors.Is(err, service.ErrNoItems) ||
		errors.Is(err, service.ErrInvalidMenuItemID) ||
		errors.Is(err, service.ErrMenuItemNotFound) ||
		errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrInvalidSize) ||
		errors.Is(err, service.ErrInvalidPercent) ||
		errors.Is(err, service.ErrInvalidEmployeeID) ||
		errors.Is(err, service.ErrInsufficientStock)
}
