package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/pearl-pos/api/internal/service"
	"github.com/pearl-pos/api/internal/ws"
)

// KitchenStore defines the database methods needed by kitchen handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type KitchenStore interface {
	ListKitchenLinesForDate(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error)
	ListCancelledKitchenLinesForDate(ctx context.Context, date time.Time) ([]database.KitchenLineRow, error)
	OrderExists(ctx context.Context, orderNumber int64) (bool, error)
	UpsertOrderStatus(ctx context.Context, arg database.UpsertOrderStatusParams) error
}

// KitchenHandler handles the kitchen display endpoints.
type KitchenHandler struct {
	store KitchenStore
	hub   Broadcaster
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(store KitchenStore, hub Broadcaster) *KitchenHandler {
	return &KitchenHandler{store: store, hub: hub}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kitchen", h.List)
	r.Post("/kitchen", h.UpdateStatus)
}

// --- Request / Response types ---

type kitchenItemResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Size     int32  `json:"size"`
	Boba     int32  `json:"boba"`
	Ice      int32  `json:"ice"`
	Sugar    int32  `json:"sugar"`
	Toppings string `json:"toppings"`
}

type kitchenOrderResponse struct {
	OrderID   int64                 `json:"orderId"`
	Status    string                `json:"status"`
	OrderTime string                `json:"orderTime"`
	Items     []kitchenItemResponse `json:"items"`
}

type updateKitchenStatusRequest struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

// --- Handlers ---

// List handles GET /api/kitchen: today's orders, one entry per checkout,
// active and cancelled together, newest first.
func (h *KitchenHandler) List(w http.ResponseWriter, r *http.Request) {
	today := service.BusinessToday()

	active, err := h.store.ListKitchenLinesForDate(r.Context(), today)
	if err != nil {
		log.Printf("ERROR: list kitchen orders: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	cancelled, err := h.store.ListCancelledKitchenLinesForDate(r.Context(), today)
	if err != nil {
		log.Printf("ERROR: list cancelled kitchen orders: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	orders := groupKitchenLines(append(active, cancelled...))
	respondOK(w, http.StatusOK, envelope{"orders": orders})
}

// UpdateStatus handles POST /api/kitchen.
func (h *KitchenHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateKitchenStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderID <= 0 {
		respondError(w, http.StatusBadRequest, "orderId is required")
		return
	}
	if !isValidOrderStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	exists, err := h.store.OrderExists(r.Context(), req.OrderID)
	if err != nil {
		log.Printf("ERROR: check order exists: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.store.UpsertOrderStatus(r.Context(), database.UpsertOrderStatusParams{
		OrderNumber: req.OrderID,
		Status:      req.Status,
	}); err != nil {
		log.Printf("ERROR: upsert order status: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.hub.Broadcast(ws.EventOrderStatusUpdated, envelope{
		"orderId": req.OrderID,
		"status":  req.Status,
	})

	respondOK(w, http.StatusOK, envelope{
		"orderId": req.OrderID,
		"status":  req.Status,
	})
}

// --- Helpers ---

func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusCompleted, enum.OrderStatusCancelled:
		return true
	}
	return false
}

// groupKitchenLines folds per-line rows into one response entry per
// checkout, ordered by order id descending.
func groupKitchenLines(lines []database.KitchenLineRow) []kitchenOrderResponse {
	byOrder := make(map[int64]*kitchenOrderResponse)
	for _, l := range lines {
		entry, ok := byOrder[l.OrderNumber]
		if !ok {
			entry = &kitchenOrderResponse{
				OrderID:   l.OrderNumber,
				Status:    l.Status,
				OrderTime: l.OrderTime,
			}
			byOrder[l.OrderNumber] = entry
		}
		toppings := ""
		if l.Toppings.Valid {
			toppings = l.Toppings.String
		}
		entry.Items = append(entry.Items, kitchenItemResponse{
			Name:     l.ItemName,
			Price:    database.NumericToString(l.Price),
			Size:     l.Size,
			Boba:     l.BobaPct,
			Ice:      l.IcePct,
			Sugar:    l.SugarPct,
			Toppings: toppings,
		})
	}

	orders := make([]kitchenOrderResponse, 0, len(byOrder))
	for _, entry := range byOrder {
		orders = append(orders, *entry)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderID > orders[j].OrderID
	})
	return orders
}
