package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/service"
)

// TrendsStore defines the database methods needed by the trends handlers.
// Satisfied by *database.Queries.
type TrendsStore interface {
	GetDailyTrends(ctx context.Context, arg database.TrendRangeParams) ([]database.DailyTrendRow, error)
	GetItemTrends(ctx context.Context, arg database.TrendRangeParams) ([]database.ItemTrendRow, error)
}

// TrendsHandler handles sales trend endpoints.
type TrendsHandler struct {
	store TrendsStore
}

// NewTrendsHandler creates a new TrendsHandler.
func NewTrendsHandler(store TrendsStore) *TrendsHandler {
	return &TrendsHandler{store: store}
}

// RegisterRoutes registers trend endpoints on the given Chi router.
func (h *TrendsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/trends/daily", h.Daily)
	r.Get("/trends/items", h.Items)
}

// parseDateRange reads start/end query params as business dates. Defaults to
// the last 30 days ending today. The returned end is exclusive.
func parseDateRange(r *http.Request) (database.TrendRangeParams, bool) {
	loc := service.Chicago()
	end := service.BusinessToday().AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("start"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return database.TrendRangeParams{}, false
		}
		start = d
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return database.TrendRangeParams{}, false
		}
		end = d.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return database.TrendRangeParams{}, false
	}
	return database.TrendRangeParams{StartDate: start, EndDate: end}, true
}

// Daily handles GET /api/trends/daily.
func (h *TrendsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseDateRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	rows, err := h.store.GetDailyTrends(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: daily trends: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	type dailyTrendResponse struct {
		Date       string `json:"date"`
		OrderCount int64  `json:"orderCount"`
		ItemCount  int64  `json:"itemCount"`
		Revenue    string `json:"revenue"`
	}
	resp := make([]dailyTrendResponse, len(rows))
	for i, row := range rows {
		resp[i] = dailyTrendResponse{
			Date:       row.Day.Time.Format("2006-01-02"),
			OrderCount: row.OrderCount,
			ItemCount:  row.ItemCount,
			Revenue:    database.NumericToString(row.Revenue),
		}
	}
	respondOK(w, http.StatusOK, envelope{
		"start": rng.StartDate.Format("2006-01-02"),
		"end":   rng.EndDate.AddDate(0, 0, -1).Format("2006-01-02"),
		"days":  resp,
	})
}

// Items handles GET /api/trends/items.
func (h *TrendsHandler) Items(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseDateRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	rows, err := h.store.GetItemTrends(r.Context(), rng)
	if err != nil {
		log.Printf("ERROR: item trends: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	type itemTrendResponse struct {
		MenuItemID uuid.UUID `json:"menuItemId"`
		Name       string    `json:"name"`
		Quantity   int64     `json:"quantity"`
		Revenue    string    `json:"revenue"`
	}
	resp := make([]itemTrendResponse, len(rows))
	for i, row := range rows {
		resp[i] = itemTrendResponse{
			MenuItemID: row.MenuItemID,
			Name:       row.Name,
			Quantity:   row.Quantity,
			Revenue:    database.NumericToString(row.Revenue),
		}
	}
	respondOK(w, http.StatusOK, envelope{
		"start": rng.StartDate.Format("2006-01-02"),
		"end":   rng.EndDate.AddDate(0, 0, -1).Format("2006-01-02"),
		"items": resp,
	})
}
