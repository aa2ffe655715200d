package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/pearl-pos/api/internal/service"
)

// ReportServicer defines the service methods behind X/Z reporting.
// Satisfied by *service.ReportService; narrow interface for testability.
type ReportServicer interface {
	XReport(ctx context.Context) (*service.DaySummary, error)
	ZReport(ctx context.Context) (*database.Report, *service.DaySummary, error)
}

// ReportsStore defines the database methods needed by the report CRUD
// endpoints. Satisfied by *database.Queries.
type ReportsStore interface {
	ListReports(ctx context.Context) ([]database.Report, error)
	CreateReport(ctx context.Context, arg database.CreateReportParams) (database.Report, error)
	DeleteReport(ctx context.Context, id int64) (int64, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	svc   ReportServicer
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(svc ReportServicer, store ReportsStore) *ReportsHandler {
	return &ReportsHandler{svc: svc, store: store}
}

// RegisterRoutes registers the report endpoints available to all staff.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/x-report", h.XReport)
	r.Get("/reports", h.List)
}

// RegisterManagerRoutes registers the close-out and write endpoints.
func (h *ReportsHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/reports/z-report", h.ZReport)
	r.Post("/reports", h.Create)
	r.Delete("/reports/{id}", h.Delete)
}

// --- Request / Response types ---

type hourlyBucketResponse struct {
	Hour       int32  `json:"hour"`
	OrderCount int64  `json:"orderCount"`
	ItemCount  int64  `json:"itemCount"`
	Revenue    string `json:"revenue"`
}

type topItemResponse struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  string `json:"revenue"`
}

type reportResponse struct {
	ID          int64  `json:"id"`
	ReportName  string `json:"reportName"`
	ReportType  string `json:"reportType"`
	ReportText  string `json:"reportText"`
	DateCreated string `json:"dateCreated"`
}

type createReportRequest struct {
	ReportName string `json:"reportName"`
	ReportType string `json:"reportType"`
	ReportText string `json:"reportText"`
}

func toReportResponse(r database.Report) reportResponse {
	return reportResponse{
		ID:          r.ID,
		ReportName:  r.ReportName,
		ReportType:  r.ReportType,
		ReportText:  r.ReportText,
		DateCreated: r.DateCreated.In(service.Chicago()).Format("2006-01-02 15:04:05"),
	}
}

func summaryEnvelope(s *service.DaySummary) envelope {
	hourly := make([]hourlyBucketResponse, len(s.Hourly))
	for i, b := range s.Hourly {
		hourly[i] = hourlyBucketResponse{
			Hour:       b.Hour,
			OrderCount: b.OrderCount,
			ItemCount:  b.ItemCount,
			Revenue:    b.Revenue.StringFixed(2),
		}
	}
	top := make([]topItemResponse, len(s.TopItems))
	for i, it := range s.TopItems {
		top[i] = topItemResponse{
			Name:     it.Name,
			Quantity: it.Quantity,
			Revenue:  it.Revenue.StringFixed(2),
		}
	}
	return envelope{
		"date":       s.Date.Format("2006-01-02"),
		"hourly":     hourly,
		"orderCount": s.OrderCount,
		"itemCount":  s.ItemCount,
		"subtotal":   s.Subtotal.StringFixed(2),
		"tax":        s.Tax.StringFixed(2),
		"total":      s.Total.StringFixed(2),
		"topItems":   top,
	}
}

// --- Handlers ---

// XReport handles GET /api/reports/x-report.
func (h *ReportsHandler) XReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.XReport(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrDayClosed) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: x-report: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondOK(w, http.StatusOK, summaryEnvelope(summary))
}

// ZReport handles POST /api/reports/z-report.
func (h *ReportsHandler) ZReport(w http.ResponseWriter, r *http.Request) {
	report, summary, err := h.svc.ZReport(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrZReportExists) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: z-report: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body := summaryEnvelope(summary)
	body["report"] = toReportResponse(*report)
	respondOK(w, http.StatusCreated, body)
}

// List handles GET /api/reports.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		log.Printf("ERROR: list reports: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]reportResponse, len(reports))
	for i, rep := range reports {
		resp[i] = toReportResponse(rep)
	}
	respondOK(w, http.StatusOK, envelope{"reports": resp})
}

// Create handles POST /api/reports.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ReportName == "" || req.ReportText == "" {
		respondError(w, http.StatusBadRequest, "reportName and reportText are required")
		return
	}
	if req.ReportType == "" {
		req.ReportType = enum.ReportTypeGeneral
	}
	// Z-Report rows are only created through the closeout flow, which owns
	// the once-per-day guard.
	if req.ReportType == enum.ReportTypeZReport {
		respondError(w, http.StatusBadRequest, "use /api/reports/z-report to generate a Z-Report")
		return
	}

	report, err := h.store.CreateReport(r.Context(), database.CreateReportParams{
		ReportName: req.ReportName,
		ReportType: req.ReportType,
		ReportText: req.ReportText,
	})
	if err != nil {
		log.Printf("ERROR: create report: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusCreated, envelope{"report": toReportResponse(report)})
}

// Delete handles DELETE /api/reports/{id}.
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	deleted, err := h.store.DeleteReport(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: delete report: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	respondOK(w, http.StatusOK, envelope{"deleted": id})
}
