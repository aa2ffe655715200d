package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/handler"
	"github.com/pearl-pos/api/internal/service"
)

// --- Mocks ---

type mockReportServicer struct {
	xReportFn func(ctx context.Context) (*service.DaySummary, error)
	zReportFn func(ctx context.Context) (*database.Report, *service.DaySummary, error)
}

func (m *mockReportServicer) XReport(ctx context.Context) (*service.DaySummary, error) {
	return m.xReportFn(ctx)
}

func (m *mockReportServicer) ZReport(ctx context.Context) (*database.Report, *service.DaySummary, error) {
	return m.zReportFn(ctx)
}

type mockReportsStore struct {
	listFn   func(ctx context.Context) ([]database.Report, error)
	createFn func(ctx context.Context, arg database.CreateReportParams) (database.Report, error)
	deleteFn func(ctx context.Context, id int64) (int64, error)
}

func (m *mockReportsStore) ListReports(ctx context.Context) ([]database.Report, error) {
	return m.listFn(ctx)
}

func (m *mockReportsStore) CreateReport(ctx context.Context, arg database.CreateReportParams) (database.Report, error) {
	return m.createFn(ctx, arg)
}

func (m *mockReportsStore) DeleteReport(ctx context.Context, id int64) (int64, error) {
	return m.deleteFn(ctx, id)
}

func setupReportsRouter(svc *mockReportServicer, store *mockReportsStore) *chi.Mux {
	h := handler.NewReportsHandler(svc, store)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterManagerRoutes(r)
	return r
}

func testSummary() *service.DaySummary {
	return &service.DaySummary{
		Date: time.Date(2024, 3, 15, 0, 0, 0, 0, service.Chicago()),
		Hourly: []service.HourlyBucket{
			{Hour: 9, OrderCount: 5, ItemCount: 8, Revenue: decimal.RequireFromString("42.00")},
			{Hour: 10, OrderCount: 7, ItemCount: 10, Revenue: decimal.RequireFromString("53.50")},
		},
		OrderCount: 12,
		ItemCount:  18,
		Subtotal:   decimal.RequireFromString("95.50"),
		Tax:        decimal.RequireFromString("7.88"),
		Total:      decimal.RequireFromString("103.38"),
		TopItems: []service.TopItem{
			{Name: "Classic Milk Tea", Quantity: 9, Revenue: decimal.RequireFromString("47.25")},
		},
	}
}

// --- Tests ---

func TestReportsXReport_HappyPath(t *testing.T) {
	svc := &mockReportServicer{
		xReportFn: func(ctx context.Context) (*service.DaySummary, error) {
			return testSummary(), nil
		},
	}
	router := setupReportsRouter(svc, &mockReportsStore{})

	rr := doRequest(t, router, "GET", "/reports/x-report", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	assertEnvelope(t, resp, true)
	if resp["date"] != "2024-03-15" {
		t.Errorf("date: got %v, want 2024-03-15", resp["date"])
	}
	if resp["subtotal"] != "95.50" || resp["tax"] != "7.88" || resp["total"] != "103.38" {
		t.Errorf("totals: got subtotal=%v tax=%v total=%v", resp["subtotal"], resp["tax"], resp["total"])
	}
	hourly := resp["hourly"].([]any)
	if len(hourly) != 2 {
		t.Fatalf("hourly buckets: got %d, want 2", len(hourly))
	}
	first := hourly[0].(map[string]any)
	if first["hour"] != float64(9) || first["revenue"] != "42.00" {
		t.Errorf("first bucket: got %v", first)
	}
	top := resp["topItems"].([]any)
	if len(top) != 1 || top[0].(map[string]any)["name"] != "Classic Milk Tea" {
		t.Errorf("topItems: got %v", top)
	}
}

func TestReportsXReport_DayClosed(t *testing.T) {
	svc := &mockReportServicer{
		xReportFn: func(ctx context.Context) (*service.DaySummary, error) {
			return nil, service.ErrDayClosed
		},
	}
	router := setupReportsRouter(svc, &mockReportsStore{})

	rr := doRequest(t, router, "GET", "/reports/x-report", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestReportsZReport_HappyPath(t *testing.T) {
	svc := &mockReportServicer{
		zReportFn: func(ctx context.Context) (*database.Report, *service.DaySummary, error) {
			report := &database.Report{
				ID:          3,
				ReportName:  "Z-Report 2024-03-15",
				ReportType:  "Z-Report",
				ReportText:  "Z-REPORT ...",
				DateCreated: time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC),
			}
			return report, testSummary(), nil
		},
	}
	router := setupReportsRouter(svc, &mockReportsStore{})

	rr := doRequest(t, router, "POST", "/reports/z-report", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	report := resp["report"].(map[string]any)
	if report["reportType"] != "Z-Report" {
		t.Errorf("reportType: got %v, want Z-Report", report["reportType"])
	}
	if resp["total"] != "103.38" {
		t.Errorf("total: got %v, want 103.38", resp["total"])
	}
}

func TestReportsZReport_AlreadyGenerated(t *testing.T) {
	svc := &mockReportServicer{
		zReportFn: func(ctx context.Context) (*database.Report, *service.DaySummary, error) {
			return nil, nil, service.ErrZReportExists
		},
	}
	router := setupReportsRouter(svc, &mockReportsStore{})

	rr := doRequest(t, router, "POST", "/reports/z-report", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestReportsList(t *testing.T) {
	store := &mockReportsStore{
		listFn: func(ctx context.Context) ([]database.Report, error) {
			return []database.Report{
				{ID: 2, ReportName: "Z-Report 2024-03-15", ReportType: "Z-Report", DateCreated: time.Now()},
				{ID: 1, ReportName: "Shift notes", ReportType: "General", DateCreated: time.Now()},
			}, nil
		},
	}
	router := setupReportsRouter(&mockReportServicer{}, store)

	rr := doRequest(t, router, "GET", "/reports", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	reports := resp["reports"].([]any)
	if len(reports) != 2 {
		t.Errorf("reports count: got %d, want 2", len(reports))
	}
}

func TestReportsCreate_DefaultsTypeToGeneral(t *testing.T) {
	var created database.CreateReportParams
	store := &mockReportsStore{
		createFn: func(ctx context.Context, arg database.CreateReportParams) (database.Report, error) {
			created = arg
			return database.Report{ID: 5, ReportName: arg.ReportName, ReportType: arg.ReportType,
				ReportText: arg.ReportText, DateCreated: time.Now()}, nil
		},
	}
	router := setupReportsRouter(&mockReportServicer{}, store)

	rr := doRequest(t, router, "POST", "/reports", map[string]any{
		"reportName": "Shift notes",
		"reportText": "all quiet",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if created.ReportType != "General" {
		t.Errorf("report type: got %q, want General", created.ReportType)
	}
}

func TestReportsCreate_RejectsZReportType(t *testing.T) {
	router := setupReportsRouter(&mockReportServicer{}, &mockReportsStore{})

	rr := doRequest(t, router, "POST", "/reports", map[string]any{
		"reportName": "sneaky",
		"reportType": "Z-Report",
		"reportText": "nope",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestReportsCreate_MissingFields(t *testing.T) {
	router := setupReportsRouter(&mockReportServicer{}, &mockReportsStore{})

	rr := doRequest(t, router, "POST", "/reports", map[string]any{"reportName": "no text"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestReportsDelete(t *testing.T) {
	store := &mockReportsStore{
		deleteFn: func(ctx context.Context, id int64) (int64, error) {
			if id == 7 {
				return 1, nil
			}
			return 0, nil
		},
	}
	router := setupReportsRouter(&mockReportServicer{}, store)

	rr := doRequest(t, router, "DELETE", "/reports/7", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	rr = doRequest(t, router, "DELETE", "/reports/99", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}
