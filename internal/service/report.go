package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrDayClosed     = errors.New("X-Report unavailable: a Z-Report has already been generated today")
	ErrZReportExists = errors.New("a Z-Report has already been generated for today")
)

// Sales-tax estimate applied to report totals.
var taxRate = decimal.RequireFromString("0.0825")

const topItemLimit = 10

// ReportStore defines the DB methods needed for X/Z reporting.
// Satisfied by *database.Queries (and its WithTx variant).
type ReportStore interface {
	HasZReportForDate(ctx context.Context, date time.Time) (bool, error)
	GetHourlySalesForDate(ctx context.Context, date time.Time) ([]database.HourlySalesRow, error)
	GetDayTotals(ctx context.Context, date time.Time) (database.DayTotalsRow, error)
	GetTopItemsForDate(ctx context.Context, date time.Time, limit int32) ([]database.TopItemRow, error)
	CreateReport(ctx context.Context, arg database.CreateReportParams) (database.Report, error)
}

// NewReportStore creates a ReportStore from a DBTX (pool or tx).
type NewReportStore func(db database.DBTX) ReportStore

// HourlyBucket is one hour of the business day.
type HourlyBucket struct {
	Hour       int32
	OrderCount int64
	ItemCount  int64
	Revenue    decimal.Decimal
}

// TopItem is one menu item ranked by units sold.
type TopItem struct {
	Name     string
	Quantity int64
	Revenue  decimal.Decimal
}

// DaySummary is the aggregate both X- and Z-Reports are built from.
type DaySummary struct {
	Date       time.Time
	Hourly     []HourlyBucket
	OrderCount int64
	ItemCount  int64
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	TopItems   []TopItem
}

// ReportService computes the day's sales snapshot and owns the once-daily
// Z-Report closeout.
type ReportService struct {
	store    ReportStore
	pool     TxBeginner
	newStore NewReportStore
}

// NewReportService creates a new ReportService. store is pool-bound and
// serves the read-only X-Report path; Z-Report generation runs through a
// transaction built from newStore.
func NewReportService(store ReportStore, pool TxBeginner, newStore NewReportStore) *ReportService {
	return &ReportService{store: store, pool: pool, newStore: newStore}
}

// XReport returns the current day's snapshot. It is repeatable, but refused
// once the day has been closed with a Z-Report.
func (s *ReportService) XReport(ctx context.Context) (*DaySummary, error) {
	today := BusinessToday()

	closed, err := s.store.HasZReportForDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("check z-report: %w", err)
	}
	if closed {
		return nil, ErrDayClosed
	}

	return buildDaySummary(ctx, s.store, today)
}

// ZReport closes out the current day: it computes the same aggregates as
// the X-Report, renders the closeout document, and persists it. The partial
// unique index on reports(report_date) makes the once-per-day guard hold
// even when two closeouts race; the loser's insert fails with a unique
// violation that maps back to ErrZReportExists.
func (s *ReportService) ZReport(ctx context.Context) (*database.Report, *DaySummary, error) {
	today := BusinessToday()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	closed, err := store.HasZReportForDate(ctx, today)
	if err != nil {
		return nil, nil, fmt.Errorf("check z-report: %w", err)
	}
	if closed {
		return nil, nil, ErrZReportExists
	}

	summary, err := buildDaySummary(ctx, store, today)
	if err != nil {
		return nil, nil, err
	}

	report, err := store.CreateReport(ctx, database.CreateReportParams{
		ReportName: fmt.Sprintf("Z-Report %s", today.Format("2006-01-02")),
		ReportType: enum.ReportTypeZReport,
		ReportText: FormatZReport(summary),
		ReportDate: pgtype.Date{Time: today, Valid: true},
	})
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, nil, ErrZReportExists
		}
		return nil, nil, fmt.Errorf("create z-report: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return &report, summary, nil
}

func buildDaySummary(ctx context.Context, store ReportStore, date time.Time) (*DaySummary, error) {
	hourly, err := store.GetHourlySalesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("hourly sales: %w", err)
	}

	totals, err := store.GetDayTotals(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("day totals: %w", err)
	}

	top, err := store.GetTopItemsForDate(ctx, date, topItemLimit)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}

	summary := &DaySummary{
		Date:       date,
		OrderCount: totals.OrderCount,
		ItemCount:  totals.ItemCount,
		Subtotal:   database.NumericToDecimal(totals.Revenue),
	}
	summary.Tax = summary.Subtotal.Mul(taxRate).Round(2)
	summary.Total = summary.Subtotal.Add(summary.Tax)

	for _, b := range hourly {
		summary.Hourly = append(summary.Hourly, HourlyBucket{
			Hour:       b.Hour,
			OrderCount: b.OrderCount,
			ItemCount:  b.ItemCount,
			Revenue:    database.NumericToDecimal(b.Revenue),
		})
	}
	for _, it := range top {
		summary.TopItems = append(summary.TopItems, TopItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Revenue:  database.NumericToDecimal(it.Revenue),
		})
	}

	return summary, nil
}

// FormatZReport renders the fixed-width closeout document persisted with
// each Z-Report row.
func FormatZReport(s *DaySummary) string {
	var b strings.Builder
	line := strings.Repeat("=", 48)
	thin := strings.Repeat("-", 48)

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "%s\n", center("PEARL POS  END OF DAY  Z-REPORT", 48))
	fmt.Fprintf(&b, "%s\n", center(s.Date.Format("Monday, January 2 2006"), 48))
	fmt.Fprintln(&b, line)

	fmt.Fprintf(&b, "%-8s%10s%10s%14s\n", "Hour", "Orders", "Items", "Revenue")
	fmt.Fprintln(&b, thin)
	for _, h := range s.Hourly {
		fmt.Fprintf(&b, "%02d:00   %10d%10d%14s\n", h.Hour, h.OrderCount, h.ItemCount, "$"+h.Revenue.StringFixed(2))
	}
	fmt.Fprintln(&b, thin)

	fmt.Fprintf(&b, "%-18s%10d\n", "Orders", s.OrderCount)
	fmt.Fprintf(&b, "%-18s%10d\n", "Items Sold", s.ItemCount)
	fmt.Fprintf(&b, "%-18s%10s\n", "Subtotal", "$"+s.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%-18s%10s\n", "Tax (8.25%)", "$"+s.Tax.StringFixed(2))
	fmt.Fprintf(&b, "%-18s%10s\n", "Total", "$"+s.Total.StringFixed(2))
	fmt.Fprintln(&b, thin)

	fmt.Fprintln(&b, "Top Items")
	for i, it := range s.TopItems {
		fmt.Fprintf(&b, "%2d. %-28s x%-5d%10s\n", i+1, it.Name, it.Quantity, "$"+it.Revenue.StringFixed(2))
	}
	fmt.Fprintln(&b, line)

	return b.String()
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
