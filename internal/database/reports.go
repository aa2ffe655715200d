package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateReportParams struct {
	ReportName string
	ReportType string
	ReportText string
	ReportDate pgtype.Date
}

// CreateReport appends a row to the reports audit log. Z-Report rows carry a
// ReportDate, which a partial unique index limits to one per calendar day.
func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (Report, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO reports (report_name, report_type, report_text, date_created, report_date)
		VALUES ($1, $2, $3, NOW(), $4)
		RETURNING id, report_name, report_type, report_text, date_created, report_date`,
		arg.ReportName, arg.ReportType, arg.ReportText, arg.ReportDate,
	)
	var r Report
	err := row.Scan(&r.ID, &r.ReportName, &r.ReportType, &r.ReportText, &r.DateCreated, &r.ReportDate)
	return r, err
}

func (q *Queries) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, report_name, report_type, report_text, date_created, report_date
		FROM reports
		ORDER BY date_created DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.ReportName, &r.ReportType, &r.ReportText,
			&r.DateCreated, &r.ReportDate); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (q *Queries) DeleteReport(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HasZReportForDate reports whether the day has already been closed out.
func (q *Queries) HasZReportForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reports
			WHERE report_type = 'Z-Report' AND report_date = $1
		)`,
		date,
	).Scan(&exists)
	return exists, err
}

// HourlySalesRow is one hour bucket of a day's sales.
type HourlySalesRow struct {
	Hour       int32
	OrderCount int64
	ItemCount  int64
	Revenue    pgtype.Numeric
}

func (q *Queries) GetHourlySalesForDate(ctx context.Context, date time.Time) ([]HourlySalesRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT EXTRACT(HOUR FROM order_time)::int AS hour,
			COUNT(DISTINCT order_number),
			COUNT(*),
			COALESCE(SUM(price), 0)
		FROM orders
		WHERE order_date = $1
		GROUP BY 1
		ORDER BY 1`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var buckets []HourlySalesRow
	for rows.Next() {
		var b HourlySalesRow
		if err := rows.Scan(&b.Hour, &b.OrderCount, &b.ItemCount, &b.Revenue); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// DayTotalsRow aggregates one calendar day of active orders.
type DayTotalsRow struct {
	OrderCount int64
	ItemCount  int64
	Revenue    pgtype.Numeric
}

func (q *Queries) GetDayTotals(ctx context.Context, date time.Time) (DayTotalsRow, error) {
	row := q.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT order_number), COUNT(*), COALESCE(SUM(price), 0)
		FROM orders
		WHERE order_date = $1`,
		date,
	)
	var t DayTotalsRow
	err := row.Scan(&t.OrderCount, &t.ItemCount, &t.Revenue)
	return t, err
}

// TopItemRow is one menu item ranked by units sold.
type TopItemRow struct {
	MenuItemID uuid.UUID
	Name       string
	Quantity   int64
	Revenue    pgtype.Numeric
}

func (q *Queries) GetTopItemsForDate(ctx context.Context, date time.Time, limit int32) ([]TopItemRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT m.id, m.name, COUNT(*), COALESCE(SUM(o.price), 0)
		FROM orders o
		JOIN menu_items m ON m.id = o.menu_item_id
		WHERE o.order_date = $1
		GROUP BY m.id, m.name
		ORDER BY COUNT(*) DESC, COALESCE(SUM(o.price), 0) DESC
		LIMIT $2`,
		date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopItemRow
	for rows.Next() {
		var it TopItemRow
		if err := rows.Scan(&it.MenuItemID, &it.Name, &it.Quantity, &it.Revenue); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
