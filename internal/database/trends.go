package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DailyTrendRow is one calendar day of sales within a range.
type DailyTrendRow struct {
	Day        pgtype.Date
	OrderCount int64
	ItemCount  int64
	Revenue    pgtype.Numeric
}

type TrendRangeParams struct {
	StartDate time.Time
	EndDate   time.Time // exclusive
}

func (q *Queries) GetDailyTrends(ctx context.Context, arg TrendRangeParams) ([]DailyTrendRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT order_date, COUNT(DISTINCT order_number), COUNT(*), COALESCE(SUM(price), 0)
		FROM orders
		WHERE order_date >= $1 AND order_date < $2
		GROUP BY order_date
		ORDER BY order_date`,
		arg.StartDate, arg.EndDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var trends []DailyTrendRow
	for rows.Next() {
		var t DailyTrendRow
		if err := rows.Scan(&t.Day, &t.OrderCount, &t.ItemCount, &t.Revenue); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// ItemTrendRow is one menu item's sales over a range.
type ItemTrendRow struct {
	MenuItemID uuid.UUID
	Name       string
	Quantity   int64
	Revenue    pgtype.Numeric
}

func (q *Queries) GetItemTrends(ctx context.Context, arg TrendRangeParams) ([]ItemTrendRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT m.id, m.name, COUNT(*), COALESCE(SUM(o.price), 0)
		FROM orders o
		JOIN menu_items m ON m.id = o.menu_item_id
		WHERE o.order_date >= $1 AND o.order_date < $2
		GROUP BY m.id, m.name
		ORDER BY COUNT(*) DESC, COALESCE(SUM(o.price), 0) DESC`,
		arg.StartDate, arg.EndDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var trends []ItemTrendRow
	for rows.Next() {
		var t ItemTrendRow
		if err := rows.Scan(&t.MenuItemID, &t.Name, &t.Quantity, &t.Revenue); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}
