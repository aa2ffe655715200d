package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type UpsertOrderStatusParams struct {
	OrderNumber int64
	Status      string
}

// UpsertOrderStatus writes the single status row for a checkout, creating
// it on first use.
func (q *Queries) UpsertOrderStatus(ctx context.Context, arg UpsertOrderStatusParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO order_status (order_number, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (order_number)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`,
		arg.OrderNumber, arg.Status,
	)
	return err
}

func (q *Queries) GetOrderStatus(ctx context.Context, orderNumber int64) (OrderStatusRow, error) {
	row := q.db.QueryRow(ctx, `
		SELECT order_number, status, updated_at
		FROM order_status
		WHERE order_number = $1`,
		orderNumber,
	)
	var s OrderStatusRow
	err := row.Scan(&s.OrderNumber, &s.Status, &s.UpdatedAt)
	return s, err
}

// KitchenLineRow is one order line joined with its menu item name and the
// checkout's current status, shaped for the kitchen display.
type KitchenLineRow struct {
	OrderNumber int64
	Status      string
	OrderTime   string
	ItemName    string
	Price       pgtype.Numeric
	Size        int32
	BobaPct     int32
	IcePct      int32
	SugarPct    int32
	Toppings    pgtype.Text
}

// ListKitchenLinesForDate returns every active order line for one calendar
// date, newest checkout first. Checkouts without a status row default to
// pending.
func (q *Queries) ListKitchenLinesForDate(ctx context.Context, date time.Time) ([]KitchenLineRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT o.order_number, COALESCE(s.status, 'pending'), o.order_time::text,
			m.name, o.price, o.size, o.boba_pct, o.ice_pct, o.sugar_pct, o.toppings
		FROM orders o
		JOIN menu_items m ON m.id = o.menu_item_id
		LEFT JOIN order_status s ON s.order_number = o.order_number
		WHERE o.order_date = $1
		ORDER BY o.order_number DESC, o.id`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKitchenLines(rows)
}

// ListCancelledKitchenLinesForDate returns the day's cancelled order lines
// with status forced to cancelled.
func (q *Queries) ListCancelledKitchenLinesForDate(ctx context.Context, date time.Time) ([]KitchenLineRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT c.order_number, 'cancelled', c.order_time::text,
			m.name, c.price, c.size, c.boba_pct, c.ice_pct, c.sugar_pct, c.toppings
		FROM cancelled_orders c
		JOIN menu_items m ON m.id = c.menu_item_id
		WHERE c.order_date = $1
		ORDER BY c.order_number DESC, c.id`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKitchenLines(rows)
}

func scanKitchenLines(rows pgx.Rows) ([]KitchenLineRow, error) {
	var lines []KitchenLineRow
	for rows.Next() {
		var l KitchenLineRow
		if err := rows.Scan(&l.OrderNumber, &l.Status, &l.OrderTime, &l.ItemName,
			&l.Price, &l.Size, &l.BobaPct, &l.IcePct, &l.SugarPct, &l.Toppings); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// OrderExists reports whether a checkout id is known to either the active
// or the cancelled orders table.
func (q *Queries) OrderExists(ctx context.Context, orderNumber int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)
			OR EXISTS (SELECT 1 FROM cancelled_orders WHERE order_number = $1)`,
		orderNumber,
	).Scan(&exists)
	return exists, err
}
