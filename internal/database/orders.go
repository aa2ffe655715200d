package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NextOrderNumber claims a fresh checkout id from the database. The id is
// sequence-backed, so concurrent checkouts can never collide.
func (q *Queries) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`INSERT INTO order_groups DEFAULT VALUES RETURNING order_number`,
	).Scan(&n)
	return n, err
}

type CreateOrderLineParams struct {
	OrderNumber int64
	OrderDate   time.Time
	OrderTime   string
	MenuItemID  uuid.UUID
	Price       pgtype.Numeric
	EmployeeID  pgtype.UUID
	BobaPct     int32
	IcePct      int32
	SugarPct    int32
	Size        int32
	Toppings    pgtype.Text
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (order_number, order_date, order_time, menu_item_id, price,
			employee_id, boba_pct, ice_pct, sugar_pct, size, toppings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, order_number, order_date, order_time::text, menu_item_id, price,
			employee_id, boba_pct, ice_pct, sugar_pct, size, toppings`,
		arg.OrderNumber, arg.OrderDate, arg.OrderTime, arg.MenuItemID, arg.Price,
		arg.EmployeeID, arg.BobaPct, arg.IcePct, arg.SugarPct, arg.Size, arg.Toppings,
	)
	var l OrderLine
	err := row.Scan(&l.ID, &l.OrderNumber, &l.OrderDate, &l.OrderTime, &l.MenuItemID,
		&l.Price, &l.EmployeeID, &l.BobaPct, &l.IcePct, &l.SugarPct, &l.Size, &l.Toppings)
	return l, err
}

func (q *Queries) ListOrderLines(ctx context.Context, orderNumber int64) ([]OrderLine, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_number, order_date, order_time::text, menu_item_id, price,
			employee_id, boba_pct, ice_pct, sugar_pct, size, toppings
		FROM orders
		WHERE order_number = $1
		ORDER BY id`,
		orderNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderNumber, &l.OrderDate, &l.OrderTime, &l.MenuItemID,
			&l.Price, &l.EmployeeID, &l.BobaPct, &l.IcePct, &l.SugarPct, &l.Size, &l.Toppings); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (q *Queries) CountOrderLines(ctx context.Context, orderNumber int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE order_number = $1`, orderNumber,
	).Scan(&n)
	return n, err
}

// DeleteOrderLines removes every active line for a checkout and returns how
// many rows were removed.
func (q *Queries) DeleteOrderLines(ctx context.Context, orderNumber int64) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM orders WHERE order_number = $1`, orderNumber)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type CreateCancelledOrderLineParams struct {
	OrderNumber int64
	OrderDate   time.Time
	OrderTime   string
	MenuItemID  uuid.UUID
	Price       pgtype.Numeric
	EmployeeID  pgtype.UUID
	BobaPct     int32
	IcePct      int32
	SugarPct    int32
	Size        int32
	Toppings    pgtype.Text
}

func (q *Queries) CreateCancelledOrderLine(ctx context.Context, arg CreateCancelledOrderLineParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO cancelled_orders (order_number, order_date, order_time, menu_item_id,
			price, employee_id, boba_pct, ice_pct, sugar_pct, size, toppings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		arg.OrderNumber, arg.OrderDate, arg.OrderTime, arg.MenuItemID, arg.Price,
		arg.EmployeeID, arg.BobaPct, arg.IcePct, arg.SugarPct, arg.Size, arg.Toppings,
	)
	return err
}

func (q *Queries) CountCancelledOrderLines(ctx context.Context, orderNumber int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM cancelled_orders WHERE order_number = $1`, orderNumber,
	).Scan(&n)
	return n, err
}

// GetMenuItemForOrder fetches an active menu item by id for validation at
// checkout time.
func (q *Queries) GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, name, category, price, size_upcharge, is_active, created_at, updated_at
		FROM menu_items
		WHERE id = $1 AND is_active`,
		id,
	)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.SizeUpcharge,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// RecipeIngredientRow is one inventory ingredient a menu item consumes.
type RecipeIngredientRow struct {
	IngredientID uuid.UUID
	Ingredient   string
	UnitPrice    pgtype.Numeric
}

func (q *Queries) GetRecipeForMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]RecipeIngredientRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT i.id, i.ingredient, i.unit_price
		FROM menu_recipe r
		JOIN inventory i ON i.id = r.ingredient_id
		WHERE r.menu_item_id = $1
		ORDER BY i.ingredient`,
		menuItemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recipe []RecipeIngredientRow
	for rows.Next() {
		var r RecipeIngredientRow
		if err := rows.Scan(&r.IngredientID, &r.Ingredient, &r.UnitPrice); err != nil {
			return nil, err
		}
		recipe = append(recipe, r)
	}
	return recipe, rows.Err()
}

// ConsumeInventory decrements an ingredient's quantity, refusing to go
// negative. Returns the number of rows updated: zero means insufficient
// stock.
func (q *Queries) ConsumeInventory(ctx context.Context, id uuid.UUID, qty int32) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2`,
		id, qty,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RestoreInventory adds quantity back to an ingredient after a cancellation.
func (q *Queries) RestoreInventory(ctx context.Context, id uuid.UUID, qty int32) error {
	_, err := q.db.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1`,
		id, qty,
	)
	return err
}
