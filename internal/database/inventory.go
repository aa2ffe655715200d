package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func (q *Queries) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, ingredient, quantity, unit_price, updated_at
		FROM inventory
		ORDER BY ingredient`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ID, &it.Ingredient, &it.Quantity, &it.UnitPrice, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) GetInventoryItem(ctx context.Context, id uuid.UUID) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, ingredient, quantity, unit_price, updated_at
		FROM inventory
		WHERE id = $1`,
		id,
	)
	var it InventoryItem
	err := row.Scan(&it.ID, &it.Ingredient, &it.Quantity, &it.UnitPrice, &it.UpdatedAt)
	return it, err
}

type CreateInventoryItemParams struct {
	Ingredient string
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO inventory (ingredient, quantity, unit_price)
		VALUES ($1, $2, $3)
		RETURNING id, ingredient, quantity, unit_price, updated_at`,
		arg.Ingredient, arg.Quantity, arg.UnitPrice,
	)
	var it InventoryItem
	err := row.Scan(&it.ID, &it.Ingredient, &it.Quantity, &it.UnitPrice, &it.UpdatedAt)
	return it, err
}

type UpdateInventoryItemParams struct {
	ID         uuid.UUID
	Ingredient string
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

func (q *Queries) UpdateInventoryItem(ctx context.Context, arg UpdateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE inventory
		SET ingredient = $2, quantity = $3, unit_price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, ingredient, quantity, unit_price, updated_at`,
		arg.ID, arg.Ingredient, arg.Quantity, arg.UnitPrice,
	)
	var it InventoryItem
	err := row.Scan(&it.ID, &it.Ingredient, &it.Quantity, &it.UnitPrice, &it.UpdatedAt)
	return it, err
}

func (q *Queries) DeleteInventoryItem(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// LowStockRow is an inventory item at or below a restock threshold, with a
// count of the menu items whose recipes depend on it.
type LowStockRow struct {
	ID              uuid.UUID
	Ingredient      string
	Quantity        int32
	UnitPrice       pgtype.Numeric
	UsedInMenuItems int64
}

func (q *Queries) ListLowStock(ctx context.Context, threshold int32) ([]LowStockRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT i.id, i.ingredient, i.quantity, i.unit_price,
			COUNT(r.menu_item_id)
		FROM inventory i
		LEFT JOIN menu_recipe r ON r.ingredient_id = i.id
		WHERE i.quantity <= $1
		GROUP BY i.id, i.ingredient, i.quantity, i.unit_price
		ORDER BY i.quantity, i.ingredient`,
		threshold,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LowStockRow
	for rows.Next() {
		var it LowStockRow
		if err := rows.Scan(&it.ID, &it.Ingredient, &it.Quantity, &it.UnitPrice, &it.UsedInMenuItems); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
