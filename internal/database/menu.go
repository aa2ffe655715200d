package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, name, category, price, size_upcharge, is_active, created_at, updated_at
		FROM menu_items
		WHERE is_active
		ORDER BY category, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.SizeUpcharge,
			&m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type UpsertMenuItemParams struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Price        pgtype.Numeric
	SizeUpcharge pgtype.Numeric
	IsActive     bool
}

// UpsertMenuItem creates or updates one menu item by id.
func (q *Queries) UpsertMenuItem(ctx context.Context, arg UpsertMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO menu_items (id, name, category, price, size_upcharge, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,
			price = EXCLUDED.price, size_upcharge = EXCLUDED.size_upcharge,
			is_active = EXCLUDED.is_active, updated_at = NOW()
		RETURNING id, name, category, price, size_upcharge, is_active, created_at, updated_at`,
		arg.ID, arg.Name, arg.Category, arg.Price, arg.SizeUpcharge, arg.IsActive,
	)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.SizeUpcharge,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// MenuRecipeRow is one menu-item-to-ingredient mapping with display names.
type MenuRecipeRow struct {
	MenuItemID   uuid.UUID
	MenuItemName string
	IngredientID uuid.UUID
	Ingredient   string
}

func (q *Queries) ListMenuRecipes(ctx context.Context) ([]MenuRecipeRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT r.menu_item_id, m.name, r.ingredient_id, i.ingredient
		FROM menu_recipe r
		JOIN menu_items m ON m.id = r.menu_item_id
		JOIN inventory i ON i.id = r.ingredient_id
		ORDER BY m.name, i.ingredient`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recipes []MenuRecipeRow
	for rows.Next() {
		var r MenuRecipeRow
		if err := rows.Scan(&r.MenuItemID, &r.MenuItemName, &r.IngredientID, &r.Ingredient); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// DeleteMenuRecipe clears the ingredient set for one menu item.
func (q *Queries) DeleteMenuRecipe(ctx context.Context, menuItemID uuid.UUID) error {
	_, err := q.db.Exec(ctx,
		`DELETE FROM menu_recipe WHERE menu_item_id = $1`, menuItemID)
	return err
}

type CreateMenuRecipeEntryParams struct {
	MenuItemID   uuid.UUID
	IngredientID uuid.UUID
}

func (q *Queries) CreateMenuRecipeEntry(ctx context.Context, arg CreateMenuRecipeEntryParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO menu_recipe (menu_item_id, ingredient_id)
		VALUES ($1, $2)`,
		arg.MenuItemID, arg.IngredientID,
	)
	return err
}
