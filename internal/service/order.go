package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrNoItems           = errors.New("No items provided")
	ErrInvalidMenuItemID = errors.New("invalid menu item id")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidSize       = errors.New("size must be >= 1")
	ErrInvalidPercent    = errors.New("customization percent must be between 0 and 100")
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	ErrInsufficientStock = errors.New("insufficient inventory for order")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to place orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	GetRecipeForMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.RecipeIngredientRow, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.OrderLine, error)
	ConsumeInventory(ctx context.Context, id uuid.UUID, qty int32) (int64, error)
	UpsertOrderStatus(ctx context.Context, arg database.UpsertOrderStatusParams) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// PlaceOrderItem is one cart line at checkout.
type PlaceOrderItem struct {
	MenuItemID string
	Price      string
	Boba       int32
	Ice        int32
	Sugar      int32
	Size       int32
	Toppings   string
}

// PlaceOrderRequest is the validated input for checkout. EmployeeID is
// empty for kiosk orders placed by customers themselves.
type PlaceOrderRequest struct {
	EmployeeID string
	Items      []PlaceOrderItem
}

// PlaceOrderResult carries the checkout id for receipt generation.
type PlaceOrderResult struct {
	OrderNumber int64
	Total       decimal.Decimal
	OrderDate   time.Time
	OrderTime   string
}

// OrderService handles checkout business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// preparedLine is a validated cart line ready for insert.
type preparedLine struct {
	menuItemID uuid.UUID
	price      decimal.Decimal
	boba       int32
	ice        int32
	sugar      int32
	size       int32
	toppings   string
}

// PlaceOrder validates the cart and writes the whole checkout in a single
// transaction: every line, the recipe-driven inventory consumption, and the
// pending status row all commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	employeeID := pgtype.UUID{}
	if req.EmployeeID != "" {
		eid, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, ErrInvalidEmployeeID
		}
		employeeID = pgtype.UUID{Bytes: eid, Valid: true}
	}

	lines := make([]preparedLine, 0, len(req.Items))
	for i, item := range req.Items {
		line, err := prepareLine(item)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		lines = append(lines, line)
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	orderNumber, err := store.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next order number: %w", err)
	}

	now := time.Now().In(Chicago())
	orderDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Chicago())
	orderTime := now.Format("15:04:05")

	total := decimal.Zero
	for i, line := range lines {
		if _, err := store.GetMenuItemForOrder(ctx, line.menuItemID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("items[%d]: get menu item: %w", i, err)
		}

		toppings := pgtype.Text{}
		if line.toppings != "" {
			toppings = pgtype.Text{String: line.toppings, Valid: true}
		}

		if _, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
			OrderNumber: orderNumber,
			OrderDate:   orderDate,
			OrderTime:   orderTime,
			MenuItemID:  line.menuItemID,
			Price:       database.DecimalToNumeric(line.price),
			EmployeeID:  employeeID,
			BobaPct:     line.boba,
			IcePct:      line.ice,
			SugarPct:    line.sugar,
			Size:        line.size,
			Toppings:    toppings,
		}); err != nil {
			return nil, fmt.Errorf("items[%d]: create order line: %w", i, err)
		}

		// Consume one unit per recipe ingredient, scaled by drink size.
		// This mirrors the restoration performed on cancellation.
		recipe, err := store.GetRecipeForMenuItem(ctx, line.menuItemID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: get recipe: %w", i, err)
		}
		for _, ing := range recipe {
			affected, err := store.ConsumeInventory(ctx, ing.IngredientID, line.size)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: consume %s: %w", i, ing.Ingredient, err)
			}
			if affected == 0 {
				return nil, fmt.Errorf("items[%d]: %s: %w", i, ing.Ingredient, ErrInsufficientStock)
			}
		}

		total = total.Add(line.price)
	}

	if err := store.UpsertOrderStatus(ctx, database.UpsertOrderStatusParams{
		OrderNumber: orderNumber,
		Status:      enum.OrderStatusPending,
	}); err != nil {
		return nil, fmt.Errorf("upsert order status: %w", err)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PlaceOrderResult{
		OrderNumber: orderNumber,
		Total:       total,
		OrderDate:   orderDate,
		OrderTime:   orderTime,
	}, nil
}

func prepareLine(item PlaceOrderItem) (preparedLine, error) {
	menuItemID, err := uuid.Parse(item.MenuItemID)
	if err != nil {
		return preparedLine{}, ErrInvalidMenuItemID
	}

	price, err := decimal.NewFromString(item.Price)
	if err != nil || price.IsNegative() {
		return preparedLine{}, ErrInvalidPrice
	}

	size := item.Size
	if size == 0 {
		size = 1
	}
	if size < 1 {
		return preparedLine{}, ErrInvalidSize
	}

	for _, pct := range []int32{item.Boba, item.Ice, item.Sugar} {
		if pct < 0 || pct > 100 {
			return preparedLine{}, ErrInvalidPercent
		}
	}

	return preparedLine{
		menuItemID: menuItemID,
		price:      price,
		boba:       item.Boba,
		ice:        item.Ice,
		sugar:      item.Sugar,
		size:       size,
		toppings:   item.Toppings,
	}, nil
}
