package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound    = errors.New("Order not found")
	ErrAlreadyCancelled = errors.New("Order is already cancelled")
)

// CancelStore defines the DB methods needed by cancellation.
// Satisfied by *database.Queries (and its WithTx variant).
type CancelStore interface {
	CountOrderLines(ctx context.Context, orderNumber int64) (int64, error)
	GetOrderStatus(ctx context.Context, orderNumber int64) (database.OrderStatusRow, error)
	ListOrderLines(ctx context.Context, orderNumber int64) ([]database.OrderLine, error)
	CreateCancelledOrderLine(ctx context.Context, arg database.CreateCancelledOrderLineParams) error
	GetRecipeForMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.RecipeIngredientRow, error)
	RestoreInventory(ctx context.Context, id uuid.UUID, qty int32) error
	DeleteOrderLines(ctx context.Context, orderNumber int64) (int64, error)
	CreateReport(ctx context.Context, arg database.CreateReportParams) (database.Report, error)
	UpsertOrderStatus(ctx context.Context, arg database.UpsertOrderStatusParams) error
}

// NewCancelStore creates a CancelStore from a DBTX (pool or tx).
type NewCancelStore func(db database.DBTX) CancelStore

// CancelResult summarizes the financial impact of a cancellation.
// NetImpact is negative: revenue walks out the door, only ingredient cost
// comes back.
type CancelResult struct {
	OrderNumber int64
	LinesMoved  int
	RevenueLost decimal.Decimal
	CostSaved   decimal.Decimal
	NetImpact   decimal.Decimal
}

// CancelService moves an order from active to cancelled.
type CancelService struct {
	pool     TxBeginner
	newStore NewCancelStore
}

// NewCancelService creates a new CancelService.
func NewCancelService(pool TxBeginner, newStore NewCancelStore) *CancelService {
	return &CancelService{pool: pool, newStore: newStore}
}

// Cancel performs the compensating transaction for one checkout: every
// active line is copied into cancelled_orders, each line's recipe
// ingredients are restored to inventory scaled by the line's size, the
// active lines are deleted, a cancellation report row records the loss, and
// the status row flips to cancelled. Any failure rolls the whole thing
// back, so the inventory-balance invariant can never be half-applied.
func (s *CancelService) Cancel(ctx context.Context, orderNumber int64) (*CancelResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	count, err := store.CountOrderLines(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("count order lines: %w", err)
	}

	status, err := store.GetOrderStatus(ctx, orderNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get order status: %w", err)
	}
	if err == nil && status.Status == enum.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	// An order id with a status row but zero active lines is an
	// inconsistency we surface as not-found rather than repair.
	if count == 0 {
		return nil, ErrOrderNotFound
	}

	lines, err := store.ListOrderLines(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}

	totalRevenue := decimal.Zero
	totalCost := decimal.Zero

	for _, line := range lines {
		if err := store.CreateCancelledOrderLine(ctx, database.CreateCancelledOrderLineParams{
			OrderNumber: line.OrderNumber,
			OrderDate:   line.OrderDate.Time,
			OrderTime:   line.OrderTime,
			MenuItemID:  line.MenuItemID,
			Price:       line.Price,
			EmployeeID:  line.EmployeeID,
			BobaPct:     line.BobaPct,
			IcePct:      line.IcePct,
			SugarPct:    line.SugarPct,
			Size:        line.Size,
			Toppings:    line.Toppings,
		}); err != nil {
			return nil, fmt.Errorf("copy line %d: %w", line.ID, err)
		}

		totalRevenue = totalRevenue.Add(database.NumericToDecimal(line.Price))

		recipe, err := store.GetRecipeForMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("get recipe for line %d: %w", line.ID, err)
		}
		sizeFactor := decimal.NewFromInt32(line.Size)
		for _, ing := range recipe {
			totalCost = totalCost.Add(database.NumericToDecimal(ing.UnitPrice).Mul(sizeFactor))
			if err := store.RestoreInventory(ctx, ing.IngredientID, line.Size); err != nil {
				return nil, fmt.Errorf("restore %s: %w", ing.Ingredient, err)
			}
		}
	}

	deleted, err := store.DeleteOrderLines(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("delete order lines: %w", err)
	}
	if deleted != int64(len(lines)) {
		return nil, fmt.Errorf("expected to delete %d lines, deleted %d", len(lines), deleted)
	}

	netImpact := totalRevenue.Sub(totalCost).Neg()

	reportText := fmt.Sprintf(
		"Order #%d cancelled (%d items). Revenue Lost: $%s, Cost Saved: $%s, Net Impact: $%s",
		orderNumber, len(lines),
		totalRevenue.StringFixed(2), totalCost.StringFixed(2), netImpact.StringFixed(2),
	)
	if _, err := store.CreateReport(ctx, database.CreateReportParams{
		ReportName: fmt.Sprintf("Order %d Cancellation", orderNumber),
		ReportType: enum.ReportTypeCancellation,
		ReportText: reportText,
	}); err != nil {
		return nil, fmt.Errorf("create cancellation report: %w", err)
	}

	if err := store.UpsertOrderStatus(ctx, database.UpsertOrderStatusParams{
		OrderNumber: orderNumber,
		Status:      enum.OrderStatusCancelled,
	}); err != nil {
		return nil, fmt.Errorf("upsert order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CancelResult{
		OrderNumber: orderNumber,
		LinesMoved:  len(lines),
		RevenueLost: totalRevenue,
		CostSaved:   totalCost,
		NetImpact:   netImpact,
	}, nil
}
