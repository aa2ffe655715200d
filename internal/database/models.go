package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Employee struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Customer struct {
	ID           uuid.UUID
	Name         string
	Email        string
	RewardPoints int32
	CreatedAt    time.Time
}

type MenuItem struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Price        pgtype.Numeric
	SizeUpcharge pgtype.Numeric
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type InventoryItem struct {
	ID         uuid.UUID
	Ingredient string
	Quantity   int32
	UnitPrice  pgtype.Numeric
	UpdatedAt  time.Time
}

// OrderLine is one menu item within a checkout; every line of one checkout
// shares the same OrderNumber.
type OrderLine struct {
	ID          int64
	OrderNumber int64
	OrderDate   pgtype.Date
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

type CancelledOrderLine struct {
	ID          int64
	OrderNumber int64
	OrderDate   pgtype.Date
	OrderTime   string
	MenuItemID  uuid.UUID
	Price       pgtype.Numeric
	EmployeeID  pgtype.UUID
	BobaPct     int32
	IcePct      int32
	SugarPct    int32
	Size        int32
	Toppings    pgtype.Text
	CancelledAt time.Time
}

type OrderStatusRow struct {
	OrderNumber int64
	Status      string
	UpdatedAt   time.Time
}

type Report struct {
	ID          int64
	ReportName  string
	ReportType  string
	ReportText  string
	DateCreated time.Time
	ReportDate  pgtype.Date
}

type GamePlay struct {
	ID            int64
	CustomerID    uuid.UUID
	GameType      string
	PointsAwarded int32
	PlayDate      pgtype.Date
}
