package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ── Report types ──

const (
	ReportTypeZReport      = "Z-Report"
	ReportTypeCancellation = "Cancellation"
	ReportTypeGeneral      = "General"
)

// ── Staff roles (CHECK constrained in DB) ──

const (
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
	RoleKitchen = "KITCHEN"
)

// ── Drink sizes; the numeric value scales recipe consumption ──

const (
	SizeRegular = 1
	SizeLarge   = 2
)

// ── Reward mini-games (unique-play constrained in DB) ──

const (
	GameTypeMatching = "matching"
	GameTypeFlappy   = "flappy"
)
