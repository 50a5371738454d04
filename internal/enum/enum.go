package enum

// ── Group A: State machines (enum type in DB) ──

// Order statuses are part of the external contract consumed by the kitchen
// and manager views; spelling and casing must not change.
const (
	OrderStatusIncomplete = "Incomplete"
	OrderStatusCompleted  = "Completed"
	OrderStatusCanceled   = "Canceled"
)

// ── Group B: Wire labels (validated at the HTTP edge) ──

const (
	ItemKindRegular  = "regular"
	ItemKindSeasonal = "seasonal"
)

const (
	StockPolicyGuarded            = "guarded"
	StockPolicyDecrementThenCheck = "decrement_then_check"
)

// ── Group C: Staff roles (issued by the identity provider) ──

const (
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
	UserRoleKitchen = "KITCHEN"
)

// ── Group D: Event types (websocket feed and message queue) ──

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventCheckoutRejected   = "checkout.rejected"
)
