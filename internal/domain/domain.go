package domain

import "github.com/shopspring/decimal"

// Account roles.
const (
	RoleMCP     = "mcp"
	RolePartner = "partner"
)

// Partner statuses.
const (
	PartnerActive   = "active"
	PartnerInactive = "inactive"
)

// Order lifecycle statuses. Labels match the wire contract exactly.
const (
	OrderPending    = "Pending"
	OrderInProgress = "In Progress"
	OrderCompleted  = "Completed"
)

// Account is either an MCP operator or a pickup partner. Both share the
// wallet shape; Status, TotalOrders and MCPID are meaningful for partners only.
type Account struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Role          string          `json:"role" enum:"mcp,partner"`
	Status        string          `json:"status,omitempty" enum:"active,inactive"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	TotalOrders   int             `json:"total_orders"`
	MCPID         *string         `json:"mcp_id,omitempty"`
	CreatedAt     string          `json:"created_at" format:"date-time"`
	UpdatedAt     string          `json:"updated_at" format:"date-time"`
}

type Order struct {
	ID              string          `json:"id"`
	MCPID           string          `json:"mcp_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerContact string          `json:"customer_contact"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status" enum:"Pending,In Progress,Completed"`
	AssignedTo      *string         `json:"assigned_to,omitempty"`
	PartnerName     string          `json:"partner_name,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at" format:"date-time"`
	UpdatedAt       string          `json:"updated_at" format:"date-time"`
}

// PartnerSummary is the dashboard projection of a partner.
type PartnerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TotalOrders int    `json:"total_orders"`
}

type OrderCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// DashboardSnapshot is the read-only composition of one MCP's wallet,
// partners and order counts.
type DashboardSnapshot struct {
	WalletBalance  decimal.Decimal  `json:"wallet_balance"`
	PickupPartners []PartnerSummary `json:"pickup_partners"`
	Orders         OrderCounts      `json:"orders"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	MCPID      string `json:"mcp_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
