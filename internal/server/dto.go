package server

import (
	"collectpoint/internal/domain"
)

// Request payloads

type TopUpRequest struct {
	Amount string `json:"amount" example:"500"`
}

type TransferRequest struct {
	PartnerID string `json:"partner_id"`
	Amount    string `json:"amount" example:"300"`
}

type CreatePartnerRequest struct {
	Name string `json:"name"`
}

type SetPartnerStatusRequest struct {
	Status string `json:"status" enum:"active,inactive"`
}

type CreateOrderRequest struct {
	CustomerName    string   `json:"customer_name"`
	CustomerAddress string   `json:"customer_address"`
	CustomerContact string   `json:"customer_contact"`
	Amount          string   `json:"amount" example:"150"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

type AssignOrderRequest struct {
	OrderID   string `json:"order_id"`
	PartnerID string `json:"partner_id"`
}

type SetOrderStatusRequest struct {
	Status string `json:"status" enum:"Pending,In Progress,Completed"`
}

// Response payloads

type WalletResponse struct {
	NewWalletBalance string `json:"new_wallet_balance" example:"700"`
}

type AccountResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role" enum:"mcp,partner"`
	Status        string `json:"status,omitempty" enum:"active,inactive"`
	WalletBalance string `json:"wallet_balance"`
	TotalOrders   int    `json:"total_orders"`
	MCPID         string `json:"mcp_id,omitempty"`
	CreatedAt     string `json:"created_at" format:"date-time"`
	UpdatedAt     string `json:"updated_at" format:"date-time"`
}

type OrderResponse struct {
	ID              string   `json:"id"`
	MCPID           string   `json:"mcp_id"`
	CustomerName    string   `json:"customer_name"`
	CustomerAddress string   `json:"customer_address"`
	CustomerContact string   `json:"customer_contact"`
	Amount          string   `json:"amount"`
	Status          string   `json:"status" enum:"Pending,In Progress,Completed"`
	AssignedTo      *string  `json:"assigned_to,omitempty"`
	PartnerName     string   `json:"partner_name,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	CreatedAt       string   `json:"created_at" format:"date-time"`
	UpdatedAt       string   `json:"updated_at" format:"date-time"`
}

type DeletePartnerResponse struct {
	OK bool `json:"ok"`
}

type AssignOrderResponse struct {
	Order   OrderResponse   `json:"order"`
	Partner AccountResponse `json:"partner"`
}

type PartnerSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status" enum:"active,inactive"`
	TotalOrders int    `json:"total_orders"`
}

type OrderCountsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type DashboardResponse struct {
	WalletBalance  string                   `json:"wallet_balance"`
	PickupPartners []PartnerSummaryResponse `json:"pickup_partners"`
	Orders         OrderCountsResponse      `json:"orders"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	MCPID      string `json:"mcp_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json,omitempty"`
}

func accountResponse(a domain.Account) AccountResponse {
	out := AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Role:          a.Role,
		Status:        a.Status,
		WalletBalance: a.WalletBalance.String(),
		TotalOrders:   a.TotalOrders,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.MCPID != nil {
		out.MCPID = *a.MCPID
	}
	return out
}

func orderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		MCPID:           o.MCPID,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
		CustomerContact: o.CustomerContact,
		Amount:          o.Amount.String(),
		Status:          o.Status,
		AssignedTo:      o.AssignedTo,
		PartnerName:     o.PartnerName,
		Latitude:        o.Latitude,
		Longitude:       o.Longitude,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func mapOrders(items []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, orderResponse(o))
	}
	return out
}

func mapAccounts(items []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(items))
	for _, a := range items {
		out = append(out, accountResponse(a))
	}
	return out
}

func dashboardResponse(s domain.DashboardSnapshot) DashboardResponse {
	out := DashboardResponse{
		WalletBalance:  s.WalletBalance.String(),
		PickupPartners: make([]PartnerSummaryResponse, 0, len(s.PickupPartners)),
		Orders: OrderCountsResponse{
			Total:     s.Orders.Total,
			Completed: s.Orders.Completed,
			Pending:   s.Orders.Pending,
		},
	}
	for _, p := range s.PickupPartners {
		out.PickupPartners = append(out.PickupPartners, PartnerSummaryResponse{
			ID:          p.ID,
			Name:        p.Name,
			Status:      p.Status,
			TotalOrders: p.TotalOrders,
		})
	}
	return out
}

func countsResponse(c domain.OrderCounts) OrderCountsResponse {
	return OrderCountsResponse{Total: c.Total, Completed: c.Completed, Pending: c.Pending}
}

func mapEvents(items []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, EventResponse{
			ID:         e.ID,
			TS:         e.TS,
			Type:       e.Type,
			MCPID:      e.MCPID,
			EntityKind: e.EntityKind,
			EntityID:   e.EntityID,
			ActorID:    e.ActorID,
			Payload:    e.Payload,
		})
	}
	return out
}
