package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collectpoint/internal/domain"
	"collectpoint/internal/events"
	"collectpoint/internal/repo"
)

// CreatePartner registers a pickup partner under the MCP, active by default.
func (e Engine) CreatePartner(ctx context.Context, mcpID, name string) (domain.Account, error) {
	if name == "" {
		return domain.Account{}, errors.New("name is required")
	}
	mcp, err := e.Repo.GetAccount(ctx, mcpID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	now := e.now().UTC().Format(time.RFC3339)
	p := domain.Account{
		ID:            uuid.New().String(),
		Name:          name,
		Role:          domain.RolePartner,
		Status:        domain.PartnerActive,
		WalletBalance: decimal.Zero,
		MCPID:         &mcp.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertAccountTx(ctx, tx, p); err != nil {
		return domain.Account{}, err
	}
	if err := e.Events.Append(ctx, tx, "partner.created", mcp.ID, "account", p.ID, mcp.ID, events.EventPayload{"name": p.Name}); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Account{}, err
	}
	return p, nil
}

// SetPartnerStatus flips a partner between active and inactive.
func (e Engine) SetPartnerStatus(ctx context.Context, mcpID, partnerID, status string) (domain.Account, error) {
	if status != domain.PartnerActive && status != domain.PartnerInactive {
		return domain.Account{}, ErrInvalidStatus
	}
	p, err := e.getPartner(ctx, nil, mcpID, partnerID)
	if err != nil {
		return domain.Account{}, err
	}
	now := e.now().UTC().Format(time.RFC3339)
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE accounts SET status=?, updated_at=? WHERE id=? AND role='partner'`, status, now, p.ID)
	if err != nil {
		return domain.Account{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Account{}, ErrPartnerNotFound
	}
	if err := e.Events.Append(ctx, tx, "partner.status", mcpID, "account", p.ID, mcpID, events.EventPayload{"from": p.Status, "to": status}); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Account{}, err
	}
	p.Status = status
	p.UpdatedAt = now
	return p, nil
}

// DeletePartner removes the partner record, then nulls assigned_to on every
// order that referenced it. Orphan repair only: order status is untouched.
func (e Engine) DeletePartner(ctx context.Context, mcpID, partnerID string) error {
	p, err := e.getPartner(ctx, nil, mcpID, partnerID)
	if err != nil {
		return err
	}
	now := e.now().UTC().Format(time.RFC3339)
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.DeleteAccountTx(ctx, tx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPartnerNotFound
		}
		return err
	}
	repaired, err := e.Repo.ClearAssignmentsTx(ctx, tx, p.ID, now)
	if err != nil {
		return err
	}
	if err := e.Repo.DeleteAPIKeysForAccountTx(ctx, tx, p.ID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "partner.deleted", mcpID, "account", p.ID, mcpID, events.EventPayload{
		"orders_unassigned": repaired,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// OrderCreateOptions are parameters for creating an order.
type OrderCreateOptions struct {
	CustomerName    string
	CustomerAddress string
	CustomerContact string
	Amount          decimal.Decimal
	Latitude        *float64
	Longitude       *float64
	Notes           string
}

// CreateOrder records a new order: Pending, unassigned, owned by the MCP.
func (e Engine) CreateOrder(ctx context.Context, mcpID string, opts OrderCreateOptions) (domain.Order, error) {
	if opts.CustomerName == "" || opts.CustomerAddress == "" || opts.CustomerContact == "" {
		return domain.Order{}, errors.New("customer name, address and contact are required")
	}
	if !opts.Amount.IsPositive() {
		return domain.Order{}, ErrInvalidAmount
	}
	mcp, err := e.Repo.GetAccount(ctx, mcpID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Order{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	now := e.now().UTC().Format(time.RFC3339)
	o := domain.Order{
		ID:              uuid.New().String(),
		MCPID:           mcp.ID,
		CustomerName:    opts.CustomerName,
		CustomerAddress: opts.CustomerAddress,
		CustomerContact: opts.CustomerContact,
		Amount:          opts.Amount,
		Status:          domain.OrderPending,
		Latitude:        opts.Latitude,
		Longitude:       opts.Longitude,
		Notes:           opts.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertOrderTx(ctx, tx, o); err != nil {
		return domain.Order{}, err
	}
	if err := e.Events.Append(ctx, tx, "order.created", mcp.ID, "order", o.ID, mcp.ID, events.EventPayload{
		"customer": o.CustomerName,
		"amount":   o.Amount.String(),
	}); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// AssignOrder binds an order to a partner, forces the order In Progress and
// increments the partner counter, all in one transaction. Re-assignment is
// allowed and increments again; callers wanting exactly-once must not retry
// blindly.
func (e Engine) AssignOrder(ctx context.Context, mcpID, orderID, partnerID string) (domain.Order, domain.Account, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	defer tx.Rollback()

	o, err := e.Repo.GetOrderTx(ctx, tx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Order{}, domain.Account{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	if o.MCPID != mcpID {
		return domain.Order{}, domain.Account{}, ErrScopeViolation
	}
	p, err := e.getPartner(ctx, tx, mcpID, partnerID)
	if err != nil {
		return domain.Order{}, domain.Account{}, err
	}

	now := e.now().UTC().Format(time.RFC3339)
	if err := e.Repo.AssignOrderTx(ctx, tx, o.ID, p.ID, now); err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	if err := e.Repo.IncrementTotalOrdersTx(ctx, tx, p.ID, now); err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	if err := e.Events.Append(ctx, tx, "order.assigned", mcpID, "order", o.ID, mcpID, events.EventPayload{
		"partner_id":  p.ID,
		"from_status": o.Status,
	}); err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, domain.Account{}, err
	}
	o.AssignedTo = &p.ID
	o.PartnerName = p.Name
	o.Status = domain.OrderInProgress
	o.UpdatedAt = now
	p.TotalOrders++
	p.UpdatedAt = now
	return o, p, nil
}

// UpdateStatus moves an order to a new lifecycle status. The one guarded
// transition: an assigned order can never go back to Pending.
func (e Engine) UpdateStatus(ctx context.Context, mcpID, orderID, status string) (domain.Order, error) {
	canonical, ok := canonicalStatus(status)
	if !ok {
		return domain.Order{}, ErrInvalidStatus
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, err
	}
	defer tx.Rollback()

	o, err := e.Repo.GetOrderTx(ctx, tx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.MCPID != mcpID {
		return domain.Order{}, ErrScopeViolation
	}
	if o.AssignedTo != nil && canonical == domain.OrderPending {
		return domain.Order{}, ErrIllegalTransition
	}
	now := e.now().UTC().Format(time.RFC3339)
	if err := e.Repo.UpdateOrderStatusTx(ctx, tx, o.ID, canonical, now); err != nil {
		return domain.Order{}, err
	}
	if err := e.Events.Append(ctx, tx, "order.status", mcpID, "order", o.ID, mcpID, events.EventPayload{
		"from": o.Status,
		"to":   canonical,
	}); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	o.Status = canonical
	o.UpdatedAt = now
	return o, nil
}

// canonicalStatus maps a label to its canonical form, case-insensitively.
func canonicalStatus(s string) (string, bool) {
	for _, c := range []string{domain.OrderPending, domain.OrderInProgress, domain.OrderCompleted} {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}
