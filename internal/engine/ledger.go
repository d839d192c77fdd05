package engine

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"collectpoint/internal/domain"
	"collectpoint/internal/events"
	"collectpoint/internal/repo"
)

// TopUp credits an account wallet. Not idempotent: every call adds funds.
// Returns the new balance.
func (e Engine) TopUp(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	a, err := e.Repo.GetAccountTx(ctx, tx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	now := e.now().UTC().Format(time.RFC3339)
	newBalance := a.WalletBalance.Add(amount)
	if err := e.Repo.SetBalanceTx(ctx, tx, a.ID, a.WalletBalance, newBalance, now); err != nil {
		return decimal.Zero, err
	}
	if err := e.Events.Append(ctx, tx, "wallet.topup", mcpScope(a), "account", a.ID, a.ID, events.EventPayload{
		"amount":      amount.String(),
		"new_balance": newBalance.String(),
	}); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Transfer moves funds from the MCP wallet to a partner wallet. Both sides
// change in one transaction; the debit is a compare-and-set against the
// balance read in this transaction, so the sufficient-funds check holds at
// write time. Returns the MCP's new balance.
func (e Engine) Transfer(ctx context.Context, mcpID, partnerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	mcp, err := e.Repo.GetAccountTx(ctx, tx, mcpID)
	if errors.Is(err, repo.ErrNotFound) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	partner, err := e.Repo.GetAccountTx(ctx, tx, partnerID)
	if errors.Is(err, repo.ErrNotFound) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	if partner.Role != domain.RolePartner || partner.MCPID == nil || *partner.MCPID != mcp.ID {
		return decimal.Zero, ErrScopeViolation
	}
	if mcp.WalletBalance.LessThan(amount) {
		return decimal.Zero, ErrInsufficientFunds
	}

	now := e.now().UTC().Format(time.RFC3339)
	newFrom := mcp.WalletBalance.Sub(amount)
	newTo := partner.WalletBalance.Add(amount)
	if err := e.Repo.SetBalanceTx(ctx, tx, mcp.ID, mcp.WalletBalance, newFrom, now); err != nil {
		return decimal.Zero, err
	}
	if err := e.Repo.SetBalanceTx(ctx, tx, partner.ID, partner.WalletBalance, newTo, now); err != nil {
		return decimal.Zero, err
	}
	if err := e.Events.Append(ctx, tx, "wallet.transfer", mcp.ID, "account", partner.ID, mcp.ID, events.EventPayload{
		"amount":           amount.String(),
		"from":             mcp.ID,
		"to":               partner.ID,
		"new_from_balance": newFrom.String(),
		"new_to_balance":   newTo.String(),
	}); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return newFrom, nil
}

// mcpScope picks the event scope for an account: partners log under their
// owning MCP, MCPs under themselves.
func mcpScope(a domain.Account) string {
	if a.MCPID != nil {
		return *a.MCPID
	}
	return a.ID
}
