package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collectpoint/internal/domain"
	"collectpoint/internal/repo"
)

// Snapshot composes the read-only dashboard for one MCP: wallet balance,
// partner roster and order counts. Status labels are matched
// case-insensitively, so legacy rows with odd casing still count.
func (e Engine) Snapshot(ctx context.Context, mcpID string) (domain.DashboardSnapshot, error) {
	mcp, err := e.Repo.GetAccount(ctx, mcpID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.DashboardSnapshot{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.DashboardSnapshot{}, err
	}
	partners, err := e.Repo.ListPartners(ctx, mcp.ID)
	if err != nil {
		return domain.DashboardSnapshot{}, err
	}
	counts, err := e.Repo.CountOrdersByStatus(ctx, mcp.ID)
	if err != nil {
		return domain.DashboardSnapshot{}, err
	}

	snap := domain.DashboardSnapshot{
		WalletBalance:  mcp.WalletBalance,
		PickupPartners: make([]domain.PartnerSummary, 0, len(partners)),
		Orders:         foldCounts(counts),
	}
	for _, p := range partners {
		snap.PickupPartners = append(snap.PickupPartners, domain.PartnerSummary{
			ID:          p.ID,
			Name:        p.Name,
			Status:      p.Status,
			TotalOrders: p.TotalOrders,
		})
	}
	return snap, nil
}

// Report counts orders by status over a daily or weekly window.
func (e Engine) Report(ctx context.Context, mcpID, rng string) (domain.OrderCounts, error) {
	if _, err := e.Repo.GetAccount(ctx, mcpID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.OrderCounts{}, ErrAccountNotFound
		}
		return domain.OrderCounts{}, err
	}
	now := e.now().UTC()
	var since time.Time
	switch rng {
	case "", "daily":
		since = now.Truncate(24 * time.Hour)
	case "weekly":
		since = now.AddDate(0, 0, -7)
	default:
		return domain.OrderCounts{}, fmt.Errorf("invalid report range %q", rng)
	}
	counts, err := e.Repo.CountOrdersByStatusSince(ctx, mcpID, since.Format(time.RFC3339))
	if err != nil {
		return domain.OrderCounts{}, err
	}
	return foldCounts(counts), nil
}

func foldCounts(counts map[string]int) domain.OrderCounts {
	var out domain.OrderCounts
	for status, n := range counts {
		out.Total += n
		switch {
		case strings.EqualFold(status, domain.OrderCompleted):
			out.Completed += n
		case strings.EqualFold(status, domain.OrderPending):
			out.Pending += n
		}
	}
	return out
}
