package engine_test

import (
	"errors"
	"testing"

	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
)

func TestAssignmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Ravi")
	o := env.order(t, "150")

	if o.Status != domain.OrderPending || o.AssignedTo != nil {
		t.Fatalf("new order not pending/unassigned: %+v", o)
	}

	o, pAfter, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, p.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if o.Status != domain.OrderInProgress {
		t.Fatalf("expected In Progress, got %s", o.Status)
	}
	if o.AssignedTo == nil || *o.AssignedTo != p.ID {
		t.Fatalf("expected assigned to %s", p.ID)
	}
	if pAfter.TotalOrders != 1 {
		t.Fatalf("expected totalOrders 1, got %d", pAfter.TotalOrders)
	}

	_, err = env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o.ID, domain.OrderPending)
	if !errors.Is(err, engine.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	got, _ := env.Engine.Repo.GetOrder(env.Ctx, o.ID)
	if got.Status != domain.OrderInProgress {
		t.Fatalf("rejected transition mutated status: %s", got.Status)
	}

	o, err = env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o.ID, domain.OrderCompleted)
	if err != nil || o.Status != domain.OrderCompleted {
		t.Fatalf("to Completed: %v (%s)", err, o.Status)
	}
}

func TestCounterConsistency(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Counter")
	const n = 4
	for i := 0; i < n; i++ {
		o := env.order(t, "10")
		if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, p.ID); err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
	}
	// re-assigning the same order still increments
	o := env.order(t, "10")
	for i := 0; i < 2; i++ {
		if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, p.ID); err != nil {
			t.Fatalf("reassign %d: %v", i, err)
		}
	}
	got, err := env.Engine.Repo.GetAccount(env.Ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalOrders != n+2 {
		t.Fatalf("expected totalOrders %d, got %d", n+2, got.TotalOrders)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	o := env.order(t, "20")

	if _, err := env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o.ID, "Shipped"); !errors.Is(err, engine.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, "ghost", domain.OrderCompleted); !errors.Is(err, engine.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	// labels match case-insensitively and are stored canonically
	got, err := env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o.ID, "completed")
	if err != nil {
		t.Fatalf("case-insensitive update: %v", err)
	}
	if got.Status != domain.OrderCompleted {
		t.Fatalf("expected canonical Completed, got %s", got.Status)
	}
	// an unassigned order may go back to Pending
	if _, err := env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o.ID, domain.OrderPending); err != nil {
		t.Fatalf("unassigned back to Pending: %v", err)
	}
}

func TestAssignScope(t *testing.T) {
	env := newTestEnv(t)
	o := env.order(t, "30")

	if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, "ghost", "whoever"); !errors.Is(err, engine.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, "ghost"); !errors.Is(err, engine.ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}

	other, err := env.Engine.CreateMCP(env.Ctx, "mcp-2", "Other")
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := env.Engine.CreatePartner(env.Ctx, other.ID, "Theirs")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, theirs.ID); !errors.Is(err, engine.ErrScopeViolation) {
		t.Fatalf("expected ErrScopeViolation, got %v", err)
	}
	// counters untouched by the failed attempts
	got, _ := env.Engine.Repo.GetAccount(env.Ctx, theirs.ID)
	if got.TotalOrders != 0 {
		t.Fatalf("failed assignment bumped counter: %d", got.TotalOrders)
	}
}

func TestDeletePartnerOrphanRepair(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Leaving")
	o1 := env.order(t, "10")
	o2 := env.order(t, "20")
	o3 := env.order(t, "30")
	for _, o := range []domain.Order{o1, o2} {
		if _, _, err := env.Engine.AssignOrder(env.Ctx, env.MCP.ID, o.ID, p.ID); err != nil {
			t.Fatalf("assign: %v", err)
		}
	}
	if _, err := env.Engine.UpdateStatus(env.Ctx, env.MCP.ID, o2.ID, domain.OrderCompleted); err != nil {
		t.Fatal(err)
	}

	if err := env.Engine.DeletePartner(env.Ctx, env.MCP.ID, p.ID); err != nil {
		t.Fatalf("delete partner: %v", err)
	}

	for _, tc := range []struct {
		id     string
		status string
	}{
		{o1.ID, domain.OrderInProgress},
		{o2.ID, domain.OrderCompleted},
		{o3.ID, domain.OrderPending},
	} {
		got, err := env.Engine.Repo.GetOrder(env.Ctx, tc.id)
		if err != nil {
			t.Fatalf("get order %s: %v", tc.id, err)
		}
		if got.AssignedTo != nil {
			t.Fatalf("order %s still assigned after partner delete", tc.id)
		}
		if got.Status != tc.status {
			t.Fatalf("orphan repair changed status of %s: %s", tc.id, got.Status)
		}
	}

	if err := env.Engine.DeletePartner(env.Ctx, env.MCP.ID, p.ID); !errors.Is(err, engine.ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound on double delete, got %v", err)
	}
}

func TestSetPartnerStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Flip")

	got, err := env.Engine.SetPartnerStatus(env.Ctx, env.MCP.ID, p.ID, domain.PartnerInactive)
	if err != nil || got.Status != domain.PartnerInactive {
		t.Fatalf("set inactive: %v (%s)", err, got.Status)
	}
	if _, err := env.Engine.SetPartnerStatus(env.Ctx, env.MCP.ID, p.ID, "retired"); !errors.Is(err, engine.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
