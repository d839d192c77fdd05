package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"collectpoint/internal/engine"
)

func TestTopUp(t *testing.T) {
	env := newTestEnv(t)

	bal, err := env.Engine.TopUp(env.Ctx, env.MCP.ID, dec(t, "500"))
	if err != nil {
		t.Fatalf("topup: %v", err)
	}
	if !bal.Equal(dec(t, "500")) {
		t.Fatalf("expected balance 500, got %s", bal)
	}

	_, err = env.Engine.TopUp(env.Ctx, env.MCP.ID, dec(t, "-5"))
	if !errors.Is(err, engine.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err = env.Engine.TopUp(env.Ctx, env.MCP.ID, decimal.Zero)
	if !errors.Is(err, engine.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	a, err := env.Engine.Repo.GetAccount(env.Ctx, env.MCP.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !a.WalletBalance.Equal(dec(t, "500")) {
		t.Fatalf("rejected topup mutated balance: %s", a.WalletBalance)
	}
}

func TestTopUpUnknownAccount(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.TopUp(env.Ctx, "no-such-account", dec(t, "10"))
	if !errors.Is(err, engine.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Ravi")
	if _, err := env.Engine.TopUp(env.Ctx, env.MCP.ID, dec(t, "1000")); err != nil {
		t.Fatalf("seed topup: %v", err)
	}

	bal, err := env.Engine.Transfer(env.Ctx, env.MCP.ID, p.ID, dec(t, "300"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !bal.Equal(dec(t, "700")) {
		t.Fatalf("expected mcp balance 700, got %s", bal)
	}
	pAfter, _ := env.Engine.Repo.GetAccount(env.Ctx, p.ID)
	if !pAfter.WalletBalance.Equal(dec(t, "300")) {
		t.Fatalf("expected partner balance 300, got %s", pAfter.WalletBalance)
	}

	// over-draw rejected with zero mutation on either side
	_, err = env.Engine.Transfer(env.Ctx, env.MCP.ID, p.ID, dec(t, "800"))
	if !errors.Is(err, engine.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	mAfter, _ := env.Engine.Repo.GetAccount(env.Ctx, env.MCP.ID)
	pAfter, _ = env.Engine.Repo.GetAccount(env.Ctx, p.ID)
	if !mAfter.WalletBalance.Equal(dec(t, "700")) || !pAfter.WalletBalance.Equal(dec(t, "300")) {
		t.Fatalf("failed transfer mutated balances: %s / %s", mAfter.WalletBalance, pAfter.WalletBalance)
	}
}

func TestTransferConservation(t *testing.T) {
	env := newTestEnv(t)
	a := env.partner(t, "A")
	b := env.partner(t, "B")
	if _, err := env.Engine.TopUp(env.Ctx, env.MCP.ID, dec(t, "250.75")); err != nil {
		t.Fatal(err)
	}
	before, err := env.Engine.Repo.SumBalances(env.Ctx)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	for _, mv := range []struct {
		to     string
		amount string
	}{
		{a.ID, "100.25"},
		{b.ID, "50.50"},
		{a.ID, "0.01"},
	} {
		if _, err := env.Engine.Transfer(env.Ctx, env.MCP.ID, mv.to, dec(t, mv.amount)); err != nil {
			t.Fatalf("transfer %s to %s: %v", mv.amount, mv.to, err)
		}
	}
	after, err := env.Engine.Repo.SumBalances(env.Ctx)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !before.Equal(after) {
		t.Fatalf("conservation violated: %s before, %s after", before, after)
	}
}

func TestTransferScopeAndValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.partner(t, "Mine")
	if _, err := env.Engine.TopUp(env.Ctx, env.MCP.ID, dec(t, "100")); err != nil {
		t.Fatal(err)
	}

	_, err := env.Engine.Transfer(env.Ctx, env.MCP.ID, p.ID, dec(t, "-1"))
	if !errors.Is(err, engine.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err = env.Engine.Transfer(env.Ctx, env.MCP.ID, "ghost", dec(t, "1"))
	if !errors.Is(err, engine.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	// a partner owned by a different MCP is out of scope
	other, err := env.Engine.CreateMCP(env.Ctx, "mcp-2", "Other Operator")
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := env.Engine.CreatePartner(env.Ctx, other.ID, "Theirs")
	if err != nil {
		t.Fatal(err)
	}
	_, err = env.Engine.Transfer(env.Ctx, env.MCP.ID, theirs.ID, dec(t, "1"))
	if !errors.Is(err, engine.ErrScopeViolation) {
		t.Fatalf("expected ErrScopeViolation, got %v", err)
	}
	// transferring MCP-to-MCP is also out of scope
	_, err = env.Engine.Transfer(env.Ctx, env.MCP.ID, other.ID, dec(t, "1"))
	if !errors.Is(err, engine.ErrScopeViolation) {
		t.Fatalf("expected ErrScopeViolation for mcp target, got %v", err)
	}
}
