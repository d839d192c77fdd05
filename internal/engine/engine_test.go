package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"collectpoint/internal/config"
	"collectpoint/internal/db"
	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
	"collectpoint/internal/migrate"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
	MCP    domain.Account
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(conn, config.Default())
	eng.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	mcp, err := eng.CreateMCP(ctx, "mcp-1", "Test Operator")
	if err != nil {
		t.Fatalf("create mcp: %v", err)
	}
	return testEnv{Engine: eng, Ctx: ctx, MCP: mcp}
}

func (env testEnv) partner(t *testing.T, name string) domain.Account {
	t.Helper()
	p, err := env.Engine.CreatePartner(env.Ctx, env.MCP.ID, name)
	if err != nil {
		t.Fatalf("create partner %s: %v", name, err)
	}
	return p
}

func (env testEnv) order(t *testing.T, amount string) domain.Order {
	t.Helper()
	o, err := env.Engine.CreateOrder(env.Ctx, env.MCP.ID, engine.OrderCreateOptions{
		CustomerName:    "Asha",
		CustomerAddress: "12 Market Rd",
		CustomerContact: "9999900000",
		Amount:          dec(t, amount),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
