package app

import (
	"context"
	"errors"
	"fmt"

	"collectpoint/internal/domain"
	"collectpoint/internal/engine"
	"collectpoint/internal/repo"
)

// ResolveMCP picks the acting MCP account. It prefers the override, then
// the single MCP in the database. If the override names an account that does
// not exist yet, it is created on the fly with the operator name from config.
func ResolveMCP(ctx context.Context, e engine.Engine, override string) (domain.Account, error) {
	if override == "" {
		a, err := e.Repo.SingleMCP(ctx)
		if err != nil {
			return domain.Account{}, fmt.Errorf("account not specified; use --account: %w", err)
		}
		return a, nil
	}
	a, err := e.Repo.GetAccount(ctx, override)
	if err == nil {
		if a.Role != domain.RoleMCP {
			return domain.Account{}, fmt.Errorf("account %s is not an operator account", override)
		}
		return a, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return domain.Account{}, err
	}
	name := override
	if e.Config != nil && e.Config.Operator.Name != "" {
		name = e.Config.Operator.Name
	}
	return e.CreateMCP(ctx, override, name)
}
