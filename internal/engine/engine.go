package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collectpoint/internal/config"
	"collectpoint/internal/domain"
	"collectpoint/internal/events"
	"collectpoint/internal/repo"
)

// Engine is the sole mutator of wallet balances and order state. Every
// operation takes the acting MCP id explicitly; nothing is inferred from
// ambient request context.
type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// CreateMCP bootstraps the operator account with an empty wallet.
func (e Engine) CreateMCP(ctx context.Context, id, name string) (domain.Account, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := e.now().UTC().Format(time.RFC3339)
	a := domain.Account{
		ID:            id,
		Name:          name,
		Role:          domain.RoleMCP,
		WalletBalance: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertAccountTx(ctx, tx, a); err != nil {
		return domain.Account{}, err
	}
	if err := e.Events.Append(ctx, tx, "account.created", a.ID, "account", a.ID, a.ID, events.EventPayload{"role": a.Role, "name": a.Name}); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

// getPartner loads an account and reports ErrPartnerNotFound unless it is a
// partner owned by mcpID (ErrScopeViolation when owned elsewhere).
func (e Engine) getPartner(ctx context.Context, tx *sql.Tx, mcpID, partnerID string) (domain.Account, error) {
	var (
		p   domain.Account
		err error
	)
	if tx != nil {
		p, err = e.Repo.GetAccountTx(ctx, tx, partnerID)
	} else {
		p, err = e.Repo.GetAccount(ctx, partnerID)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Account{}, ErrPartnerNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	if p.Role != domain.RolePartner {
		return domain.Account{}, ErrPartnerNotFound
	}
	if p.MCPID == nil || *p.MCPID != mcpID {
		return domain.Account{}, ErrScopeViolation
	}
	return p, nil
}
