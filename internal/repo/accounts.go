package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"collectpoint/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means a compare-and-set write lost against a concurrent
	// update. Callers retry or surface it; no partial state is left behind.
	ErrConflict = errors.New("concurrent update conflict")
)

const accountColumns = `id,name,role,COALESCE(status,'') AS status,wallet_balance,total_orders,mcp_id,created_at,updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	var balance string
	var mcpID sql.NullString
	err := row.Scan(&a.ID, &a.Name, &a.Role, &a.Status, &balance, &a.TotalOrders, &mcpID, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	a.WalletBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return a, fmt.Errorf("account %s: bad balance %q: %w", a.ID, balance, err)
	}
	if mcpID.Valid {
		a.MCPID = &mcpID.String
	}
	return a, nil
}

func (r Repo) InsertAccountTx(ctx context.Context, tx *sql.Tx, a domain.Account) error {
	var mcpID any
	if a.MCPID != nil {
		mcpID = *a.MCPID
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO accounts(id,name,role,status,wallet_balance,total_orders,mcp_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?)`,
		a.ID, a.Name, a.Role, nullable(a.Status), a.WalletBalance.String(), a.TotalOrders, mcpID, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r Repo) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=?`, id))
}

func (r Repo) GetAccountTx(ctx context.Context, tx *sql.Tx, id string) (domain.Account, error) {
	return scanAccount(tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=?`, id))
}

// SingleMCP returns the only MCP account in the store, used by the CLI to
// resolve the acting operator when no --account override is given.
func (r Repo) SingleMCP(ctx context.Context) (domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE role='mcp'`)
	if err != nil {
		return domain.Account{}, err
	}
	defer rows.Close()
	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return domain.Account{}, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return domain.Account{}, err
	}
	if len(accounts) == 0 {
		return domain.Account{}, ErrNotFound
	}
	if len(accounts) > 1 {
		return domain.Account{}, fmt.Errorf("multiple MCP accounts exist; specify --account")
	}
	return accounts[0], nil
}

func (r Repo) ListPartners(ctx context.Context, mcpID string) ([]domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE role='partner' AND mcp_id=? ORDER BY created_at DESC, id DESC`, mcpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// SetBalanceTx applies a compare-and-set write on one wallet: the update only
// lands if the balance still equals the value read earlier in the same
// transaction. RowsAffected==0 means a concurrent writer got there first.
func (r Repo) SetBalanceTx(ctx context.Context, tx *sql.Tx, id string, old, new decimal.Decimal, updatedAt string) error {
	res, err := tx.ExecContext(ctx, `UPDATE accounts SET wallet_balance=?, updated_at=? WHERE id=? AND wallet_balance=?`,
		new.String(), updatedAt, id, old.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// IncrementTotalOrdersTx bumps the partner load counter in place, matching
// the assignment fact recorded in the same transaction.
func (r Repo) IncrementTotalOrdersTx(ctx context.Context, tx *sql.Tx, id, updatedAt string) error {
	res, err := tx.ExecContext(ctx, `UPDATE accounts SET total_orders=total_orders+1, updated_at=? WHERE id=?`, updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteAccountTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
