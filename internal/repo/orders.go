package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"collectpoint/internal/domain"
)

const orderColumns = `o.id,o.mcp_id,o.customer_name,o.customer_address,o.customer_contact,o.amount,o.status,o.assigned_to,COALESCE(p.name,'') AS partner_name,o.latitude,o.longitude,COALESCE(o.notes,'') AS notes,o.created_at,o.updated_at`
const orderFrom = ` FROM orders o LEFT JOIN accounts p ON p.id = o.assigned_to `

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var amount string
	var assignedTo sql.NullString
	var lat, lng sql.NullFloat64
	err := row.Scan(&o.ID, &o.MCPID, &o.CustomerName, &o.CustomerAddress, &o.CustomerContact, &amount,
		&o.Status, &assignedTo, &o.PartnerName, &lat, &lng, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	if err != nil {
		return o, err
	}
	o.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return o, fmt.Errorf("order %s: bad amount %q: %w", o.ID, amount, err)
	}
	if assignedTo.Valid {
		o.AssignedTo = &assignedTo.String
	}
	if lat.Valid {
		o.Latitude = &lat.Float64
	}
	if lng.Valid {
		o.Longitude = &lng.Float64
	}
	return o, nil
}

func (r Repo) InsertOrderTx(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	var lat, lng any
	if o.Latitude != nil {
		lat = *o.Latitude
	}
	if o.Longitude != nil {
		lng = *o.Longitude
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO orders(id,mcp_id,customer_name,customer_address,customer_contact,amount,status,assigned_to,latitude,longitude,notes,created_at,updated_at) VALUES (?,?,?,?,?,?,?,NULL,?,?,?,?,?)`,
		o.ID, o.MCPID, o.CustomerName, o.CustomerAddress, o.CustomerContact, o.Amount.String(), o.Status, lat, lng, nullable(o.Notes), o.CreatedAt, o.UpdatedAt)
	return err
}

func (r Repo) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+`WHERE o.id=?`, id))
}

func (r Repo) GetOrderTx(ctx context.Context, tx *sql.Tx, id string) (domain.Order, error) {
	return scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+`WHERE o.id=?`, id))
}

type OrderFilters struct {
	MCPID     string
	PartnerID string
	Status    string
}

func (r Repo) ListOrders(ctx context.Context, f OrderFilters) ([]domain.Order, error) {
	clauses := []string{"1=1"}
	var args []any
	if f.MCPID != "" {
		clauses = append(clauses, "o.mcp_id=?")
		args = append(args, f.MCPID)
	}
	if f.PartnerID != "" {
		clauses = append(clauses, "o.assigned_to=?")
		args = append(args, f.PartnerID)
	}
	if f.Status != "" {
		clauses = append(clauses, "o.status=? COLLATE NOCASE")
		args = append(args, f.Status)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := `SELECT ` + orderColumns + orderFrom + where + ` ORDER BY o.created_at DESC, o.id DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// AssignOrderTx binds the order to a partner and forces it In Progress. The
// caller increments the partner counter in the same transaction.
func (r Repo) AssignOrderTx(ctx context.Context, tx *sql.Tx, orderID, partnerID, updatedAt string) error {
	res, err := tx.ExecContext(ctx, `UPDATE orders SET assigned_to=?, status=?, updated_at=? WHERE id=?`,
		partnerID, domain.OrderInProgress, updatedAt, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, orderID, status, updatedAt string) error {
	res, err := tx.ExecContext(ctx, `UPDATE orders SET status=?, updated_at=? WHERE id=?`, status, updatedAt, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAssignmentsTx nulls assigned_to on every order referencing the partner.
// Status is deliberately left untouched (orphan repair, not a revert).
func (r Repo) ClearAssignmentsTx(ctx context.Context, tx *sql.Tx, partnerID, updatedAt string) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE orders SET assigned_to=NULL, updated_at=? WHERE assigned_to=?`, updatedAt, partnerID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r Repo) CountOrdersByStatus(ctx context.Context, mcpID string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, count(*) FROM orders WHERE mcp_id=? GROUP BY status`, mcpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		res[status] = count
	}
	return res, rows.Err()
}

// CountOrdersByStatusSince restricts the count to orders created at or after
// the given RFC3339 timestamp. Used by the report query.
func (r Repo) CountOrdersByStatusSince(ctx context.Context, mcpID, since string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, count(*) FROM orders WHERE mcp_id=? AND created_at>=? GROUP BY status`, mcpID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		res[status] = count
	}
	return res, rows.Err()
}

// SumBalances returns the sum of all wallet balances. Diagnostic query backing
// the conservation check in tests and `cpt wallet audit`.
func (r Repo) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT wallet_balance FROM accounts`)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()
	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(d)
	}
	return sum, rows.Err()
}
