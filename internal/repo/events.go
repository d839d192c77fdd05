package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"collectpoint/internal/domain"
)

func (r Repo) LatestEvents(ctx context.Context, limit int, mcpID, evtType, entityKind, entityID string) ([]domain.Event, error) {
	clauses := []string{"1=1"}
	var args []any
	if mcpID != "" {
		clauses = append(clauses, "mcp_id=?")
		args = append(args, mcpID)
	}
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	if entityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, entityKind)
	}
	if entityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, entityID)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,mcp_id,entity_kind,entity_id,actor_id,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var mcp, entity, payload sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &mcp, &e.EntityKind, &entity, &e.ActorID, &payload); err != nil {
			return nil, err
		}
		if mcp.Valid {
			e.MCPID = mcp.String
		}
		if entity.Valid {
			e.EntityID = entity.String
		}
		if payload.Valid {
			e.Payload = payload.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
