package postgres

import (
	"context"
	"fmt"

	"support-desk/internal/entities"
)

const (
	userCountsQuery      = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users`
	projectCountQuery    = `SELECT COUNT(*) FROM projects`
	ticketsByStatusQuery = `SELECT status, COUNT(*) FROM tickets GROUP BY status`
)

// AdminStats aggregates account, project and ticket counters.
func (p *Postgres) AdminStats(ctx context.Context) (entities.AdminStats, error) {
	var res entities.AdminStats

	if err := p.db.QueryRow(ctx, userCountsQuery).Scan(&res.Users, &res.ActiveUsers); err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	if err := p.db.QueryRow(ctx, projectCountQuery).Scan(&res.Projects); err != nil {
		return res, fmt.Errorf("count projects: %w", err)
	}

	rows, err := p.db.Query(ctx, ticketsByStatusQuery)
	if err != nil {
		return res, fmt.Errorf("count tickets: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.TicketStatus]int64)
	for rows.Next() {
		var (
			status entities.TicketStatus
			cnt    int64
		)
		if err := rows.Scan(&status, &cnt); err != nil {
			return res, fmt.Errorf("scan ticket counts: %w", err)
		}
		counts[status] = cnt
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate ticket counts: %w", err)
	}

	res.ByStatus = entities.StatusBreakdown(counts)
	return res, nil
}
