// Package entities contains core business entities.
package entities

// StatusStat describes ticket counts grouped by status.
type StatusStat struct {
	Status      TicketStatus `json:"status"`
	TicketCount int64        `json:"ticket_count"`
}

// AdminStats is the admin console overview.
type AdminStats struct {
	Users       int64        `json:"users"`
	ActiveUsers int64        `json:"active_users"`
	Projects    int64        `json:"projects"`
	ByStatus    []StatusStat `json:"by_status"`
}

// StatusBreakdown turns per-status counts into a slice covering every
// status in workflow order.
func StatusBreakdown(counts map[TicketStatus]int64) []StatusStat {
	out := make([]StatusStat, 0, len(TicketStatuses))
	for _, st := range TicketStatuses {
		out = append(out, StatusStat{Status: st, TicketCount: counts[st]})
	}
	return out
}
