package bolt

import (
	"context"
	"fmt"

	"support-desk/internal/entities"

	"go.etcd.io/bbolt"
)

// AdminStats counts users, projects and tickets per status in one read
// transaction.
func (b *Bolt) AdminStats(_ context.Context) (entities.AdminStats, error) {
	var stats entities.AdminStats
	counts := make(map[entities.TicketStatus]int64, len(entities.TicketStatuses))

	err := b.db.View(func(tx *bbolt.Tx) error {
		err := each(tx.Bucket(usersBucket), "", func(u entities.User) error {
			stats.Users++
			if u.IsActive {
				stats.ActiveUsers++
			}
			return nil
		})
		if err != nil {
			return err
		}

		stats.Projects = int64(tx.Bucket(projectsBucket).Stats().KeyN)

		return each(tx.Bucket(ticketsBucket), "", func(t entities.Ticket) error {
			counts[t.Status]++
			return nil
		})
	})
	if err != nil {
		return entities.AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}

	stats.ByStatus = entities.StatusBreakdown(counts)
	return stats, nil
}
