package domain

import (
	"context"
	"fmt"

	"support-desk/internal/entities"
)

// AllTickets lists tickets across every project.
func (u *Usecase) AllTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, *filter.Status)
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return u.repo.ListTickets(ctx, filter)
}

// Stats returns the admin overview counters.
func (u *Usecase) Stats(ctx context.Context, actor entities.User) (entities.AdminStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return entities.AdminStats{}, err
	}
	return u.repo.AdminStats(ctx)
}
