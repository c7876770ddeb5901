package domain

import (
	"context"
	"fmt"
	"time"

	"support-desk/internal/entities"
	"support-desk/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Options carries the limits the use cases enforce.
type Options struct {
	Timeout        time.Duration
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration
	opts    Options
	now     func() time.Time
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	opts Options,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log.Named("usecase"),
		repo:    repo,
		timeout: opts.Timeout,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func requireAdmin(actor entities.User) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", entities.ErrForbidden)
	}
	return nil
}

func canManageProject(actor entities.User, p entities.Project) bool {
	return actor.IsAdmin() || p.OwnerID == actor.ID
}

func canViewTicket(actor entities.User, p entities.Project, t entities.Ticket) bool {
	if canManageProject(actor, p) || t.AuthorID == actor.ID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == actor.ID
}
