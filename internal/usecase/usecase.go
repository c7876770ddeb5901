package usecase

import (
	"context"

	"support-desk/config"
	"support-desk/internal/repository"
	"support-desk/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AuthUsecaseInterface
	ProjectUsecaseInterface
	TicketUsecaseInterface
	AdminUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, cfg *config.Config) InterfaceUsecase {
	return domain.New(log, ctx, repo, domain.Options{
		Timeout:        cfg.HTTP.RequestTimeout,
		SessionTTL:     cfg.Session.TTL,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
	})
}
