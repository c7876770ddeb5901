package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"support-desk/config"
	"support-desk/internal/repository"
	"support-desk/internal/transport/http/middleware"
	handlers_fiber "support-desk/internal/transport/http/server/handlers-fiber"
	"support-desk/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"github.com/ternarybob/banner"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		printBanner(cfg)
		return serve(ctx, log, cfg)
	},
}

func serve(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) error {
	repo, err := openRepository(ctx, log, cfg)
	if err != nil {
		log.Errorw("repository start error", "error", err)
		return err
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	uc := usecase.New(log, ctx, repo, cfg)
	serv := newServer(log, cfg, repo, uc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("listening", "addr", cfg.ServerAddr(), "backend", cfg.Storage.Backend)
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if err := serv.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Warnw("server shutdown", "timeout", cfg.Server.ShutdownTimeout, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		sweepSessions(gctx, log, uc, cfg.Session.SweepInterval)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("server stopped", "error", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}

// newServer builds the fiber app with middleware, health check, API, page
// routes and optional static front end.
func newServer(log *zap.SugaredLogger, cfg *config.Config, repo repository.LifecycleInterface, uc usecase.InterfaceUsecase) *fiber.App {
	serv := fiber.New(fiber.Config{
		ReadTimeout:           cfg.HTTP.RequestTimeout,
		WriteTimeout:          cfg.HTTP.RequestTimeout,
		BodyLimit:             bodyLimit(cfg.HTTP.MaxUploadBytes),
		DisableStartupMessage: true,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		if err := repo.Ping(c.Context()); err != nil {
			log.Warnw("health check failed", "error", err)
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	opts := handlers_fiber.Options{
		CookieName:   cfg.Session.CookieName,
		SessionTTL:   cfg.Session.TTL,
		SecureCookie: cfg.Session.Secure,
	}
	if cfg.HTTP.StaticDir != "" {
		opts.IndexFile = filepath.Join(cfg.HTTP.StaticDir, "index.html")
	}
	handlers_fiber.NewHandler(log, uc, opts).Register(serv)

	if cfg.HTTP.StaticDir != "" {
		serv.Static("/", cfg.HTTP.StaticDir)
	}
	return serv
}

// bodyLimit leaves room for base64 data URIs, which are a third larger
// than the file they carry.
func bodyLimit(maxUpload int64) int {
	if maxUpload <= 0 {
		return fiber.DefaultBodyLimit
	}
	return int(maxUpload/3*4) + 64<<10
}

func sweepSessions(ctx context.Context, log *zap.SugaredLogger, uc usecase.AuthUsecaseInterface, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := uc.SweepSessions(ctx)
			if err != nil {
				log.Warnw("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				log.Infow("expired sessions removed", "count", removed)
			}
		}
	}
}

func printBanner(cfg *config.Config) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(60)

	fmt.Println()
	b.PrintTopLine()
	b.PrintCenteredText("SUPPORT DESK")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 12)
	b.PrintKeyValue("Address", cfg.ServerAddr(), 12)
	b.PrintKeyValue("Storage", cfg.Storage.Backend, 12)
	b.PrintBottomLine()
	fmt.Println()
}
