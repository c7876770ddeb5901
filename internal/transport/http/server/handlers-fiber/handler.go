// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"time"

	api "support-desk/internal/oapi"
	"support-desk/internal/transport/http/middleware"
	"support-desk/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options configures cookies and the page shell.
type Options struct {
	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool
	// IndexFile is served for guarded page routes when set.
	IndexFile string
}

// Handler implements oapi.ServerInterface using service layer interfaces.
type Handler struct {
	log  *zap.SugaredLogger
	uc   usecase.InterfaceUsecase
	opts Options
	now  func() time.Time
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, opts Options) *Handler {
	return &Handler{
		log:  log.Named("handler"),
		uc:   usecase,
		opts: opts,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Register binds the JSON API behind its session and admin guards, then
// the page routes.
func (h *Handler) Register(router fiber.Router) {
	api.RegisterHandlersWithOptions(router, h, api.FiberServerOptions{
		Session:    []fiber.Handler{middleware.Session(h.uc, h.opts.CookieName, h.fail)},
		Admin:      []fiber.Handler{middleware.Admin(h.fail)},
		ParamError: h.badParam,
	})
	h.RegisterPages(router)
}
