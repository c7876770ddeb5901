package handlers_fiber

import (
	"net/http"

	"support-desk/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// RegisterPages binds the browser routes. They never render markup: each
// either redirects or hands over to the front-end shell.
func (h *Handler) RegisterPages(router fiber.Router) {
	toLogin := middleware.Session(h.uc, h.opts.CookieName, middleware.RedirectTo(loginPath))
	toDashboard := middleware.Admin(middleware.RedirectTo(dashboardPath))

	router.Get("/", h.GetIndexPage)
	router.Get("/logout", h.GetLogoutPage)
	router.Get(loginPath, h.GetLoginPage)

	router.Get(dashboardPath, toLogin, h.shell)
	router.Get("/projects/*", toLogin, h.shell)
	router.Get("/tickets/*", toLogin, h.shell)
	router.Get("/admin", toLogin, toDashboard, h.shell)
	router.Get("/admin/*", toLogin, toDashboard, h.shell)
}

// GetIndexPage sends signed-in users to the dashboard and everyone else
// to the login page.
func (h *Handler) GetIndexPage(c *fiber.Ctx) error {
	if _, err := h.uc.Authenticate(c.Context(), c.Cookies(h.opts.CookieName)); err != nil {
		return c.Redirect(loginPath, http.StatusFound)
	}
	return c.Redirect(dashboardPath, http.StatusFound)
}

// GetLoginPage skips the form for users that already have a session.
func (h *Handler) GetLoginPage(c *fiber.Ctx) error {
	if _, err := h.uc.Authenticate(c.Context(), c.Cookies(h.opts.CookieName)); err == nil {
		return c.Redirect(dashboardPath, http.StatusFound)
	}
	return h.shell(c)
}

// GetLogoutPage ends the session and returns to the login page.
func (h *Handler) GetLogoutPage(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), c.Cookies(h.opts.CookieName)); err != nil {
		h.log.Warnw("logout", "error", err)
	}
	h.clearSessionCookie(c)
	return c.Redirect(loginPath, http.StatusFound)
}

// shell serves the front-end entry point, or a small JSON page descriptor
// when no front end is configured.
func (h *Handler) shell(c *fiber.Ctx) error {
	if h.opts.IndexFile != "" {
		return c.SendFile(h.opts.IndexFile)
	}
	resp := fiber.Map{"page": c.Path()}
	if user, ok := middleware.CurrentUser(c); ok {
		resp["user_id"] = user.ID
	}
	return c.Status(http.StatusOK).JSON(resp)
}
