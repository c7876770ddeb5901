package handlers_fiber

import (
	"net/http"
	"time"

	"support-desk/internal/mapper"
	api "support-desk/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PostAuthRegister creates an account.
func (h *Handler) PostAuthRegister(c *fiber.Ctx) error {
	var body api.PostAuthRegisterJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	user, err := h.uc.Register(c.Context(), body.Email, body.Username, body.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(*user, h.now())})
}

// PostAuthLogin checks credentials and sets the session cookie.
func (h *Handler) PostAuthLogin(c *fiber.Ctx) error {
	var body api.PostAuthLoginJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	user, token, err := h.uc.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return h.fail(c, err)
	}
	h.setSessionCookie(c, token)
	return c.Status(http.StatusOK).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(*user, h.now())})
}

// PostAuthLogout drops the session and clears the cookie.
func (h *Handler) PostAuthLogout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), c.Cookies(h.opts.CookieName)); err != nil {
		return h.fail(c, err)
	}
	h.clearSessionCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

// GetAuthMe returns the signed-in user.
func (h *Handler) GetAuthMe(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(user, h.now())})
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(h.opts.SessionTTL),
		Secure:   h.opts.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.opts.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
