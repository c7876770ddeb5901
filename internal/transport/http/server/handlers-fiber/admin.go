package handlers_fiber

import (
	"net/http"
	"strings"

	"support-desk/internal/entities"
	"support-desk/internal/mapper"
	api "support-desk/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetAdminUsers lists accounts.
func (h *Handler) GetAdminUsers(c *fiber.Ctx, params api.GetAdminUsersParams) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	users, err := h.uc.ListUsers(c.Context(), user, intOr(params.Limit, 0), intOr(params.Offset, 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Users []api.User `json:"users"`
	}{Users: mapper.ToOAPIUserList(users, h.now())})
}

// PostAdminUserActive activates or deactivates an account.
func (h *Handler) PostAdminUserActive(c *fiber.Ctx, userId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostAdminUserActiveJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	updated, err := h.uc.SetUserActive(c.Context(), user, userId, body.IsActive)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(*updated, h.now())})
}

// PostAdminUserRole changes an account role.
func (h *Handler) PostAdminUserRole(c *fiber.Ctx, userId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostAdminUserRoleJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	updated, err := h.uc.SetUserRole(c.Context(), user, userId, entities.Role(strings.ToUpper(body.Role)))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToOAPIUser(*updated, h.now())})
}

// GetAdminTickets lists tickets across all projects.
func (h *Handler) GetAdminTickets(c *fiber.Ctx, params api.ListTicketsParams) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	tickets, err := h.uc.AllTickets(c.Context(), user, ticketFilter(params))
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTickets(c, tickets)
}

// GetAdminStats returns overview counters.
func (h *Handler) GetAdminStats(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	stats, err := h.uc.Stats(c.Context(), user)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Stats api.AdminStats `json:"stats"`
	}{Stats: mapper.ToOAPIStats(stats)})
}
