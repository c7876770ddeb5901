package oapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/auth/register)
	PostAuthRegister(c *fiber.Ctx) error
	// (POST /api/auth/login)
	PostAuthLogin(c *fiber.Ctx) error
	// (POST /api/auth/logout)
	PostAuthLogout(c *fiber.Ctx) error
	// (GET /api/auth/me)
	GetAuthMe(c *fiber.Ctx) error

	// (GET /api/projects)
	GetProjects(c *fiber.Ctx) error
	// (POST /api/projects)
	PostProjects(c *fiber.Ctx) error
	// (GET /api/projects/{projectId})
	GetProject(c *fiber.Ctx, projectId string) error
	// (DELETE /api/projects/{projectId})
	DeleteProject(c *fiber.Ctx, projectId string) error
	// (GET /api/projects/{projectId}/tickets)
	GetProjectTickets(c *fiber.Ctx, projectId string, params ListTicketsParams) error
	// (POST /api/projects/{projectId}/tickets)
	PostProjectTickets(c *fiber.Ctx, projectId string) error

	// (GET /api/tickets/{ticketId})
	GetTicket(c *fiber.Ctx, ticketId string) error
	// (POST /api/tickets/{ticketId}/status)
	PostTicketStatus(c *fiber.Ctx, ticketId string) error
	// (POST /api/tickets/{ticketId}/assign)
	PostTicketAssign(c *fiber.Ctx, ticketId string) error
	// (GET /api/tickets/{ticketId}/comments)
	GetTicketComments(c *fiber.Ctx, ticketId string) error
	// (POST /api/tickets/{ticketId}/comments)
	PostTicketComments(c *fiber.Ctx, ticketId string) error
	// (GET /api/tickets/{ticketId}/attachments)
	GetTicketAttachments(c *fiber.Ctx, ticketId string) error
	// (POST /api/tickets/{ticketId}/attachments)
	PostTicketAttachments(c *fiber.Ctx, ticketId string) error
	// (GET /api/tickets/{ticketId}/attachments/{attachmentId})
	GetTicketAttachment(c *fiber.Ctx, ticketId, attachmentId string, params GetTicketAttachmentParams) error

	// (GET /api/admin/users)
	GetAdminUsers(c *fiber.Ctx, params GetAdminUsersParams) error
	// (POST /api/admin/users/{userId}/active)
	PostAdminUserActive(c *fiber.Ctx, userId string) error
	// (POST /api/admin/users/{userId}/role)
	PostAdminUserRole(c *fiber.Ctx, userId string) error
	// (GET /api/admin/tickets)
	GetAdminTickets(c *fiber.Ctx, params ListTicketsParams) error
	// (GET /api/admin/stats)
	GetAdminStats(c *fiber.Ctx) error
}

// FiberServerOptions provides options for the Fiber server. Session and
// Admin handlers run in front of the routes that need them, in order.
// ParamError answers requests whose parameters cannot be bound; it
// defaults to a plain 400 body.
type FiberServerOptions struct {
	BaseURL    string
	Session    []fiber.Handler
	Admin      []fiber.Handler
	ParamError ParamErrorHandler
}

// ParamErrorHandler writes the response for a parameter binding failure.
type ParamErrorHandler func(c *fiber.Ctx, name string, err error) error

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler    ServerInterface
	ParamError ParamErrorHandler
}

// RegisterHandlers binds every API route without guards.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	w := &ServerInterfaceWrapper{Handler: si, ParamError: options.ParamError}
	if w.ParamError == nil {
		w.ParamError = invalidParam
	}

	api := router.Group(options.BaseURL + "/api")
	api.Post("/auth/register", w.Handler.PostAuthRegister)
	api.Post("/auth/login", w.Handler.PostAuthLogin)
	api.Post("/auth/logout", w.Handler.PostAuthLogout)

	authed := api.Group("", options.Session...)
	authed.Get("/auth/me", w.Handler.GetAuthMe)
	authed.Get("/projects", w.Handler.GetProjects)
	authed.Post("/projects", w.Handler.PostProjects)
	authed.Get("/projects/:projectId", w.GetProject)
	authed.Delete("/projects/:projectId", w.DeleteProject)
	authed.Get("/projects/:projectId/tickets", w.GetProjectTickets)
	authed.Post("/projects/:projectId/tickets", w.PostProjectTickets)
	authed.Get("/tickets/:ticketId", w.GetTicket)
	authed.Post("/tickets/:ticketId/status", w.PostTicketStatus)
	authed.Post("/tickets/:ticketId/assign", w.PostTicketAssign)
	authed.Get("/tickets/:ticketId/comments", w.GetTicketComments)
	authed.Post("/tickets/:ticketId/comments", w.PostTicketComments)
	authed.Get("/tickets/:ticketId/attachments", w.GetTicketAttachments)
	authed.Post("/tickets/:ticketId/attachments", w.PostTicketAttachments)
	authed.Get("/tickets/:ticketId/attachments/:attachmentId", w.GetTicketAttachment)

	admin := authed.Group("/admin", options.Admin...)
	admin.Get("/users", w.GetAdminUsers)
	admin.Post("/users/:userId/active", w.PostAdminUserActive)
	admin.Post("/users/:userId/role", w.PostAdminUserRole)
	admin.Get("/tickets", w.GetAdminTickets)
	admin.Get("/stats", w.Handler.GetAdminStats)
}

func invalidParam(c *fiber.Ctx, name string, err error) error {
	var body ErrorResponse
	body.Error.Code = INVALIDARGUMENT
	body.Error.Message = "invalid parameter " + name + ": " + err.Error()
	return c.Status(http.StatusBadRequest).JSON(body)
}

// GetProject operation middleware
func (w *ServerInterfaceWrapper) GetProject(c *fiber.Ctx) error {
	return w.Handler.GetProject(c, c.Params("projectId"))
}

// DeleteProject operation middleware
func (w *ServerInterfaceWrapper) DeleteProject(c *fiber.Ctx) error {
	return w.Handler.DeleteProject(c, c.Params("projectId"))
}

// GetProjectTickets operation middleware
func (w *ServerInterfaceWrapper) GetProjectTickets(c *fiber.Ctx) error {
	var params ListTicketsParams
	if err := c.QueryParser(&params); err != nil {
		return w.ParamError(c, "query", err)
	}
	return w.Handler.GetProjectTickets(c, c.Params("projectId"), params)
}

// PostProjectTickets operation middleware
func (w *ServerInterfaceWrapper) PostProjectTickets(c *fiber.Ctx) error {
	return w.Handler.PostProjectTickets(c, c.Params("projectId"))
}

// GetTicket operation middleware
func (w *ServerInterfaceWrapper) GetTicket(c *fiber.Ctx) error {
	return w.Handler.GetTicket(c, c.Params("ticketId"))
}

// PostTicketStatus operation middleware
func (w *ServerInterfaceWrapper) PostTicketStatus(c *fiber.Ctx) error {
	return w.Handler.PostTicketStatus(c, c.Params("ticketId"))
}

// PostTicketAssign operation middleware
func (w *ServerInterfaceWrapper) PostTicketAssign(c *fiber.Ctx) error {
	return w.Handler.PostTicketAssign(c, c.Params("ticketId"))
}

// GetTicketComments operation middleware
func (w *ServerInterfaceWrapper) GetTicketComments(c *fiber.Ctx) error {
	return w.Handler.GetTicketComments(c, c.Params("ticketId"))
}

// PostTicketComments operation middleware
func (w *ServerInterfaceWrapper) PostTicketComments(c *fiber.Ctx) error {
	return w.Handler.PostTicketComments(c, c.Params("ticketId"))
}

// GetTicketAttachments operation middleware
func (w *ServerInterfaceWrapper) GetTicketAttachments(c *fiber.Ctx) error {
	return w.Handler.GetTicketAttachments(c, c.Params("ticketId"))
}

// PostTicketAttachments operation middleware
func (w *ServerInterfaceWrapper) PostTicketAttachments(c *fiber.Ctx) error {
	return w.Handler.PostTicketAttachments(c, c.Params("ticketId"))
}

// GetTicketAttachment operation middleware
func (w *ServerInterfaceWrapper) GetTicketAttachment(c *fiber.Ctx) error {
	var params GetTicketAttachmentParams
	if err := c.QueryParser(&params); err != nil {
		return w.ParamError(c, "query", err)
	}
	return w.Handler.GetTicketAttachment(c, c.Params("ticketId"), c.Params("attachmentId"), params)
}

// GetAdminUsers operation middleware
func (w *ServerInterfaceWrapper) GetAdminUsers(c *fiber.Ctx) error {
	var params GetAdminUsersParams
	if err := c.QueryParser(&params); err != nil {
		return w.ParamError(c, "query", err)
	}
	return w.Handler.GetAdminUsers(c, params)
}

// PostAdminUserActive operation middleware
func (w *ServerInterfaceWrapper) PostAdminUserActive(c *fiber.Ctx) error {
	return w.Handler.PostAdminUserActive(c, c.Params("userId"))
}

// PostAdminUserRole operation middleware
func (w *ServerInterfaceWrapper) PostAdminUserRole(c *fiber.Ctx) error {
	return w.Handler.PostAdminUserRole(c, c.Params("userId"))
}

// GetAdminTickets operation middleware
func (w *ServerInterfaceWrapper) GetAdminTickets(c *fiber.Ctx) error {
	var params ListTicketsParams
	if err := c.QueryParser(&params); err != nil {
		return w.ParamError(c, "query", err)
	}
	return w.Handler.GetAdminTickets(c, params)
}
