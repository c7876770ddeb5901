package handlers_fiber

import (
	"fmt"
	"net/http"
	"strings"

	"support-desk/internal/entities"
	"support-desk/internal/mapper"
	api "support-desk/internal/oapi"
	"support-desk/pkg/jsonutil"

	"github.com/gofiber/fiber/v2"
)

// GetProjects lists the caller's projects.
func (h *Handler) GetProjects(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	projects, err := h.uc.ListProjects(c.Context(), user)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Projects []api.Project `json:"projects"`
	}{Projects: mapper.ToOAPIProjectList(projects)})
}

// PostProjects creates a project owned by the caller.
func (h *Handler) PostProjects(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostProjectsJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	project, err := h.uc.CreateProject(c.Context(), user, body.Name, body.Description)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Project api.Project `json:"project"`
	}{Project: mapper.ToOAPIProject(*project)})
}

// GetProject returns one project.
func (h *Handler) GetProject(c *fiber.Ctx, projectId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	project, err := h.uc.Project(c.Context(), user, projectId)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Project api.Project `json:"project"`
	}{Project: mapper.ToOAPIProject(*project)})
}

// DeleteProject removes a project with its tickets.
func (h *Handler) DeleteProject(c *fiber.Ctx, projectId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.uc.DeleteProject(c.Context(), user, projectId); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetProjectTickets lists tickets of a project.
func (h *Handler) GetProjectTickets(c *fiber.Ctx, projectId string, params api.ListTicketsParams) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	filter := ticketFilter(params)
	filter.ProjectID = projectId

	tickets, err := h.uc.ListProjectTickets(c.Context(), user, filter)
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTickets(c, tickets)
}

// PostProjectTickets files a ticket in a project.
func (h *Handler) PostProjectTickets(c *fiber.Ctx, projectId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostProjectTicketsJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}
	metadata, err := decodeMetadata(body.Metadata)
	if err != nil {
		return h.fail(c, err)
	}

	ticket, err := h.uc.CreateTicket(c.Context(), user, entities.Ticket{
		ProjectID:   projectId,
		Title:       body.Title,
		Description: body.Description,
		Priority:    entities.TicketPriority(body.Priority),
		Metadata:    metadata,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTicket(c, http.StatusCreated, *ticket)
}

// decodeMetadata accepts an object or a JSON string that encodes one,
// possibly several times over.
func decodeMetadata(raw []byte) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	m, ok := jsonutil.ParseUntilUnescaped(string(raw)).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: metadata must be an object", entities.ErrInvalidArgument)
	}
	return m, nil
}

func ticketFilter(params api.ListTicketsParams) entities.TicketFilter {
	filter := entities.TicketFilter{
		Limit:  intOr(params.Limit, 0),
		Offset: intOr(params.Offset, 0),
	}
	if params.Status != nil && *params.Status != "" {
		status := entities.TicketStatus(strings.ToUpper(*params.Status))
		filter.Status = &status
	}
	if params.Author != nil {
		filter.AuthorID = *params.Author
	}
	return filter
}
