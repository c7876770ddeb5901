package handlers_fiber

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"support-desk/internal/entities"
	"support-desk/internal/mapper"
	api "support-desk/internal/oapi"
	"support-desk/pkg/fileenc"

	"github.com/gofiber/fiber/v2"
)

// GetTicket returns one ticket.
func (h *Handler) GetTicket(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	ticket, err := h.uc.Ticket(c.Context(), user, ticketId)
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTicket(c, http.StatusOK, *ticket)
}

// PostTicketStatus moves a ticket through the workflow.
func (h *Handler) PostTicketStatus(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostTicketStatusJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	ticket, err := h.uc.ChangeTicketStatus(c.Context(), user, ticketId, entities.TicketStatus(strings.ToUpper(body.Status)))
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTicket(c, http.StatusOK, *ticket)
}

// PostTicketAssign sets or clears the assignee.
func (h *Handler) PostTicketAssign(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostTicketAssignJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}
	if body.AssigneeId != nil && *body.AssigneeId == "" {
		body.AssigneeId = nil
	}

	ticket, err := h.uc.AssignTicket(c.Context(), user, ticketId, body.AssigneeId)
	if err != nil {
		return h.fail(c, err)
	}
	return h.writeTicket(c, http.StatusOK, *ticket)
}

// GetTicketComments lists comments, oldest first.
func (h *Handler) GetTicketComments(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	comments, err := h.uc.Comments(c.Context(), user, ticketId)
	if err != nil {
		return h.fail(c, err)
	}
	dto, err := mapper.ToOAPICommentList(comments, h.now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Comments []api.Comment `json:"comments"`
	}{Comments: dto})
}

// PostTicketComments adds a comment.
func (h *Handler) PostTicketComments(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body api.PostTicketCommentsJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return h.badBody(c, err)
	}

	comment, err := h.uc.AddComment(c.Context(), user, ticketId, body.Body)
	if err != nil {
		return h.fail(c, err)
	}
	dto, err := mapper.ToOAPIComment(*comment, h.now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Comment api.Comment `json:"comment"`
	}{Comment: dto})
}

// GetTicketAttachments lists attachment metadata.
func (h *Handler) GetTicketAttachments(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.uc.Attachments(c.Context(), user, ticketId)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Attachments []api.Attachment `json:"attachments"`
	}{Attachments: mapper.ToOAPIAttachmentList(list)})
}

// PostTicketAttachments stores an upload sent either as multipart "file"
// or as JSON carrying a base64 data URI.
func (h *Handler) PostTicketAttachments(c *fiber.Ctx, ticketId string) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}

	var attachment *entities.Attachment
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return h.badBody(c, err)
		}
		f, err := fh.Open()
		if err != nil {
			return h.fail(c, fmt.Errorf("open upload: %w", err))
		}
		defer func() { _ = f.Close() }()

		attachment, err = h.uc.AddAttachment(c.Context(), user, ticketId, fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
		if err != nil {
			return h.fail(c, err)
		}
	} else {
		var body api.PostTicketAttachmentsJSONRequestBody
		if err := c.BodyParser(&body); err != nil {
			return h.badBody(c, err)
		}
		mimeType, raw, err := fileenc.ParseDataURI(body.DataUri)
		if err != nil {
			return h.fail(c, fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err))
		}
		attachment, err = h.uc.AddAttachment(c.Context(), user, ticketId, body.FileName, mimeType, bytes.NewReader(raw))
		if err != nil {
			return h.fail(c, err)
		}
	}

	attachment.Data = ""
	return c.Status(http.StatusCreated).JSON(struct {
		Attachment api.Attachment `json:"attachment"`
	}{Attachment: mapper.ToOAPIAttachment(*attachment)})
}

// GetTicketAttachment downloads an attachment, or returns it as JSON with
// a data URI when format=json.
func (h *Handler) GetTicketAttachment(c *fiber.Ctx, ticketId, attachmentId string, params api.GetTicketAttachmentParams) error {
	user, err := actor(c)
	if err != nil {
		return h.fail(c, err)
	}
	attachment, err := h.uc.Attachment(c.Context(), user, ticketId, attachmentId)
	if err != nil {
		return h.fail(c, err)
	}

	if params.Format != nil && *params.Format == "json" {
		return c.Status(http.StatusOK).JSON(struct {
			Attachment api.Attachment `json:"attachment"`
		}{Attachment: mapper.ToOAPIAttachment(*attachment)})
	}

	raw, err := fileenc.Decode(attachment.Data)
	if err != nil {
		return h.fail(c, err)
	}
	c.Attachment(attachment.FileName)
	if attachment.MimeType != "" {
		c.Set(fiber.HeaderContentType, attachment.MimeType)
	}
	return c.Status(http.StatusOK).Send(raw)
}

func (h *Handler) writeTicket(c *fiber.Ctx, status int, ticket entities.Ticket) error {
	dto, err := mapper.ToOAPITicket(ticket)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(status).JSON(struct {
		Ticket api.Ticket `json:"ticket"`
	}{Ticket: dto})
}

func (h *Handler) writeTickets(c *fiber.Ctx, tickets []entities.Ticket) error {
	dto, err := mapper.ToOAPITicketList(tickets)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Tickets []api.Ticket `json:"tickets"`
	}{Tickets: dto})
}
