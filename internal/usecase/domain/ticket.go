package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"support-desk/internal/entities"
	"support-desk/pkg/fileenc"
	"support-desk/pkg/serial"
)

const maxTitle = 200

// CreateTicket files a ticket in a project the actor may manage.
func (u *Usecase) CreateTicket(ctx context.Context, actor entities.User, ticket entities.Ticket) (*entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	ticket.Title = strings.TrimSpace(ticket.Title)
	if ticket.Title == "" {
		return nil, fmt.Errorf("%w: title is required", entities.ErrInvalidArgument)
	}
	if len([]rune(ticket.Title)) > maxTitle {
		return nil, fmt.Errorf("%w: title is longer than %d characters", entities.ErrInvalidArgument, maxTitle)
	}
	if ticket.Priority == "" {
		ticket.Priority = entities.PriorityNormal
	}
	if !ticket.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, ticket.Priority)
	}
	if ticket.Metadata == nil {
		ticket.Metadata = map[string]any{}
	}
	if !serial.IsSerializable(ticket.Metadata) {
		return nil, fmt.Errorf("%w: metadata must be plain JSON values", entities.ErrInvalidArgument)
	}
	if _, err := u.accessibleProject(ctx, actor, ticket.ProjectID); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := u.now()
	ticket.ID = id
	ticket.AuthorID = actor.ID
	ticket.AssigneeID = nil
	ticket.Status = entities.StatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	ticket.ClosedAt = nil

	res, err := u.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	u.log.Infow("ticket created", "ticket_id", res.ID, "project_id", res.ProjectID)
	return res, nil
}

// Ticket returns a ticket visible to the actor.
func (u *Usecase) Ticket(ctx context.Context, actor entities.User, ticketID string) (*entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	t, _, err := u.visibleTicket(ctx, actor, ticketID)
	return t, err
}

// ListProjectTickets lists tickets of one project the actor may manage.
func (u *Usecase) ListProjectTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, *filter.Status)
	}
	if _, err := u.accessibleProject(ctx, actor, filter.ProjectID); err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return u.repo.ListTickets(ctx, filter)
}

// ChangeTicketStatus moves a ticket along the workflow.
func (u *Usecase) ChangeTicketStatus(ctx context.Context, actor entities.User, ticketID string, status entities.TicketStatus) (*entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, status)
	}
	t, _, err := u.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, t.Status, status)
	}
	return u.repo.UpdateTicketStatus(ctx, ticketID, status, u.now())
}

// AssignTicket sets the assignee, or clears it when assigneeID is nil.
// Only the project owner or an admin may assign.
func (u *Usecase) AssignTicket(ctx context.Context, actor entities.User, ticketID string, assigneeID *string) (*entities.Ticket, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	_, p, err := u.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !canManageProject(actor, *p) {
		return nil, fmt.Errorf("%w: only the project owner can assign", entities.ErrForbidden)
	}
	if assigneeID != nil {
		assignee, err := u.repo.GetUser(ctx, *assigneeID)
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: assignee does not exist", entities.ErrInvalidArgument)
		}
		if err != nil {
			return nil, err
		}
		if !assignee.IsActive {
			return nil, fmt.Errorf("%w: assignee is inactive", entities.ErrInvalidArgument)
		}
	}

	res, err := u.repo.AssignTicket(ctx, ticketID, assigneeID, u.now())
	if err != nil {
		return nil, err
	}
	u.log.Infow("ticket assigned", "ticket_id", ticketID, "assignee_id", assigneeID)
	return res, nil
}

// AddComment appends a comment written by the actor.
func (u *Usecase) AddComment(ctx context.Context, actor entities.User, ticketID, body string) (*entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", entities.ErrInvalidArgument)
	}
	if _, _, err := u.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	return u.repo.AddComment(ctx, entities.Comment{
		ID:        id,
		TicketID:  ticketID,
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: u.now(),
	})
}

// Comments lists comments of a visible ticket.
func (u *Usecase) Comments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, _, err := u.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return u.repo.ListComments(ctx, ticketID)
}

// AddAttachment base64-encodes r and stores it on the ticket. mimeType
// falls back to content sniffing when empty.
func (u *Usecase) AddAttachment(ctx context.Context, actor entities.User, ticketID, fileName, mimeType string, r io.Reader) (*entities.Attachment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	fileName = path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, fmt.Errorf("%w: file name is required", entities.ErrInvalidArgument)
	}
	if _, _, err := u.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	enc, err := fileenc.Encode(r, u.opts.MaxUploadBytes)
	if errors.Is(err, fileenc.ErrTooLarge) {
		return nil, fmt.Errorf("%w: limit is %d bytes", entities.ErrTooLarge, u.opts.MaxUploadBytes)
	}
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = enc.MimeType
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	return u.repo.AddAttachment(ctx, entities.Attachment{
		ID:         id,
		TicketID:   ticketID,
		UploaderID: actor.ID,
		FileName:   fileName,
		MimeType:   mimeType,
		Size:       enc.Size,
		Data:       enc.Data,
		CreatedAt:  u.now(),
	})
}

// Attachments lists attachment metadata of a visible ticket.
func (u *Usecase) Attachments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Attachment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, _, err := u.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return u.repo.ListAttachments(ctx, ticketID)
}

// Attachment returns one attachment with its data.
func (u *Usecase) Attachment(ctx context.Context, actor entities.User, ticketID, attachmentID string) (*entities.Attachment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if attachmentID == "" {
		return nil, fmt.Errorf("%w: attachment id is required", entities.ErrInvalidArgument)
	}
	if _, _, err := u.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return u.repo.GetAttachment(ctx, ticketID, attachmentID)
}

func (u *Usecase) visibleTicket(ctx context.Context, actor entities.User, ticketID string) (*entities.Ticket, *entities.Project, error) {
	if ticketID == "" {
		return nil, nil, fmt.Errorf("%w: ticket id is required", entities.ErrInvalidArgument)
	}
	t, err := u.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	p, err := u.repo.GetProject(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if !canViewTicket(actor, *p, *t) {
		return nil, nil, fmt.Errorf("%w: ticket %s", entities.ErrForbidden, ticketID)
	}
	return t, p, nil
}
