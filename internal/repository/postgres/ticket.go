package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support-desk/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	ticketColumns = `id, project_id, author_id, assignee_id, title, description, status, priority, metadata, created_at, updated_at, closed_at`

	insertTicketQuery = `
INSERT INTO tickets(id, project_id, author_id, assignee_id, title, description, status, priority, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + ticketColumns
	selectTicketQuery          = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	selectTicketForUpdateQuery = `SELECT status FROM tickets WHERE id=$1 FOR UPDATE`
	updateTicketStatusQuery    = `
UPDATE tickets SET status=$2, updated_at=$3, closed_at=$4
WHERE id=$1
RETURNING ` + ticketColumns
	assignTicketQuery = `
UPDATE tickets SET assignee_id=$2, updated_at=$3
WHERE id=$1
RETURNING ` + ticketColumns

	commentColumns     = `id, ticket_id, author_id, body, created_at`
	insertCommentQuery = `
INSERT INTO ticket_comments(id, ticket_id, author_id, body)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns
	listCommentsQuery = `SELECT ` + commentColumns + ` FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at, id`

	attachmentMetaColumns = `id, ticket_id, uploader_id, file_name, mime_type, size_bytes, created_at`
	insertAttachmentQuery = `
INSERT INTO ticket_attachments(id, ticket_id, uploader_id, file_name, mime_type, size_bytes, data)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`
	selectAttachmentQuery = `SELECT ` + attachmentMetaColumns + `, data FROM ticket_attachments WHERE ticket_id=$1 AND id=$2`
	listAttachmentsQuery  = `SELECT ` + attachmentMetaColumns + ` FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at, id`
)

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	if err := row.Scan(&t.ID, &t.ProjectID, &t.AuthorID, &t.AssigneeID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.Metadata, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt); err != nil {
		return nil, err
	}
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	return &t, nil
}

// CreateTicket inserts a ticket.
func (p *Postgres) CreateTicket(ctx context.Context, ticket entities.Ticket) (*entities.Ticket, error) {
	metadata := ticket.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	res, err := scanTicket(p.db.QueryRow(ctx, insertTicketQuery,
		ticket.ID, ticket.ProjectID, ticket.AuthorID, ticket.AssigneeID, ticket.Title, ticket.Description,
		ticket.Status, ticket.Priority, metadata))
	if err != nil {
		p.log.Errorw("failed to insert ticket", "error", err, "ticket_id", ticket.ID)
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	p.log.Infow("ticket created", "ticket_id", res.ID, "project_id", res.ProjectID)
	return res, nil
}

// GetTicket fetches a ticket by id.
func (p *Postgres) GetTicket(ctx context.Context, ticketID string) (*entities.Ticket, error) {
	res, err := scanTicket(p.db.QueryRow(ctx, selectTicketQuery, ticketID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return res, nil
}

// ListTickets returns tickets matching filter, newest first.
func (p *Postgres) ListTickets(ctx context.Context, filter entities.TicketFilter) ([]entities.Ticket, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.ProjectID != "" {
		add("project_id=$%d", filter.ProjectID)
	}
	if filter.AuthorID != "" {
		add("author_id=$%d", filter.AuthorID)
	}
	if filter.Status != nil {
		add("status=$%d", *filter.Status)
	}

	var q strings.Builder
	q.WriteString(`SELECT ` + ticketColumns + ` FROM tickets`)
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	q.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&q, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&q, " OFFSET $%d", len(args))
	}

	rows, err := p.db.Query(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			p.log.Errorw("failed to scan ticket", "error", err)
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicketStatus moves a ticket through the workflow under a row lock.
func (p *Postgres) UpdateTicketStatus(ctx context.Context, ticketID string, status entities.TicketStatus, at time.Time) (*entities.Ticket, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current entities.TicketStatus
	if err := tx.QueryRow(ctx, selectTicketForUpdateQuery, ticketID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTicketNotFound
		}
		return nil, fmt.Errorf("lock ticket: %w", err)
	}
	if !current.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, current, status)
	}
	if current == status {
		res, err := scanTicket(tx.QueryRow(ctx, selectTicketQuery, ticketID))
		if err != nil {
			return nil, fmt.Errorf("get ticket: %w", err)
		}
		return res, tx.Commit(ctx)
	}

	var closedAt *time.Time
	if status == entities.StatusClosed {
		closedAt = &at
	}
	res, err := scanTicket(tx.QueryRow(ctx, updateTicketStatusQuery, ticketID, status, at, closedAt))
	if err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("ticket status updated", "ticket_id", ticketID, "from", current, "to", status)
	return res, nil
}

// AssignTicket sets or clears the assignee.
func (p *Postgres) AssignTicket(ctx context.Context, ticketID string, assigneeID *string, at time.Time) (*entities.Ticket, error) {
	res, err := scanTicket(p.db.QueryRow(ctx, assignTicketQuery, ticketID, assigneeID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTicketNotFound
		}
		return nil, fmt.Errorf("assign ticket: %w", err)
	}
	return res, nil
}

// AddComment appends a comment to a ticket.
func (p *Postgres) AddComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error) {
	var c entities.Comment
	err := p.db.QueryRow(ctx, insertCommentQuery, comment.ID, comment.TicketID, comment.AuthorID, comment.Body).
		Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		p.log.Errorw("failed to insert comment", "error", err, "ticket_id", comment.TicketID)
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

// ListComments returns ticket comments, oldest first.
func (p *Postgres) ListComments(ctx context.Context, ticketID string) ([]entities.Comment, error) {
	rows, err := p.db.Query(ctx, listCommentsQuery, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]entities.Comment, 0)
	for rows.Next() {
		var c entities.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// AddAttachment stores a base64 encoded file.
func (p *Postgres) AddAttachment(ctx context.Context, attachment entities.Attachment) (*entities.Attachment, error) {
	res := attachment
	err := p.db.QueryRow(ctx, insertAttachmentQuery, attachment.ID, attachment.TicketID, attachment.UploaderID,
		attachment.FileName, attachment.MimeType, attachment.Size, attachment.Data).Scan(&res.CreatedAt)
	if err != nil {
		p.log.Errorw("failed to insert attachment", "error", err, "ticket_id", attachment.TicketID)
		return nil, fmt.Errorf("insert attachment: %w", err)
	}

	p.log.Infow("attachment stored", "ticket_id", res.TicketID, "attachment_id", res.ID, "size", res.Size)
	return &res, nil
}

// GetAttachment fetches an attachment including its data.
func (p *Postgres) GetAttachment(ctx context.Context, ticketID, attachmentID string) (*entities.Attachment, error) {
	var a entities.Attachment
	err := p.db.QueryRow(ctx, selectAttachmentQuery, ticketID, attachmentID).
		Scan(&a.ID, &a.TicketID, &a.UploaderID, &a.FileName, &a.MimeType, &a.Size, &a.CreatedAt, &a.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return &a, nil
}

// ListAttachments returns attachment metadata without file data.
func (p *Postgres) ListAttachments(ctx context.Context, ticketID string) ([]entities.Attachment, error) {
	rows, err := p.db.Query(ctx, listAttachmentsQuery, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Attachment, 0)
	for rows.Next() {
		var a entities.Attachment
		if err := rows.Scan(&a.ID, &a.TicketID, &a.UploaderID, &a.FileName, &a.MimeType, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return res, nil
}
