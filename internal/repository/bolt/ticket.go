package bolt

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"support-desk/internal/entities"

	"go.etcd.io/bbolt"
)

// CreateTicket stores a ticket inside an existing project.
func (b *Bolt) CreateTicket(_ context.Context, ticket entities.Ticket) (*entities.Ticket, error) {
	ticket.CreatedAt = stamp(ticket.CreatedAt)
	ticket.UpdatedAt = ticket.CreatedAt
	if ticket.Metadata == nil {
		ticket.Metadata = map[string]any{}
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(projectsBucket).Get([]byte(ticket.ProjectID)) == nil {
			return entities.ErrProjectNotFound
		}
		return put(tx.Bucket(ticketsBucket), ticket.ID, ticket)
	})
	if err != nil {
		return nil, err
	}

	b.log.Infow("ticket created", "ticket_id", ticket.ID, "project_id", ticket.ProjectID)
	return &ticket, nil
}

// GetTicket fetches a ticket by id.
func (b *Bolt) GetTicket(_ context.Context, ticketID string) (*entities.Ticket, error) {
	var t entities.Ticket
	err := b.db.View(func(tx *bbolt.Tx) error {
		return loadTicket(tx, ticketID, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickets scans all tickets and applies the filter, newest first.
func (b *Bolt) ListTickets(_ context.Context, filter entities.TicketFilter) ([]entities.Ticket, error) {
	tickets := make([]entities.Ticket, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return each(tx.Bucket(ticketsBucket), "", func(t entities.Ticket) error {
			if filter.Matches(t) {
				tickets = append(tickets, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		}
		return tickets[i].ID > tickets[j].ID
	})
	return page(tickets, filter.Limit, filter.Offset), nil
}

// UpdateTicketStatus moves a ticket through the workflow. The check and
// the write share one read-write transaction.
func (b *Bolt) UpdateTicketStatus(_ context.Context, ticketID string, status entities.TicketStatus, at time.Time) (*entities.Ticket, error) {
	var (
		t    entities.Ticket
		from entities.TicketStatus
	)
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := loadTicket(tx, ticketID, &t); err != nil {
			return err
		}
		from = t.Status
		if !from.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, from, status)
		}
		if from == status {
			return nil
		}

		at = at.UTC()
		t.Status = status
		t.UpdatedAt = at
		t.ClosedAt = nil
		if status == entities.StatusClosed {
			t.ClosedAt = &at
		}
		return put(tx.Bucket(ticketsBucket), t.ID, t)
	})
	if err != nil {
		return nil, err
	}

	if from != status {
		b.log.Infow("ticket status updated", "ticket_id", ticketID, "from", from, "to", status)
	}
	return &t, nil
}

// AssignTicket sets or clears the assignee.
func (b *Bolt) AssignTicket(_ context.Context, ticketID string, assigneeID *string, at time.Time) (*entities.Ticket, error) {
	var t entities.Ticket
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := loadTicket(tx, ticketID, &t); err != nil {
			return err
		}
		t.AssigneeID = assigneeID
		t.UpdatedAt = at.UTC()
		return put(tx.Bucket(ticketsBucket), t.ID, t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// AddComment appends a comment to a ticket.
func (b *Bolt) AddComment(_ context.Context, comment entities.Comment) (*entities.Comment, error) {
	comment.CreatedAt = stamp(comment.CreatedAt)
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(ticketsBucket).Get([]byte(comment.TicketID)) == nil {
			return entities.ErrTicketNotFound
		}
		return put(tx.Bucket(commentsBucket), childKey(comment.TicketID, comment.ID), comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns ticket comments, oldest first.
func (b *Bolt) ListComments(_ context.Context, ticketID string) ([]entities.Comment, error) {
	comments := make([]entities.Comment, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return each(tx.Bucket(commentsBucket), childKey(ticketID, ""), func(c entities.Comment) error {
			comments = append(comments, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// AddAttachment stores a base64 encoded file.
func (b *Bolt) AddAttachment(_ context.Context, attachment entities.Attachment) (*entities.Attachment, error) {
	attachment.CreatedAt = stamp(attachment.CreatedAt)
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(ticketsBucket).Get([]byte(attachment.TicketID)) == nil {
			return entities.ErrTicketNotFound
		}
		return put(tx.Bucket(attachmentsBucket), childKey(attachment.TicketID, attachment.ID), attachment)
	})
	if err != nil {
		return nil, err
	}

	b.log.Infow("attachment stored", "ticket_id", attachment.TicketID, "attachment_id", attachment.ID, "size", attachment.Size)
	return &attachment, nil
}

// GetAttachment fetches an attachment including its data.
func (b *Bolt) GetAttachment(_ context.Context, ticketID, attachmentID string) (*entities.Attachment, error) {
	var a entities.Attachment
	err := b.db.View(func(tx *bbolt.Tx) error {
		ok, err := get(tx.Bucket(attachmentsBucket), childKey(ticketID, attachmentID), &a)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrAttachmentNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttachments returns attachment metadata without file data.
func (b *Bolt) ListAttachments(_ context.Context, ticketID string) ([]entities.Attachment, error) {
	res := make([]entities.Attachment, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return each(tx.Bucket(attachmentsBucket), childKey(ticketID, ""), func(a entities.Attachment) error {
			a.Data = ""
			res = append(res, a)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func loadTicket(tx *bbolt.Tx, ticketID string, t *entities.Ticket) error {
	ok, err := get(tx.Bucket(ticketsBucket), ticketID, t)
	if err != nil {
		return err
	}
	if !ok {
		return entities.ErrTicketNotFound
	}
	return nil
}

// deleteTicket removes a ticket and its child records.
func deleteTicket(tx *bbolt.Tx, ticketID string) error {
	prefix := []byte(childKey(ticketID, ""))
	for _, name := range [][]byte{commentsBucket, attachmentsBucket} {
		bucket := tx.Bucket(name)
		var keys [][]byte
		c := bucket.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, bytes.Clone(k))
		}
		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
	}
	return tx.Bucket(ticketsBucket).Delete([]byte(ticketID))
}
