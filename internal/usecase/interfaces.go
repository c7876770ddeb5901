package usecase

import (
	"context"
	"io"

	"support-desk/internal/entities"
)

// AuthUsecaseInterface abstracts account and session operations.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, email, username, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*entities.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entities.User, error)
	SweepSessions(ctx context.Context) (int, error)
}

// ProjectUsecaseInterface abstracts project operations on behalf of an actor.
type ProjectUsecaseInterface interface {
	CreateProject(ctx context.Context, actor entities.User, name, description string) (*entities.Project, error)
	Project(ctx context.Context, actor entities.User, projectID string) (*entities.Project, error)
	ListProjects(ctx context.Context, actor entities.User) ([]entities.Project, error)
	DeleteProject(ctx context.Context, actor entities.User, projectID string) error
}

// TicketUsecaseInterface abstracts ticket, comment and attachment operations.
type TicketUsecaseInterface interface {
	CreateTicket(ctx context.Context, actor entities.User, ticket entities.Ticket) (*entities.Ticket, error)
	Ticket(ctx context.Context, actor entities.User, ticketID string) (*entities.Ticket, error)
	ListProjectTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error)
	ChangeTicketStatus(ctx context.Context, actor entities.User, ticketID string, status entities.TicketStatus) (*entities.Ticket, error)
	AssignTicket(ctx context.Context, actor entities.User, ticketID string, assigneeID *string) (*entities.Ticket, error)
	AddComment(ctx context.Context, actor entities.User, ticketID, body string) (*entities.Comment, error)
	Comments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Comment, error)
	AddAttachment(ctx context.Context, actor entities.User, ticketID, fileName, mimeType string, r io.Reader) (*entities.Attachment, error)
	Attachments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Attachment, error)
	Attachment(ctx context.Context, actor entities.User, ticketID, attachmentID string) (*entities.Attachment, error)
}

// AdminUsecaseInterface abstracts admin console operations.
type AdminUsecaseInterface interface {
	ListUsers(ctx context.Context, actor entities.User, limit, offset int) ([]entities.User, error)
	SetUserActive(ctx context.Context, actor entities.User, userID string, isActive bool) (*entities.User, error)
	SetUserRole(ctx context.Context, actor entities.User, userID string, role entities.Role) (*entities.User, error)
	AllTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error)
	Stats(ctx context.Context, actor entities.User) (entities.AdminStats, error)
}
