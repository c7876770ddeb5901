// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"support-desk/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
	Ping(ctx context.Context) error
}

// UserInterface exposes account operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]entities.User, error)
	SetUserActive(ctx context.Context, userID string, isActive bool) (*entities.User, error)
	SetUserRole(ctx context.Context, userID string, role entities.Role) (*entities.User, error)
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

// ProjectInterface exposes project operations.
type ProjectInterface interface {
	CreateProject(ctx context.Context, project entities.Project) (*entities.Project, error)
	GetProject(ctx context.Context, projectID string) (*entities.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]entities.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]entities.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
}

// TicketInterface exposes ticket, comment and attachment operations.
type TicketInterface interface {
	CreateTicket(ctx context.Context, ticket entities.Ticket) (*entities.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*entities.Ticket, error)
	ListTickets(ctx context.Context, filter entities.TicketFilter) ([]entities.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ticketID string, status entities.TicketStatus, at time.Time) (*entities.Ticket, error)
	AssignTicket(ctx context.Context, ticketID string, assigneeID *string, at time.Time) (*entities.Ticket, error)
	AddComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error)
	ListComments(ctx context.Context, ticketID string) ([]entities.Comment, error)
	AddAttachment(ctx context.Context, attachment entities.Attachment) (*entities.Attachment, error)
	GetAttachment(ctx context.Context, ticketID, attachmentID string) (*entities.Attachment, error)
	ListAttachments(ctx context.Context, ticketID string) ([]entities.Attachment, error)
}

// SessionInterface exposes session storage.
type SessionInterface interface {
	CreateSession(ctx context.Context, session entities.Session) error
	GetSession(ctx context.Context, tokenHash string) (*entities.Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// StatsInterface exposes aggregated statistics operations.
type StatsInterface interface {
	AdminStats(ctx context.Context) (entities.AdminStats, error)
}
