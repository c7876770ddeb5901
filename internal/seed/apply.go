package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support-desk/internal/entities"
	"support-desk/internal/repository"
	"support-desk/pkg/password"
	"support-desk/pkg/serial"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result counts the records written by Apply.
type Result struct {
	Users    int
	Projects int
	Tickets  int
	Comments int
}

// statusPath lists the workflow steps from OPEN to each status.
var statusPath = map[entities.TicketStatus][]entities.TicketStatus{
	entities.StatusOpen:       nil,
	entities.StatusInProgress: {entities.StatusInProgress},
	entities.StatusResolved:   {entities.StatusInProgress, entities.StatusResolved},
	entities.StatusClosed:     {entities.StatusClosed},
}

// Apply writes doc into repo. Users that already exist and projects the
// owner already has under the same name are reused; tickets of a reused
// project are not written again, so applying a document twice is a no-op.
func Apply(ctx context.Context, log *zap.SugaredLogger, repo repository.Repository, doc *Document) (Result, error) {
	log = log.Named("seed")
	var res Result
	now := time.Now().UTC()

	users := make(map[string]string, len(doc.Users))
	for _, u := range doc.Users {
		id, created, err := applyUser(ctx, repo, u, now)
		if err != nil {
			return res, err
		}
		users[entities.NormalizeEmail(u.Email)] = id
		if created {
			res.Users++
		}
	}

	lookup := func(email string) (string, error) {
		key := entities.NormalizeEmail(email)
		if id, ok := users[key]; ok {
			return id, nil
		}
		existing, err := repo.GetUserByEmail(ctx, key)
		if err != nil {
			return "", fmt.Errorf("seed user %q: %w", email, err)
		}
		users[key] = existing.ID
		return existing.ID, nil
	}

	projects := make(map[string]string, len(doc.Projects))
	reused := make(map[string]bool)
	for _, p := range doc.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return res, fmt.Errorf("%w: project name is required", entities.ErrInvalidArgument)
		}
		ownerID, err := lookup(p.Owner)
		if err != nil {
			return res, err
		}
		id, err := findProject(ctx, repo, ownerID, p.Name)
		if err != nil {
			return res, err
		}
		if id != "" {
			projects[p.Name] = id
			reused[p.Name] = true
			continue
		}
		created, err := repo.CreateProject(ctx, entities.Project{
			ID:          newID(),
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     ownerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return res, fmt.Errorf("seed project %q: %w", p.Name, err)
		}
		projects[p.Name] = created.ID
		res.Projects++
	}

	for _, t := range doc.Tickets {
		projectID, ok := projects[t.Project]
		if !ok {
			return res, fmt.Errorf("%w: ticket %q refers to unknown project %q", entities.ErrInvalidArgument, t.Title, t.Project)
		}
		if reused[t.Project] {
			log.Debugw("ticket skipped, project already seeded", "project", t.Project, "title", t.Title)
			continue
		}
		comments, err := applyTicket(ctx, repo, t, projectID, lookup, now)
		if err != nil {
			return res, err
		}
		res.Tickets++
		res.Comments += comments
	}

	log.Infow("seed applied", "users", res.Users, "projects", res.Projects, "tickets", res.Tickets, "comments", res.Comments)
	return res, nil
}

// findProject returns the id of the owner's project called name, or "".
func findProject(ctx context.Context, repo repository.Repository, ownerID, name string) (string, error) {
	owned, err := repo.ListProjectsByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("seed project %q: %w", name, err)
	}
	for _, p := range owned {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", nil
}

func applyUser(ctx context.Context, repo repository.Repository, u User, now time.Time) (string, bool, error) {
	email := entities.NormalizeEmail(u.Email)
	if !strings.Contains(email, "@") {
		return "", false, fmt.Errorf("%w: seed user email %q", entities.ErrInvalidArgument, u.Email)
	}
	if existing, err := repo.GetUserByEmail(ctx, email); err == nil {
		return existing.ID, false, nil
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return "", false, fmt.Errorf("seed user %q: %w", email, err)
	}

	role := entities.RoleUser
	if u.Role != "" {
		role = entities.Role(strings.ToUpper(u.Role))
	}
	if !role.Valid() {
		return "", false, fmt.Errorf("%w: seed user %q role %q", entities.ErrInvalidArgument, email, u.Role)
	}
	if len(u.Password) < password.MinLength {
		return "", false, fmt.Errorf("%w: seed user %q password too short", entities.ErrInvalidArgument, email)
	}
	hash, err := password.Hash(u.Password)
	if err != nil {
		return "", false, err
	}

	username := u.Username
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	created, err := repo.CreateUser(ctx, entities.User{
		ID:           newID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     !u.Inactive,
		CreatedAt:    now,
	})
	if err != nil {
		return "", false, fmt.Errorf("seed user %q: %w", email, err)
	}
	return created.ID, true, nil
}

func applyTicket(ctx context.Context, repo repository.Repository, t Ticket, projectID string, lookup func(string) (string, error), now time.Time) (int, error) {
	if strings.TrimSpace(t.Title) == "" {
		return 0, fmt.Errorf("%w: ticket title is required", entities.ErrInvalidArgument)
	}
	priority := entities.PriorityNormal
	if t.Priority != "" {
		priority = entities.TicketPriority(strings.ToUpper(t.Priority))
	}
	if !priority.Valid() {
		return 0, fmt.Errorf("%w: ticket %q priority %q", entities.ErrInvalidArgument, t.Title, t.Priority)
	}
	status := entities.StatusOpen
	if t.Status != "" {
		status = entities.TicketStatus(strings.ToUpper(t.Status))
	}
	path, ok := statusPath[status]
	if !ok {
		return 0, fmt.Errorf("%w: ticket %q status %q", entities.ErrInvalidArgument, t.Title, t.Status)
	}
	if !serial.IsSerializable(t.Metadata) {
		return 0, fmt.Errorf("%w: ticket %q metadata", entities.ErrInvalidArgument, t.Title)
	}

	authorID, err := lookup(t.Author)
	if err != nil {
		return 0, err
	}
	ticket, err := repo.CreateTicket(ctx, entities.Ticket{
		ID:          newID(),
		ProjectID:   projectID,
		AuthorID:    authorID,
		Title:       t.Title,
		Description: t.Description,
		Status:      entities.StatusOpen,
		Priority:    priority,
		Metadata:    t.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return 0, fmt.Errorf("seed ticket %q: %w", t.Title, err)
	}

	if t.Assignee != "" {
		assigneeID, err := lookup(t.Assignee)
		if err != nil {
			return 0, err
		}
		if _, err := repo.AssignTicket(ctx, ticket.ID, &assigneeID, now); err != nil {
			return 0, fmt.Errorf("seed ticket %q: %w", t.Title, err)
		}
	}
	for _, step := range path {
		if _, err := repo.UpdateTicketStatus(ctx, ticket.ID, step, now); err != nil {
			return 0, fmt.Errorf("seed ticket %q: %w", t.Title, err)
		}
	}

	written := 0
	for _, c := range t.Comments {
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		commentAuthor, err := lookup(c.Author)
		if err != nil {
			return 0, err
		}
		if _, err := repo.AddComment(ctx, entities.Comment{
			ID:        newID(),
			TicketID:  ticket.ID,
			AuthorID:  commentAuthor,
			Body:      c.Body,
			CreatedAt: now,
		}); err != nil {
			return 0, fmt.Errorf("seed comment on %q: %w", t.Title, err)
		}
		written++
	}
	return written, nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
