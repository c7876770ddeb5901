package domain

import (
	"context"
	"fmt"
	"strings"

	"support-desk/internal/entities"
)

const maxProjectName = 120

// CreateProject creates a project owned by the actor.
func (u *Usecase) CreateProject(ctx context.Context, actor entities.User, name, description string) (*entities.Project, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if len([]rune(name)) > maxProjectName {
		return nil, fmt.Errorf("%w: name is longer than %d characters", entities.ErrInvalidArgument, maxProjectName)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := u.now()
	return u.repo.CreateProject(ctx, entities.Project{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Project returns a project the actor owns, or any project for admins.
func (u *Usecase) Project(ctx context.Context, actor entities.User, projectID string) (*entities.Project, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.accessibleProject(ctx, actor, projectID)
}

// ListProjects returns the actor's own projects.
func (u *Usecase) ListProjects(ctx context.Context, actor entities.User) ([]entities.Project, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListProjectsByOwner(ctx, actor.ID)
}

// DeleteProject removes a project and everything filed under it.
func (u *Usecase) DeleteProject(ctx context.Context, actor entities.User, projectID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.accessibleProject(ctx, actor, projectID); err != nil {
		return err
	}
	if err := u.repo.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	u.log.Infow("project deleted", "project_id", projectID, "actor_id", actor.ID)
	return nil
}

func (u *Usecase) accessibleProject(ctx context.Context, actor entities.User, projectID string) (*entities.Project, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", entities.ErrInvalidArgument)
	}
	p, err := u.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !canManageProject(actor, *p) {
		return nil, fmt.Errorf("%w: project %s", entities.ErrForbidden, projectID)
	}
	return p, nil
}
