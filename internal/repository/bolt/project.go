package bolt

import (
	"context"
	"fmt"
	"sort"

	"support-desk/internal/entities"

	"go.etcd.io/bbolt"
)

// CreateProject stores a new project.
func (b *Bolt) CreateProject(_ context.Context, project entities.Project) (*entities.Project, error) {
	project.CreatedAt = stamp(project.CreatedAt)
	project.UpdatedAt = project.CreatedAt

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(projectsBucket), project.ID, project)
	})
	if err != nil {
		b.log.Errorw("failed to store project", "error", err, "project_id", project.ID)
		return nil, fmt.Errorf("insert project: %w", err)
	}

	b.log.Infow("project created", "project_id", project.ID, "owner_id", project.OwnerID)
	return &project, nil
}

// GetProject fetches a project by id.
func (b *Bolt) GetProject(_ context.Context, projectID string) (*entities.Project, error) {
	var p entities.Project
	err := b.db.View(func(tx *bbolt.Tx) error {
		ok, err := get(tx.Bucket(projectsBucket), projectID, &p)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrProjectNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjectsByOwner returns the owner's projects, newest first.
func (b *Bolt) ListProjectsByOwner(_ context.Context, ownerID string) ([]entities.Project, error) {
	return b.scanProjects(func(p entities.Project) bool { return p.OwnerID == ownerID })
}

// ListProjects returns a page of all projects, newest first.
func (b *Bolt) ListProjects(_ context.Context, limit, offset int) ([]entities.Project, error) {
	projects, err := b.scanProjects(func(entities.Project) bool { return true })
	if err != nil {
		return nil, err
	}
	return page(projects, limit, offset), nil
}

func (b *Bolt) scanProjects(keep func(entities.Project) bool) ([]entities.Project, error) {
	projects := make([]entities.Project, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return each(tx.Bucket(projectsBucket), "", func(p entities.Project) error {
			if keep(p) {
				projects = append(projects, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.After(projects[j].CreatedAt)
		}
		return projects[i].ID > projects[j].ID
	})
	return projects, nil
}

// DeleteProject removes a project together with its tickets.
func (b *Bolt) DeleteProject(_ context.Context, projectID string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		projects := tx.Bucket(projectsBucket)
		if projects.Get([]byte(projectID)) == nil {
			return entities.ErrProjectNotFound
		}

		var ticketIDs []string
		err := each(tx.Bucket(ticketsBucket), "", func(t entities.Ticket) error {
			if t.ProjectID == projectID {
				ticketIDs = append(ticketIDs, t.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, id := range ticketIDs {
			if err := deleteTicket(tx, id); err != nil {
				return err
			}
		}
		return projects.Delete([]byte(projectID))
	})
	if err != nil {
		return err
	}

	b.log.Infow("project deleted", "project_id", projectID)
	return nil
}
