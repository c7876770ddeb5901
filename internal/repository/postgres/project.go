package postgres

import (
	"context"
	"errors"
	"fmt"

	"support-desk/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	projectColumns = `id, name, description, owner_id, created_at, updated_at`

	insertProjectQuery = `
INSERT INTO projects(id, name, description, owner_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + projectColumns
	selectProjectQuery   = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	projectsByOwnerQuery = `SELECT ` + projectColumns + ` FROM projects WHERE owner_id=$1 ORDER BY created_at DESC, id DESC`
	listProjectsQuery    = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	deleteProjectQuery   = `DELETE FROM projects WHERE id=$1`
)

func scanProject(row pgx.Row) (*entities.Project, error) {
	var pr entities.Project
	if err := row.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.OwnerID, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreateProject inserts a project owned by project.OwnerID.
func (p *Postgres) CreateProject(ctx context.Context, project entities.Project) (*entities.Project, error) {
	res, err := scanProject(p.db.QueryRow(ctx, insertProjectQuery,
		project.ID, project.Name, project.Description, project.OwnerID))
	if err != nil {
		p.log.Errorw("failed to insert project", "error", err, "project_id", project.ID)
		return nil, fmt.Errorf("insert project: %w", err)
	}

	p.log.Infow("project created", "project_id", res.ID, "owner_id", res.OwnerID)
	return res, nil
}

// GetProject fetches a project by id.
func (p *Postgres) GetProject(ctx context.Context, projectID string) (*entities.Project, error) {
	res, err := scanProject(p.db.QueryRow(ctx, selectProjectQuery, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return res, nil
}

// ListProjectsByOwner returns projects of a user, newest first.
func (p *Postgres) ListProjectsByOwner(ctx context.Context, ownerID string) ([]entities.Project, error) {
	rows, err := p.db.Query(ctx, projectsByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects by owner: %w", err)
	}
	return p.collectProjects(rows)
}

// ListProjects returns a page of all projects, newest first.
func (p *Postgres) ListProjects(ctx context.Context, limit, offset int) ([]entities.Project, error) {
	rows, err := p.db.Query(ctx, listProjectsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return p.collectProjects(rows)
}

func (p *Postgres) collectProjects(rows pgx.Rows) ([]entities.Project, error) {
	defer rows.Close()

	projects := make([]entities.Project, 0)
	for rows.Next() {
		pr, err := scanProject(rows)
		if err != nil {
			p.log.Errorw("failed to scan project", "error", err)
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// DeleteProject removes a project together with its tickets.
func (p *Postgres) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := p.db.Exec(ctx, deleteProjectQuery, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrProjectNotFound
	}

	p.log.Infow("project deleted", "project_id", projectID)
	return nil
}
