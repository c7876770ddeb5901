package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-desk/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	userColumns = `id, email, username, password_hash, role, is_active, created_at, last_login_at`

	insertUserQuery = `
INSERT INTO users(id, email, username, password_hash, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	selectUserQuery        = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	listUsersQuery         = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`
	setUserActiveQuery     = `UPDATE users SET is_active=$2 WHERE id=$1 RETURNING ` + userColumns
	setUserRoleQuery       = `UPDATE users SET role=$2 WHERE id=$1 RETURNING ` + userColumns
	touchLoginQuery        = `UPDATE users SET last_login_at=$2 WHERE id=$1`
)

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an account. Email uniqueness is enforced by the schema.
func (p *Postgres) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, insertUserQuery,
		user.ID, entities.NormalizeEmail(user.Email), user.Username, user.PasswordHash, user.Role, user.IsActive))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, entities.ErrUserExists
		}
		p.log.Errorw("failed to insert user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user created", "user_id", u.ID)
	return u, nil
}

// GetUser fetches a user by id.
func (p *Postgres) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserQuery, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by normalized email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserByEmailQuery, entities.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns a page of users in creation order.
func (p *Postgres) ListUsers(ctx context.Context, limit, offset int) ([]entities.User, error) {
	rows, err := p.db.Query(ctx, listUsersQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			p.log.Errorw("failed to scan user", "error", err)
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// SetUserActive updates the is_active flag and returns the updated user.
func (p *Postgres) SetUserActive(ctx context.Context, userID string, isActive bool) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, setUserActiveQuery, userID, isActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to set user active", "error", err, "user_id", userID)
		return nil, fmt.Errorf("set user active: %w", err)
	}

	p.log.Infow("user active flag updated", "user_id", userID, "is_active", isActive)
	return u, nil
}

// SetUserRole changes the account role.
func (p *Postgres) SetUserRole(ctx context.Context, userID string, role entities.Role) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, setUserRoleQuery, userID, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("set user role: %w", err)
	}

	p.log.Infow("user role updated", "user_id", userID, "role", role)
	return u, nil
}

// TouchLogin records the last successful login.
func (p *Postgres) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	tag, err := p.db.Exec(ctx, touchLoginQuery, userID, at)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}
