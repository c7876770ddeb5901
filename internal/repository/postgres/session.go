package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-desk/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertSessionQuery        = `INSERT INTO sessions(token_hash, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	selectSessionQuery        = `SELECT token_hash, user_id, created_at, expires_at FROM sessions WHERE token_hash=$1`
	deleteSessionQuery        = `DELETE FROM sessions WHERE token_hash=$1`
	deleteExpiredSessionQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

// CreateSession stores a session under its token digest.
func (p *Postgres) CreateSession(ctx context.Context, session entities.Session) error {
	if _, err := p.db.Exec(ctx, insertSessionQuery, session.TokenHash, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		p.log.Errorw("failed to insert session", "error", err, "user_id", session.UserID)
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session by token digest.
func (p *Postgres) GetSession(ctx context.Context, tokenHash string) (*entities.Session, error) {
	var s entities.Session
	err := p.db.QueryRow(ctx, selectSessionQuery, tokenHash).Scan(&s.TokenHash, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (p *Postgres) DeleteSession(ctx context.Context, tokenHash string) error {
	if _, err := p.db.Exec(ctx, deleteSessionQuery, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session expired at now.
func (p *Postgres) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	tag, err := p.db.Exec(ctx, deleteExpiredSessionQuery, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
