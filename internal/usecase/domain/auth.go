// Package domain contains application use cases orchestrating domain logic.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"support-desk/internal/entities"
	"support-desk/pkg/password"
	"support-desk/pkg/token"
)

// Register creates a regular, active account.
func (u *Usecase) Register(ctx context.Context, email, username, plain string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	email = entities.NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is invalid", entities.ErrInvalidArgument)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", entities.ErrInvalidArgument)
	}
	if len(plain) < password.MinLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", entities.ErrInvalidArgument, password.MinLength)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	user, err := u.repo.CreateUser(ctx, entities.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         entities.RoleUser,
		IsActive:     true,
		CreatedAt:    u.now(),
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and opens a session. The raw token is returned
// once and only its digest is stored.
func (u *Usecase) Login(ctx context.Context, email, plain string) (*entities.User, string, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user, err := u.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, entities.ErrUserNotFound) {
		return nil, "", entities.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := password.Compare(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", entities.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", entities.ErrAccountInactive
	}

	raw, digest, err := token.New()
	if err != nil {
		return nil, "", err
	}
	now := u.now()
	err = u.repo.CreateSession(ctx, entities.Session{
		TokenHash: digest,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.SessionTTL),
	})
	if err != nil {
		return nil, "", err
	}
	if err := u.repo.TouchLogin(ctx, user.ID, now); err != nil {
		u.log.Warnw("touch login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	u.log.Infow("user logged in", "user_id", user.ID)
	return user, raw, nil
}

// Logout drops the session behind token. Unknown tokens are not an error.
func (u *Usecase) Logout(ctx context.Context, raw string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if raw == "" {
		return nil
	}
	return u.repo.DeleteSession(ctx, token.Digest(raw))
}

// Authenticate resolves a raw cookie token to its active user.
func (u *Usecase) Authenticate(ctx context.Context, raw string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if raw == "" {
		return nil, entities.ErrUnauthorized
	}
	digest := token.Digest(raw)

	session, err := u.repo.GetSession(ctx, digest)
	if errors.Is(err, entities.ErrSessionNotFound) {
		return nil, entities.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(u.now()) {
		if err := u.repo.DeleteSession(ctx, digest); err != nil {
			u.log.Warnw("drop expired session", "user_id", session.UserID, "error", err)
		}
		return nil, entities.ErrUnauthorized
	}

	user, err := u.repo.GetUser(ctx, session.UserID)
	if errors.Is(err, entities.ErrUserNotFound) {
		return nil, entities.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entities.ErrAccountInactive
	}
	return user, nil
}

// SweepSessions deletes every expired session.
func (u *Usecase) SweepSessions(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	n, err := u.repo.DeleteExpiredSessions(ctx, u.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.log.Infow("expired sessions removed", "count", n)
	}
	return n, nil
}
