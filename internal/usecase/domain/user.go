package domain

import (
	"context"
	"fmt"

	"support-desk/internal/entities"
)

// ListUsers returns a page of accounts for the admin console.
func (u *Usecase) ListUsers(ctx context.Context, actor entities.User, limit, offset int) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return u.repo.ListUsers(ctx, limit, offset)
}

// SetUserActive toggles the activity flag. Admins cannot deactivate themselves.
func (u *Usecase) SetUserActive(ctx context.Context, actor entities.User, userID string, isActive bool) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", entities.ErrInvalidArgument)
	}
	if userID == actor.ID && !isActive {
		return nil, fmt.Errorf("%w: cannot deactivate own account", entities.ErrInvalidArgument)
	}

	res, err := u.repo.SetUserActive(ctx, userID, isActive)
	if err != nil {
		return nil, err
	}
	u.log.Infow("user activity changed", "user_id", userID, "is_active", isActive, "actor_id", actor.ID)
	return res, nil
}

// SetUserRole changes an account role. Admins cannot change their own role.
func (u *Usecase) SetUserRole(ctx context.Context, actor entities.User, userID string, role entities.Role) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", entities.ErrInvalidArgument)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, role)
	}
	if userID == actor.ID {
		return nil, fmt.Errorf("%w: cannot change own role", entities.ErrInvalidArgument)
	}

	res, err := u.repo.SetUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	u.log.Infow("user role changed", "user_id", userID, "role", role, "actor_id", actor.ID)
	return res, nil
}
