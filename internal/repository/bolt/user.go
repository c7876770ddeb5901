package bolt

import (
	"context"
	"fmt"
	"sort"
	"time"

	"support-desk/internal/entities"

	"go.etcd.io/bbolt"
)

// CreateUser inserts an account and its email index entry.
func (b *Bolt) CreateUser(_ context.Context, user entities.User) (*entities.User, error) {
	user.Email = entities.NormalizeEmail(user.Email)
	user.CreatedAt = stamp(user.CreatedAt)

	err := b.db.Update(func(tx *bbolt.Tx) error {
		idx := tx.Bucket(usersByEmail)
		if idx.Get([]byte(user.Email)) != nil {
			return entities.ErrUserExists
		}
		if err := put(tx.Bucket(usersBucket), user.ID, user); err != nil {
			return err
		}
		return idx.Put([]byte(user.Email), []byte(user.ID))
	})
	if err != nil {
		return nil, err
	}

	b.log.Infow("user created", "user_id", user.ID)
	return &user, nil
}

// GetUser fetches a user by id.
func (b *Bolt) GetUser(_ context.Context, userID string) (*entities.User, error) {
	var u entities.User
	err := b.db.View(func(tx *bbolt.Tx) error {
		return loadUser(tx, userID, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user through the email index.
func (b *Bolt) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	var u entities.User
	err := b.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(usersByEmail).Get([]byte(entities.NormalizeEmail(email)))
		if id == nil {
			return entities.ErrUserNotFound
		}
		return loadUser(tx, string(id), &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns a page of users in creation order.
func (b *Bolt) ListUsers(_ context.Context, limit, offset int) ([]entities.User, error) {
	users := make([]entities.User, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return each(tx.Bucket(usersBucket), "", func(u entities.User) error {
			users = append(users, u)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return page(users, limit, offset), nil
}

// SetUserActive flips the active flag.
func (b *Bolt) SetUserActive(_ context.Context, userID string, isActive bool) (*entities.User, error) {
	return b.updateUser(userID, func(u *entities.User) { u.IsActive = isActive })
}

// SetUserRole changes the account role.
func (b *Bolt) SetUserRole(_ context.Context, userID string, role entities.Role) (*entities.User, error) {
	return b.updateUser(userID, func(u *entities.User) { u.Role = role })
}

// TouchLogin records the last successful login.
func (b *Bolt) TouchLogin(_ context.Context, userID string, at time.Time) error {
	at = at.UTC()
	_, err := b.updateUser(userID, func(u *entities.User) { u.LastLoginAt = &at })
	return err
}

func (b *Bolt) updateUser(userID string, fn func(*entities.User)) (*entities.User, error) {
	var u entities.User
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := loadUser(tx, userID, &u); err != nil {
			return err
		}
		fn(&u)
		return put(tx.Bucket(usersBucket), u.ID, u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func loadUser(tx *bbolt.Tx, userID string, u *entities.User) error {
	ok, err := get(tx.Bucket(usersBucket), userID, u)
	if err != nil {
		return err
	}
	if !ok {
		return entities.ErrUserNotFound
	}
	return nil
}
