package bolt

import (
	"context"
	"time"

	"support-desk/internal/entities"

	"go.etcd.io/bbolt"
)

// CreateSession stores a session keyed by its token digest.
func (b *Bolt) CreateSession(_ context.Context, session entities.Session) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(sessionsBucket), session.TokenHash, session)
	})
}

// GetSession fetches a session by token digest.
func (b *Bolt) GetSession(_ context.Context, tokenHash string) (*entities.Session, error) {
	var s entities.Session
	err := b.db.View(func(tx *bbolt.Tx) error {
		ok, err := get(tx.Bucket(sessionsBucket), tokenHash, &s)
		if err != nil {
			return err
		}
		if !ok {
			return entities.ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session. Unknown tokens are ignored.
func (b *Bolt) DeleteSession(_ context.Context, tokenHash string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(tokenHash))
	})
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (b *Bolt) DeleteExpiredSessions(_ context.Context, now time.Time) (int, error) {
	var expired [][]byte
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		err := each(bucket, "", func(s entities.Session) error {
			if s.Expired(now) {
				expired = append(expired, []byte(s.TokenHash))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(expired), nil
}
