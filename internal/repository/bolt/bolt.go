// Package bolt implements the repository on an embedded bbolt file.
// Records are stored as deterministic CBOR keyed by entity id.
package bolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"support-desk/config"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	usersBucket       = []byte("users")
	usersByEmail      = []byte("users_by_email")
	projectsBucket    = []byte("projects")
	ticketsBucket     = []byte("tickets")
	commentsBucket    = []byte("comments")
	attachmentsBucket = []byte("attachments")
	sessionsBucket    = []byte("sessions")

	allBuckets = [][]byte{
		usersBucket, usersByEmail, projectsBucket, ticketsBucket,
		commentsBucket, attachmentsBucket, sessionsBucket,
	}
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("bolt: cbor encoder: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("bolt: cbor decoder: " + err.Error())
	}
}

// Bolt stores every entity in its own bucket of a single database file.
type Bolt struct {
	log *zap.SugaredLogger
	cfg config.BoltConfig
	db  *bbolt.DB
}

// New creates a Bolt repository instance. The file is opened in OnStart.
func New(log *zap.SugaredLogger, cfg *config.Config) *Bolt {
	return &Bolt{
		log: log.Named("repo.bolt"),
		cfg: cfg.Bolt,
	}
}

// OnStart opens the database file and creates missing buckets.
func (b *Bolt) OnStart(_ context.Context) error {
	if dir := filepath.Dir(b.cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bbolt.Open(b.cfg.Path, 0o600, &bbolt.Options{Timeout: b.cfg.Timeout})
	if err != nil {
		return fmt.Errorf("open bolt: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return err
	}

	b.db = db
	b.log.Infow("bolt ready", "path", b.cfg.Path)
	return nil
}

// OnStop closes the database file.
func (b *Bolt) OnStop(_ context.Context) error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Ping reports whether the database is open.
func (b *Bolt) Ping(_ context.Context) error {
	if b.db == nil {
		return errors.New("bolt not started")
	}
	return b.db.View(func(*bbolt.Tx) error { return nil })
}

func put(bucket *bbolt.Bucket, key string, v any) error {
	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return bucket.Put([]byte(key), data)
}

// get decodes the record at key into v and reports whether it existed.
func get(bucket *bbolt.Bucket, key string, v any) (bool, error) {
	data := bucket.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := decMode.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// each decodes every record under prefix and hands it to fn.
func each[T any](bucket *bbolt.Bucket, prefix string, fn func(T) error) error {
	c := bucket.Cursor()
	p := []byte(prefix)
	for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
		var rec T
		if err := decMode.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func childKey(parentID, id string) string {
	return parentID + ":" + id
}

// page applies limit/offset to an already ordered slice.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return make([]T, 0)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
