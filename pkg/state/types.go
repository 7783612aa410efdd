package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrKeyRequired reports a Ref without a key.
	ErrKeyRequired = errors.New("state: key is required")
	// ErrUnreadable reports a stored payload that could not be decoded.
	ErrUnreadable = errors.New("state: payload unreadable")
)

// Ref identifies one persisted snapshot.
type Ref struct {
	Namespace string
	Key       string
}

// Identifier returns the deterministic storage key for r: the bare key when no
// namespace is set, otherwise "namespace/key".
func (r Ref) Identifier() (string, error) {
	key := strings.TrimSpace(r.Key)
	if key == "" {
		return "", ErrKeyRequired
	}
	namespace := strings.Trim(strings.TrimSpace(r.Namespace), "/")
	if namespace == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", namespace, key), nil
}

// Meta is storage-owned metadata used for audit and change detection.
type Meta struct {
	SnapshotID string    `json:"snapshot_id,omitempty"`
	ETag       string    `json:"etag,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Store loads/saves one snapshot for a single reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Resolver orchestrates load-or-seed and commit against a Store.
type Resolver[T any] struct {
	Store Store[T]
}

// LoadOrSeed loads the snapshot for ref. When nothing is stored, or what is
// stored is unreadable, it returns seed() and seeded=true without writing.
func (r Resolver[T]) LoadOrSeed(ctx context.Context, ref Ref, seed func() T) (snapshot T, meta Meta, seeded bool, err error) {
	var zero T
	if r.Store == nil {
		return zero, Meta{}, false, fmt.Errorf("state: store is required")
	}
	if seed == nil {
		return zero, Meta{}, false, fmt.Errorf("state: seed is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return zero, Meta{}, false, err
	}

	snapshot, meta, ok, err := r.Store.Load(ctx, ref)
	switch {
	case errors.Is(err, ErrUnreadable):
		return seed(), Meta{}, true, nil
	case err != nil:
		return zero, Meta{}, false, fmt.Errorf("state: load %q: %w", ref.Key, err)
	case !ok:
		return seed(), Meta{}, true, nil
	}
	return snapshot, meta, false, nil
}

// Commit overwrites the snapshot stored under ref.
func (r Resolver[T]) Commit(ctx context.Context, ref Ref, snapshot T) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}
	meta, err := r.Store.Save(ctx, ref, snapshot, Meta{UpdatedAt: time.Now().UTC()})
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %q: %w", ref.Key, err)
	}
	return meta, nil
}
