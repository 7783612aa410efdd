package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JSONStore adapts a KeyValue into a Store by JSON encoding snapshots. Only
// the snapshot is written; Meta is derived (ETag from content, SnapshotID per
// save) and never persisted.
type JSONStore[T any] struct {
	KV KeyValue
}

// NewJSONStore wraps kv.
func NewJSONStore[T any](kv KeyValue) *JSONStore[T] {
	return &JSONStore[T]{KV: kv}
}

func (s *JSONStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}
	if s.KV == nil {
		return zero, Meta{}, false, fmt.Errorf("state: key-value store is required")
	}
	raw, ok, err := s.KV.Get(ctx, key)
	if err != nil || !ok {
		return zero, Meta{}, false, err
	}
	// A stored null holds no snapshot, the same as an absent key.
	if trimmed := strings.TrimSpace(raw); trimmed == "" || trimmed == "null" {
		return zero, Meta{}, false, nil
	}

	var snapshot T
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return zero, Meta{}, false, fmt.Errorf("%w: key %q: %v", ErrUnreadable, key, err)
	}
	return snapshot, Meta{ETag: etag([]byte(raw))}, true, nil
}

func (s *JSONStore[T]) Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if s.KV == nil {
		return Meta{}, fmt.Errorf("state: key-value store is required")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode %q: %w", key, err)
	}
	if err := s.KV.Set(ctx, key, string(raw)); err != nil {
		return Meta{}, err
	}

	out := meta
	if out.SnapshotID == "" {
		out.SnapshotID = uuid.NewString()
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now().UTC()
	}
	out.ETag = etag(raw)
	return out, nil
}

func etag(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
