package notify

import (
	"context"
	"sync"
	"time"

	inventory "github.com/goliatone/go-inventory"
)

// DefaultToastDuration applies to notifications without a duration.
const DefaultToastDuration = 2 * time.Second

// Toast is a queued notification.
type Toast struct {
	ID           int
	Notification inventory.Notification
	Expires      time.Time
}

// Queue holds toasts until they expire. It is safe for concurrent use and
// never blocks the caller of Notify.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	max    int
	now    func() time.Time
}

var _ inventory.Notifier = (*Queue)(nil)

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		q.now = now
	}
}

// WithLimit keeps at most n toasts, dropping the oldest.
func WithLimit(n int) QueueOption {
	return func(q *Queue) {
		q.max = n
	}
}

// NewQueue builds an empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{now: time.Now, max: 5}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Notify implements inventory.Notifier.
func (q *Queue) Notify(_ context.Context, n inventory.Notification) {
	d := n.Duration
	if d <= 0 {
		d = DefaultToastDuration
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.toasts = append(q.toasts, Toast{ID: q.nextID, Notification: n, Expires: q.now().Add(d)})
	if q.max > 0 && len(q.toasts) > q.max {
		q.toasts = append([]Toast(nil), q.toasts[len(q.toasts)-q.max:]...)
	}
}

// Active drops expired toasts and returns the rest, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes the toast with id.
func (q *Queue) Dismiss(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

// Len returns the number of queued toasts, expired or not.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}
