package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-inventory/pkg/activity"
	"github.com/goliatone/go-inventory/pkg/state"
)

// Editor owns the inventory list and the single optional edit session. Add,
// Save and Delete commit the whole list to the store; BeginEdit,
// UpdateField and Cancel never touch storage.
//
// All methods are safe for concurrent use. Delete releases the lock while
// the confirmer is pending, so other operations may run before it resumes.
type Editor struct {
	mu      sync.Mutex
	items   []Item
	session *EditSession
	meta    state.Meta
	seeded  bool

	cfg      editorConfig
	resolver state.Resolver[[]Item]
	emitter  *activity.Emitter

	evalOnce  sync.Once
	evaluator Evaluator
	evalErr   error
}

// NewEditor loads the inventory from the configured store, falling back to
// the seed rows when nothing readable is stored. Seeding does not write.
func NewEditor(ctx context.Context, opts ...Option) (*Editor, error) {
	cfg := applyOptions(opts)
	e := &Editor{
		cfg:      cfg,
		resolver: state.Resolver[[]Item]{Store: cfg.store},
		emitter:  activity.NewEmitter(cfg.activityHooks, activity.Config{Enabled: true, Channel: cfg.channel}),
	}

	start := time.Now()
	items, meta, seeded, err := e.resolver.LoadOrSeed(ctx, cfg.ref, cfg.seed)
	if err != nil {
		err = wrapOperationError("load", 0, err)
		e.logOp("load", 0, 0, start, err)
		return nil, err
	}
	e.items = cloneItems(items)
	e.meta = meta
	e.seeded = seeded
	cfg.ids.Reset(e.items)
	e.logOp("load", 0, len(e.items), start, nil)
	return e, nil
}

// Items returns a copy of the rows in display order.
func (e *Editor) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := cloneItems(e.items)
	if out == nil {
		out = []Item{}
	}
	return out
}

// Len returns the number of rows.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Item returns the row with id.
func (e *Editor) Item(id int) (Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := indexOf(e.items, id)
	if idx < 0 {
		return Item{}, false
	}
	return e.items[idx], true
}

// Session returns a copy of the active edit session.
func (e *Editor) Session() (EditSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return EditSession{}, false
	}
	return *e.session, true
}

// Editing reports whether rows with id are in edit mode. At most one id
// answers true at any time; rows sharing that id edit together.
func (e *Editor) Editing(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil && e.session.TargetID == id
}

// Seeded reports whether the list came from the seed rather than storage.
func (e *Editor) Seeded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seeded
}

// Meta returns the metadata of the last load or commit.
func (e *Editor) Meta() state.Meta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meta
}

// Add appends a placeholder row, commits, and fires the "added" toast.
func (e *Editor) Add(ctx context.Context) (Item, error) {
	start := time.Now()

	e.mu.Lock()
	item := NewItem(e.cfg.ids.Next(e.items))
	e.items = append(e.items, item)
	position := len(e.items) - 1
	count := len(e.items)
	err := e.commitLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		err = wrapOperationError("add", item.ID, err)
		e.logOp("add", item.ID, count, start, err)
		return item, err
	}
	e.cfg.notifier.Notify(ctx, e.cfg.messages.Added)
	e.emit(ctx, activity.BuildItemAddedEvent(e.eventInput(item, nil, position)))
	e.logOp("add", item.ID, count, start, nil)
	return item, nil
}

// BeginEdit opens an edit session on the row with id. Any session already
// open is dropped without committing its scratch values.
func (e *Editor) BeginEdit(id int) error {
	start := time.Now()
	e.mu.Lock()
	idx := indexOf(e.items, id)
	if idx < 0 {
		e.mu.Unlock()
		err := wrapOperationError("begin_edit", id, ErrItemNotFound)
		e.logOp("begin_edit", id, 0, start, err)
		return err
	}
	e.session = newEditSession(e.items[idx])
	e.mu.Unlock()
	e.logOp("begin_edit", id, 0, start, nil)
	return nil
}

// UpdateField changes one scratch value of the active session. Stock typed
// by the user is kept as text.
func (e *Editor) UpdateField(field Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return wrapOperationError("update_field", 0, ErrNoActiveEdit)
	}
	switch field {
	case FieldName:
		e.session.Name = value
	case FieldStock:
		e.session.Stock = StockText(value)
	case FieldPrice:
		e.session.Price = value
	default:
		return wrapOperationError("update_field", e.session.TargetID, ErrUnknownField)
	}
	return nil
}

// Save writes the scratch values into every row carrying the target id,
// closes the session, commits, and fires the "saved" toast. It returns the
// first updated row.
func (e *Editor) Save(ctx context.Context) (Item, error) {
	start := time.Now()

	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		err := wrapOperationError("save", 0, ErrNoActiveEdit)
		e.logOp("save", 0, 0, start, err)
		return Item{}, err
	}
	session := *e.session
	positions := indexesOf(e.items, session.TargetID)
	if len(positions) == 0 {
		e.session = nil
		e.mu.Unlock()
		err := wrapOperationError("save", session.TargetID, ErrItemNotFound)
		e.logOp("save", session.TargetID, 0, start, err)
		return Item{}, err
	}
	changes := make([]rowChange, 0, len(positions))
	for _, idx := range positions {
		previous := e.items[idx]
		e.items[idx] = session.apply(previous)
		changes = append(changes, rowChange{before: previous, after: e.items[idx], position: idx})
	}
	e.session = nil
	count := len(e.items)
	err := e.commitLocked(ctx)
	e.mu.Unlock()

	updated := changes[0].after
	if err != nil {
		err = wrapOperationError("save", updated.ID, err)
		e.logOp("save", updated.ID, count, start, err)
		return updated, err
	}
	e.cfg.notifier.Notify(ctx, e.cfg.messages.Saved)
	for _, c := range changes {
		previous := c.before
		e.emit(ctx, activity.BuildItemUpdatedEvent(e.eventInput(c.after, &previous, c.position)))
	}
	e.logOp("save", updated.ID, count, start, nil)
	return updated, nil
}

// Cancel drops the active session without touching the list.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return wrapOperationError("cancel", 0, ErrNoActiveEdit)
	}
	e.session = nil
	return nil
}

// Delete asks the confirmer before removing the row with id, together with
// any other row sharing that id. It returns true when rows were removed. A
// declined prompt changes nothing and fires no toast.
func (e *Editor) Delete(ctx context.Context, id int) (bool, error) {
	start := time.Now()

	e.mu.Lock()
	idx := indexOf(e.items, id)
	if idx < 0 {
		e.mu.Unlock()
		err := wrapOperationError("delete", id, ErrItemNotFound)
		e.logOp("delete", id, 0, start, err)
		return false, err
	}
	target := e.items[idx]
	e.mu.Unlock()

	confirmed, err := e.cfg.confirmer.Confirm(ctx, e.cfg.messages.confirmDelete(target.Name))
	if err != nil {
		err = wrapOperationError("delete", id, err)
		e.logOp("delete", id, 0, start, err)
		return false, err
	}
	if !confirmed {
		e.logOp("delete_declined", id, 0, start, nil)
		return false, nil
	}

	e.mu.Lock()
	next := make([]Item, 0, len(e.items))
	var removed []rowChange
	for i, item := range e.items {
		if item.ID == id {
			removed = append(removed, rowChange{before: item, position: i})
			continue
		}
		next = append(next, item)
	}
	if len(removed) == 0 {
		e.mu.Unlock()
		err := wrapOperationError("delete", id, ErrItemNotFound)
		e.logOp("delete", id, 0, start, err)
		return false, err
	}
	e.items = next
	if e.session != nil && e.session.TargetID == id {
		e.session = nil
	}
	count := len(e.items)
	err = e.commitLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		err = wrapOperationError("delete", id, err)
		e.logOp("delete", id, count, start, err)
		return true, err
	}
	e.cfg.notifier.Notify(ctx, e.cfg.messages.deleted(removed[0].before.Name))
	for _, r := range removed {
		e.emit(ctx, activity.BuildItemDeletedEvent(e.eventInput(r.before, nil, r.position)))
	}
	e.logOp("delete", id, count, start, nil)
	return true, nil
}

// rowChange records one row touched by a commit and where it sat.
type rowChange struct {
	before   Item
	after    Item
	position int
}

// commitLocked writes the full list. Callers hold e.mu so commits land in
// mutation order.
func (e *Editor) commitLocked(ctx context.Context) error {
	meta, err := e.resolver.Commit(ctx, e.cfg.ref, cloneItems(e.items))
	if err != nil {
		return err
	}
	e.meta = meta
	e.seeded = false
	return nil
}

func (e *Editor) logOp(op string, id, items int, start time.Time, err error) {
	e.cfg.opLogger.LogOperation(OperationLogEvent{
		Op:       op,
		ItemID:   id,
		Items:    items,
		Duration: time.Since(start),
		Err:      err,
	})
}
