package inventory_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/activity"
	"github.com/goliatone/go-inventory/pkg/state"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []inventory.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n inventory.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Message)
	}
	return out
}

type scriptedConfirmer struct {
	answer  bool
	err     error
	prompts []inventory.Confirmation
}

func (s *scriptedConfirmer) Confirm(_ context.Context, c inventory.Confirmation) (bool, error) {
	s.prompts = append(s.prompts, c)
	return s.answer, s.err
}

type failingStore struct {
	state.Store[[]inventory.Item]
	err error
}

func (f failingStore) Save(context.Context, state.Ref, []inventory.Item, state.Meta) (state.Meta, error) {
	return state.Meta{}, f.err
}

func newTestEditor(t *testing.T, opts ...inventory.Option) *inventory.Editor {
	t.Helper()
	ed, err := inventory.NewEditor(context.Background(), opts...)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	return ed
}

func ids(items []inventory.Item) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestNewEditorSeedsWithoutWriting(t *testing.T) {
	kv := state.NewMemoryKV()
	ed := newTestEditor(t, inventory.WithStore(state.NewJSONStore[[]inventory.Item](kv)))

	if !reflect.DeepEqual(ed.Items(), inventory.SeedItems()) {
		t.Fatalf("expected seed rows, got %+v", ed.Items())
	}
	if !ed.Seeded() {
		t.Fatalf("expected seeded editor")
	}
	if keys := kv.Keys(); len(keys) != 0 {
		t.Fatalf("seeding must not write, found keys %v", keys)
	}
}

func TestNewEditorLoadsStoredPayload(t *testing.T) {
	kv := state.NewMemoryKV()
	if err := kv.Set(context.Background(), "data", `[{"id":7,"name":"Kopi","stock":"3","price":"Rp 12.000"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	ed := newTestEditor(t, inventory.WithStore(state.NewJSONStore[[]inventory.Item](kv)))

	items := ed.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(items))
	}
	got := items[0]
	if got.ID != 7 || got.Name != "Kopi" || got.Price != "Rp 12.000" {
		t.Fatalf("unexpected row %+v", got)
	}
	if got.Stock != inventory.StockText("3") {
		t.Fatalf("expected text stock to survive load, got %#v", got.Stock)
	}
	if ed.Seeded() {
		t.Fatalf("stored payload must not count as seeded")
	}
}

func TestNewEditorFallsBackOnUnreadablePayload(t *testing.T) {
	kv := state.NewMemoryKV()
	_ = kv.Set(context.Background(), "data", `{not json`)
	ed := newTestEditor(t, inventory.WithStore(state.NewJSONStore[[]inventory.Item](kv)))

	if !reflect.DeepEqual(ed.Items(), inventory.SeedItems()) {
		t.Fatalf("expected seed rows, got %+v", ed.Items())
	}
}

func TestEditorScenario(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemoryKV()
	notes := &recordingNotifier{}
	confirm := &scriptedConfirmer{answer: true}
	ed := newTestEditor(t,
		inventory.WithStore(state.NewJSONStore[[]inventory.Item](kv)),
		inventory.WithNotifier(notes),
		inventory.WithConfirmer(confirm),
	)

	added, err := ed.Add(ctx)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if want := inventory.NewItem(4); added != want {
		t.Fatalf("expected %+v, got %+v", want, added)
	}

	if err := ed.BeginEdit(2); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := ed.UpdateField(inventory.FieldStock, "8"); err != nil {
		t.Fatalf("update field: %v", err)
	}
	saved, err := ed.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	want := inventory.Item{ID: 2, Name: "Barang B", Stock: inventory.StockText("8"), Price: "Rp 0"}
	if saved != want {
		t.Fatalf("expected %+v, got %+v", want, saved)
	}
	if _, ok := ed.Session(); ok {
		t.Fatalf("save must close the session")
	}

	removed, err := ed.Delete(ctx, 1)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	if got := ids(ed.Items()); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Fatalf("unexpected order %v", got)
	}

	if len(confirm.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(confirm.prompts))
	}
	prompt := confirm.prompts[0]
	if prompt.Title != "Apakah Anda yakin?" || prompt.Text != " Barang A akan dihapus secara permanen!" {
		t.Fatalf("unexpected prompt %+v", prompt)
	}
	if prompt.ConfirmLabel != "Hapus" || prompt.CancelLabel != "Batal" {
		t.Fatalf("unexpected prompt labels %+v", prompt)
	}

	wantNotes := []string{"Barang berhasil ditambahkan", "Data berhasil disimpan", "Barang A telah dihapus"}
	if got := notes.messages(); !reflect.DeepEqual(got, wantNotes) {
		t.Fatalf("expected notifications %v, got %v", wantNotes, got)
	}

	raw, ok, err := kv.Get(ctx, "data")
	if err != nil || !ok {
		t.Fatalf("expected stored payload, ok=%v err=%v", ok, err)
	}
	wantRaw := `[{"id":2,"name":"Barang B","stock":"8","price":"Rp 0"},{"id":3,"name":"Barang C","stock":2,"price":"Rp 0"},{"id":4,"name":"Barang Baru","stock":0,"price":"Rp"}]`
	if raw != wantRaw {
		t.Fatalf("unexpected payload\nwant %s\n got %s", wantRaw, raw)
	}
}

func TestEditorPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemoryKV()
	store := state.NewJSONStore[[]inventory.Item](kv)
	ed := newTestEditor(t, inventory.WithStore(store))

	if _, err := ed.Add(ctx); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = ed.BeginEdit(4)
	_ = ed.UpdateField(inventory.FieldName, "Gula")
	_ = ed.UpdateField(inventory.FieldPrice, "Rp 15.000")
	if _, err := ed.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := newTestEditor(t, inventory.WithStore(store))
	if !reflect.DeepEqual(reloaded.Items(), ed.Items()) {
		t.Fatalf("reload mismatch\nwant %+v\n got %+v", ed.Items(), reloaded.Items())
	}
	if reloaded.Seeded() {
		t.Fatalf("reloaded editor must not be seeded")
	}
	if next, err := reloaded.Add(ctx); err != nil || next.ID != 5 {
		t.Fatalf("expected id 5 after reload, got %d err=%v", next.ID, err)
	}
}

func TestEditorDeclinedDeleteChangesNothing(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[[]inventory.Item]()
	notes := &recordingNotifier{}
	ed := newTestEditor(t,
		inventory.WithStore(store),
		inventory.WithNotifier(notes),
		inventory.WithConfirmer(&scriptedConfirmer{answer: false}),
	)
	before := ed.Items()

	removed, err := ed.Delete(ctx, 2)
	if err != nil || removed {
		t.Fatalf("expected declined delete, removed=%v err=%v", removed, err)
	}
	if !reflect.DeepEqual(ed.Items(), before) {
		t.Fatalf("declined delete mutated the list")
	}
	if store.Saves() != 0 {
		t.Fatalf("declined delete must not commit, saves=%d", store.Saves())
	}
	if got := notes.messages(); len(got) != 0 {
		t.Fatalf("declined delete must not notify, got %v", got)
	}
}

func TestEditorDefaultConfirmerDeclines(t *testing.T) {
	ed := newTestEditor(t)
	removed, err := ed.Delete(context.Background(), 1)
	if err != nil || removed {
		t.Fatalf("expected default confirmer to decline, removed=%v err=%v", removed, err)
	}
	if ed.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", ed.Len())
	}
}

func TestEditorCancelRestoresRow(t *testing.T) {
	store := state.NewMemoryStore[[]inventory.Item]()
	ed := newTestEditor(t, inventory.WithStore(store))
	before := ed.Items()

	if err := ed.BeginEdit(3); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	_ = ed.UpdateField(inventory.FieldName, "Diubah")
	_ = ed.UpdateField(inventory.FieldStock, "99")
	_ = ed.UpdateField(inventory.FieldPrice, "Rp 1")
	if err := ed.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if !reflect.DeepEqual(ed.Items(), before) {
		t.Fatalf("cancel changed rows: %+v", ed.Items())
	}
	if ed.Editing(3) {
		t.Fatalf("cancel must end edit mode")
	}
	if store.Saves() != 0 {
		t.Fatalf("edit and cancel must not commit, saves=%d", store.Saves())
	}
}

func TestEditorSingleEditSession(t *testing.T) {
	ed := newTestEditor(t)

	_ = ed.BeginEdit(1)
	_ = ed.UpdateField(inventory.FieldName, "scratch")
	if err := ed.BeginEdit(2); err != nil {
		t.Fatalf("begin edit: %v", err)
	}

	if ed.Editing(1) || !ed.Editing(2) {
		t.Fatalf("expected only row 2 in edit mode")
	}
	session, ok := ed.Session()
	if !ok || session.TargetID != 2 || session.Name != "Barang B" {
		t.Fatalf("unexpected session %+v ok=%v", session, ok)
	}
	if item, _ := ed.Item(1); item.Name != "Barang A" {
		t.Fatalf("abandoned scratch leaked into row 1: %+v", item)
	}
}

func TestEditorPreconditionErrors(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[[]inventory.Item]()
	ed := newTestEditor(t, inventory.WithStore(store), inventory.WithConfirmer(&scriptedConfirmer{answer: true}))
	before := ed.Items()

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"begin edit missing", func() error { return ed.BeginEdit(99) }, inventory.ErrItemNotFound},
		{"update without session", func() error { return ed.UpdateField(inventory.FieldName, "x") }, inventory.ErrNoActiveEdit},
		{"save without session", func() error { _, err := ed.Save(ctx); return err }, inventory.ErrNoActiveEdit},
		{"cancel without session", func() error { return ed.Cancel() }, inventory.ErrNoActiveEdit},
		{"delete missing", func() error { _, err := ed.Delete(ctx, 99); return err }, inventory.ErrItemNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var opErr *inventory.OperationError
			if !errors.As(err, &opErr) {
				t.Fatalf("expected OperationError, got %T", err)
			}
		})
	}

	if !reflect.DeepEqual(ed.Items(), before) {
		t.Fatalf("failed preconditions mutated the list")
	}
	if store.Saves() != 0 {
		t.Fatalf("failed preconditions committed %d times", store.Saves())
	}
}

func TestEditorUnknownFieldKeepsSession(t *testing.T) {
	ed := newTestEditor(t)
	_ = ed.BeginEdit(1)

	err := ed.UpdateField(inventory.Field("id"), "5")
	if !errors.Is(err, inventory.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	session, ok := ed.Session()
	if !ok || session.TargetID != 1 || session.Name != "Barang A" {
		t.Fatalf("session should be untouched, got %+v ok=%v", session, ok)
	}
}

func TestEditorAddIDsFromSeed(t *testing.T) {
	for _, tc := range []struct {
		name string
		ids  inventory.IDAllocator
	}{
		{"sequence", &inventory.SequenceIDs{}},
		{"length", inventory.LengthIDs{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ed := newTestEditor(t, inventory.WithIDAllocator(tc.ids))
			for want := 4; want <= 6; want++ {
				item, err := ed.Add(context.Background())
				if err != nil {
					t.Fatalf("add: %v", err)
				}
				if item.ID != want {
					t.Fatalf("expected id %d, got %d", want, item.ID)
				}
			}
		})
	}
}

func TestEditorIDsAfterDelete(t *testing.T) {
	ctx := context.Background()
	yes := inventory.WithConfirmer(&scriptedConfirmer{answer: true})

	seq := newTestEditor(t, yes)
	if _, err := seq.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	item, _ := seq.Add(ctx)
	if item.ID != 4 {
		t.Fatalf("sequence ids should continue past the max, got %d", item.ID)
	}

	legacy := newTestEditor(t, yes, inventory.WithIDAllocator(inventory.LengthIDs{}))
	if _, err := legacy.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	item, _ = legacy.Add(ctx)
	if item.ID != 3 {
		t.Fatalf("length ids should repeat id 3, got %d", item.ID)
	}
	if got := ids(legacy.Items()); !reflect.DeepEqual(got, []int{2, 3, 3}) {
		t.Fatalf("unexpected ids %v", got)
	}

	// Rows sharing an id are one logical item: save and delete reach all of them.
	if err := legacy.BeginEdit(3); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := legacy.UpdateField(inventory.FieldName, "X"); err != nil {
		t.Fatalf("update: %v", err)
	}
	saved, err := legacy.Save(ctx)
	if err != nil || saved.ID != 3 || saved.Name != "X" {
		t.Fatalf("save = %+v, %v", saved, err)
	}
	var names []string
	for _, it := range legacy.Items() {
		names = append(names, it.Name)
	}
	if !reflect.DeepEqual(names, []string{"Barang B", "X", "X"}) {
		t.Fatalf("unexpected names after save %v", names)
	}

	removed, err := legacy.Delete(ctx, 3)
	if err != nil || !removed {
		t.Fatalf("delete = %v, %v", removed, err)
	}
	if got := ids(legacy.Items()); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("unexpected ids after delete %v", got)
	}
}

func TestEditorCommitFailureKeepsMutation(t *testing.T) {
	boom := errors.New("disk full")
	notes := &recordingNotifier{}
	var logged []inventory.OperationLogEvent
	ed := newTestEditor(t,
		inventory.WithStore(failingStore{Store: state.NewMemoryStore[[]inventory.Item](), err: boom}),
		inventory.WithNotifier(notes),
		inventory.WithOperationLogger(inventory.OperationLoggerFunc(func(e inventory.OperationLogEvent) {
			logged = append(logged, e)
		})),
	)

	item, err := ed.Add(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	var opErr *inventory.OperationError
	if !errors.As(err, &opErr) || opErr.Op != "add" || opErr.ItemID != 4 {
		t.Fatalf("unexpected error metadata %+v", opErr)
	}
	if _, ok := ed.Item(item.ID); !ok {
		t.Fatalf("mutation should stand after commit failure")
	}
	if got := notes.messages(); len(got) != 0 {
		t.Fatalf("failed commit must not notify, got %v", got)
	}
	last := logged[len(logged)-1]
	if last.Op != "add" || !errors.Is(last.Err, boom) {
		t.Fatalf("expected failure to be logged, got %+v", last)
	}
}

func TestEditorDeleteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ed := newTestEditor(t, inventory.WithConfirmer(inventory.ConfirmerFunc(func(ctx context.Context, _ inventory.Confirmation) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})))

	removed, err := ed.Delete(ctx, 1)
	if removed || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled delete, removed=%v err=%v", removed, err)
	}
	if ed.Len() != 3 {
		t.Fatalf("cancelled delete removed a row")
	}
}

func TestEditorDeleteRowVanishedWhileConfirming(t *testing.T) {
	ctx := context.Background()
	var ed *inventory.Editor
	nested := false
	ed = newTestEditor(t, inventory.WithConfirmer(inventory.ConfirmerFunc(func(ctx context.Context, _ inventory.Confirmation) (bool, error) {
		if !nested {
			nested = true
			if _, err := ed.Delete(ctx, 2); err != nil {
				return false, err
			}
		}
		return true, nil
	})))

	removed, err := ed.Delete(ctx, 2)
	if removed || !errors.Is(err, inventory.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, removed=%v err=%v", removed, err)
	}
	if got := ids(ed.Items()); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestEditorDeleteEditedRowClosesSession(t *testing.T) {
	ed := newTestEditor(t, inventory.WithConfirmer(&scriptedConfirmer{answer: true}))
	_ = ed.BeginEdit(2)

	if _, err := ed.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := ed.Session(); ok {
		t.Fatalf("deleting the edited row should close the session")
	}
}

func TestEditorEmitsActivity(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	ed := newTestEditor(t,
		inventory.WithConfirmer(&scriptedConfirmer{answer: true}),
		inventory.WithActivityHooks(activity.Hooks{capture}),
		inventory.WithActor("kasir-1"),
	)

	_, _ = ed.Add(ctx)
	_ = ed.BeginEdit(1)
	_ = ed.UpdateField(inventory.FieldStock, "12")
	_, _ = ed.Save(ctx)
	_, _ = ed.Delete(ctx, 3)

	want := []string{activity.VerbItemAdded, activity.VerbItemUpdated, activity.VerbItemDeleted}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected verbs %v, got %v", want, got)
	}
	updated := capture.Events[1]
	if updated.ObjectID != "1" || updated.ActorID != "kasir-1" || updated.Channel != activity.DefaultChannel {
		t.Fatalf("unexpected event %+v", updated)
	}
	if updated.Metadata["stock"] != "12" || updated.Metadata["old_stock"] != float64(10) {
		t.Fatalf("unexpected metadata %+v", updated.Metadata)
	}
}

func TestEditorActivityFailureDoesNotUndoCommit(t *testing.T) {
	capture := &activity.CaptureHook{Err: errors.New("sink down")}
	var logged []inventory.OperationLogEvent
	ed := newTestEditor(t,
		inventory.WithActivityHooks(activity.Hooks{capture}),
		inventory.WithOperationLogger(inventory.OperationLoggerFunc(func(e inventory.OperationLogEvent) {
			logged = append(logged, e)
		})),
	)

	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("add should succeed despite hook failure: %v", err)
	}
	found := false
	for _, e := range logged {
		if e.Op == "activity" && e.Err != nil {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected hook failure to be logged, got %+v", logged)
	}
}

func TestEditorConcurrentAdds(t *testing.T) {
	ed := newTestEditor(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ed.Add(context.Background()); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, item := range ed.Items() {
		if seen[item.ID] {
			t.Fatalf("duplicate id %d", item.ID)
		}
		seen[item.ID] = true
	}
	if ed.Len() != 23 {
		t.Fatalf("expected 23 rows, got %d", ed.Len())
	}
}
