package inventory

import (
	"context"
	"time"

	"github.com/goliatone/go-inventory/pkg/activity"
)

// ActivityHooks returns a copy of the hooks configured on the editor.
func (e *Editor) ActivityHooks() activity.Hooks {
	if e == nil {
		return nil
	}
	return activity.CloneHooks(e.cfg.activityHooks)
}

func (e *Editor) eventInput(item Item, previous *Item, position int) activity.ItemEventInput {
	input := activity.ItemEventInput{
		ActorID:    e.cfg.actorID,
		Channel:    e.cfg.channel,
		Item:       snapshotOf(item),
		Position:   position,
		OccurredAt: time.Now(),
	}
	if previous != nil {
		prev := snapshotOf(*previous)
		input.Previous = &prev
	}
	return input
}

// emit delivers event to the hooks. Hook failures are logged and never undo
// the committed change.
func (e *Editor) emit(ctx context.Context, event activity.Event) {
	if !e.emitter.Enabled() {
		return
	}
	start := time.Now()
	if err := e.emitter.Emit(ctx, event); err != nil {
		e.cfg.opLogger.LogOperation(OperationLogEvent{
			Op:       "activity",
			Duration: time.Since(start),
			Err:      wrapOperationError("activity", 0, err),
		})
	}
}

func snapshotOf(item Item) activity.ItemSnapshot {
	return activity.ItemSnapshot{
		ID:    item.ID,
		Name:  item.Name,
		Stock: item.Stock.JSONValue(),
		Price: item.Price,
	}
}
