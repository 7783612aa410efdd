package logging

import (
	"context"

	"github.com/rs/zerolog"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/activity"
)

// Adapter writes editor and evaluator events to a zerolog logger. Failures
// log at error level, everything else at debug.
type Adapter struct {
	log zerolog.Logger
}

var (
	_ inventory.OperationLogger = (*Adapter)(nil)
	_ inventory.EvaluatorLogger = (*Adapter)(nil)
)

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{log: logger}
}

func (a *Adapter) LogOperation(event inventory.OperationLogEvent) {
	e := a.log.Debug()
	if event.Err != nil {
		e = a.log.Error().Err(event.Err)
	}
	e = e.Str("op", event.Op).Dur("duration", event.Duration)
	if event.ItemID != 0 {
		e = e.Int("item_id", event.ItemID)
	}
	if event.Items != 0 {
		e = e.Int("items", event.Items)
	}
	e.Msg("inventory operation")
}

func (a *Adapter) LogEvaluation(event inventory.EvaluatorLogEvent) {
	e := a.log.Debug()
	if event.Err != nil {
		e = a.log.Error().Err(event.Err)
	}
	e.Str("engine", event.Engine).
		Str("expr", event.Expr).
		Str("scope", event.Scope).
		Dur("duration", event.Duration).
		Msg("rule evaluation")
}

// ActivityHook returns a hook that logs every activity event at info level.
func ActivityHook(logger zerolog.Logger) activity.HookFunc {
	return func(_ context.Context, event activity.Event) error {
		logger.Info().
			Str("verb", event.Verb).
			Str("object_type", event.ObjectType).
			Str("object_id", event.ObjectID).
			Str("channel", event.Channel).
			Str("actor_id", event.ActorID).
			Fields(event.Metadata).
			Msg("inventory activity")
		return nil
	}
}
