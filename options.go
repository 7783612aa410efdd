package inventory

import (
	"github.com/goliatone/go-inventory/pkg/activity"
	"github.com/goliatone/go-inventory/pkg/state"
)

// DefaultStorageKey is the fixed key the inventory is stored under.
const DefaultStorageKey = "data"

// Option configures an Editor.
type Option func(*editorConfig)

type editorConfig struct {
	store         state.Store[[]Item]
	ref           state.Ref
	seed          func() []Item
	notifier      Notifier
	confirmer     Confirmer
	activityHooks activity.Hooks
	channel       string
	actorID       string
	opLogger      OperationLogger
	evalLogger    EvaluatorLogger
	ids           IDAllocator
	messages      *Messages
	evaluator     Evaluator
	engine        string
	programCache  ProgramCache
	functions     *FunctionRegistry
}

func applyOptions(opts []Option) editorConfig {
	cfg := editorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.store == nil {
		cfg.store = state.NewJSONStore[[]Item](state.NewMemoryKV())
	}
	if cfg.ref.Key == "" {
		cfg.ref.Key = DefaultStorageKey
	}
	if cfg.seed == nil {
		cfg.seed = SeedItems
	}
	if cfg.notifier == nil {
		cfg.notifier = noopNotifier{}
	}
	if cfg.confirmer == nil {
		cfg.confirmer = declineConfirmer{}
	}
	if cfg.opLogger == nil {
		cfg.opLogger = noopLogger{}
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = noopLogger{}
	}
	if cfg.ids == nil {
		cfg.ids = &SequenceIDs{}
	}
	if cfg.messages == nil {
		msgs := DefaultMessages()
		cfg.messages = &msgs
	}
	return cfg
}

// WithStore sets the snapshot store. Defaults to a JSON store over an
// in-memory key-value map.
func WithStore(store state.Store[[]Item]) Option {
	return func(cfg *editorConfig) {
		cfg.store = store
	}
}

// WithStorageRef sets the key the inventory is stored under.
func WithStorageRef(ref state.Ref) Option {
	return func(cfg *editorConfig) {
		cfg.ref = ref
	}
}

// WithSeed replaces the rows used when storage holds nothing readable.
func WithSeed(seed func() []Item) Option {
	return func(cfg *editorConfig) {
		cfg.seed = seed
	}
}

// WithNotifier sets the toast surface.
func WithNotifier(n Notifier) Option {
	return func(cfg *editorConfig) {
		cfg.notifier = n
	}
}

// WithConfirmer sets the delete confirmation surface. Without one every
// delete is declined.
func WithConfirmer(c Confirmer) Option {
	return func(cfg *editorConfig) {
		cfg.confirmer = c
	}
}

// WithActivityHooks attaches activity hooks fired after each commit.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *editorConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *editorConfig) {
		cfg.channel = channel
	}
}

// WithActor records actorID on every activity event.
func WithActor(actorID string) Option {
	return func(cfg *editorConfig) {
		cfg.actorID = actorID
	}
}

// WithOperationLogger attaches a logger for editor operations.
func WithOperationLogger(logger OperationLogger) Option {
	return func(cfg *editorConfig) {
		cfg.opLogger = logger
	}
}

// WithEvaluatorLogger attaches a logger for rule evaluations.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *editorConfig) {
		cfg.evalLogger = logger
	}
}

// WithIDAllocator replaces the default SequenceIDs allocator.
func WithIDAllocator(ids IDAllocator) Option {
	return func(cfg *editorConfig) {
		cfg.ids = ids
	}
}

// WithMessages replaces the notification and confirmation presets.
func WithMessages(m Messages) Option {
	return func(cfg *editorConfig) {
		cfg.messages = &m
	}
}

// WithEvaluator configures the engine used by Query.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *editorConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled program cache for Query.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *editorConfig) {
		cfg.programCache = cache
	}
}

// WithRuleEngine selects the Query engine by name (expr, cel or js) when no
// evaluator is set explicitly.
func WithRuleEngine(engine string) Option {
	return func(cfg *editorConfig) {
		cfg.engine = engine
	}
}
