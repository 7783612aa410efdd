package config

import (
	"fmt"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/logging"
	"github.com/goliatone/go-inventory/pkg/state"
)

// Ref returns the storage reference.
func (c Config) Ref() state.Ref {
	return state.Ref{Namespace: c.Storage.Namespace, Key: c.Storage.Key}
}

// KeyValue opens the backing key-value store for the configured driver.
func (c Config) KeyValue() (state.KeyValue, error) {
	switch c.Storage.Driver {
	case DriverFile:
		return state.NewFileKV(c.Storage.Dir)
	case DriverMemory, "":
		return state.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
}

// Messages applies the notification overrides to the default presets.
func (c Config) Messages() inventory.Messages {
	m := inventory.DefaultMessages()
	n := c.Notifications
	if n.Position != "" {
		m.Added.Position = n.Position
		m.Saved.Position = n.Position
		m.Deleted.Position = n.Position
	}
	if n.AddDuration.Duration > 0 {
		m.Added.Duration = n.AddDuration.Duration
	}
	if n.SaveDuration.Duration > 0 {
		m.Saved.Duration = n.SaveDuration.Duration
	}
	if n.DeleteDuration.Duration > 0 {
		m.Deleted.Duration = n.DeleteDuration.Duration
	}
	return m
}

// EditorOptions translates the settings into editor options. Collaborators
// such as the notifier and confirmer are left to the caller.
func (c Config) EditorOptions() ([]inventory.Option, error) {
	kv, err := c.KeyValue()
	if err != nil {
		return nil, err
	}
	opts := []inventory.Option{
		inventory.WithStore(state.NewJSONStore[[]inventory.Item](kv)),
		inventory.WithStorageRef(c.Ref()),
		inventory.WithIDAllocator(inventory.NewIDAllocator(c.IDs.Policy)),
		inventory.WithMessages(c.Messages()),
		inventory.WithRuleEngine(c.Rules.Engine),
	}
	if c.Activity.Channel != "" {
		opts = append(opts, inventory.WithActivityChannel(c.Activity.Channel))
	}
	if c.Activity.Actor != "" {
		opts = append(opts, inventory.WithActor(c.Activity.Actor))
	}
	return opts, nil
}

// Logging returns the logger settings for profile with the log section
// applied on top.
func (c Config) Logging(profile logging.Profile) logging.Config {
	cfg := logging.DefaultConfig(profile)
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		cfg.Level = lvl
	}
	cfg.NoColor = c.Log.NoColor
	cfg.Timestamp = c.Log.Timestamp
	cfg.JSON = c.Log.JSON
	return cfg
}
