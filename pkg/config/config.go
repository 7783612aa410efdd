// Package config loads inventory settings from defaults, an optional TOML
// file and INVENTORY_* environment variables, strongest last.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/logging"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
)

// Config is the full settings tree.
type Config struct {
	Storage       Storage       `json:"storage"`
	Notifications Notifications `json:"notifications"`
	IDs           IDs           `json:"ids"`
	Rules         Rules         `json:"rules"`
	Log           Log           `json:"log"`
	Activity      Activity      `json:"activity"`

	sources map[string]string
}

type Storage struct {
	Driver    string `json:"driver"`
	Dir       string `json:"dir"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

// Notifications overrides the toast presets. Empty values keep the preset.
type Notifications struct {
	Position       string   `json:"position"`
	AddDuration    Duration `json:"add_duration"`
	SaveDuration   Duration `json:"save_duration"`
	DeleteDuration Duration `json:"delete_duration"`
}

type IDs struct {
	Policy string `json:"policy"`
}

type Rules struct {
	Engine string `json:"engine"`
}

type Log struct {
	Level     string `json:"level"`
	NoColor   bool   `json:"no_color"`
	Timestamp bool   `json:"timestamp"`
	JSON      bool   `json:"json"`
}

type Activity struct {
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
	Actor   string `json:"actor"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver: DriverMemory,
			Dir:    ".inventory",
			Key:    inventory.DefaultStorageKey,
		},
		IDs:   IDs{Policy: inventory.IDPolicySequence},
		Rules: Rules{Engine: inventory.EngineExpr},
		Log: Log{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Sources maps dotted keys such as "storage.driver" to the layer that
// supplied them ("defaults", "file:<path>", "env").
func (c Config) Sources() map[string]string {
	out := make(map[string]string, len(c.sources))
	for k, v := range c.sources {
		out[k] = v
	}
	return out
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Storage.Dir) == "" {
			return fmt.Errorf("config: storage.dir is required for the file driver")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("config: storage.key must not be empty")
	}
	switch c.IDs.Policy {
	case inventory.IDPolicySequence, inventory.IDPolicyLength:
	default:
		return fmt.Errorf("config: unknown ids.policy %q", c.IDs.Policy)
	}
	switch c.Rules.Engine {
	case inventory.EngineExpr, inventory.EngineCEL, inventory.EngineJS:
	default:
		return fmt.Errorf("config: unknown rules.engine %q", c.Rules.Engine)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	for key, d := range map[string]Duration{
		"notifications.add_duration":    c.Notifications.AddDuration,
		"notifications.save_duration":   c.Notifications.SaveDuration,
		"notifications.delete_duration": c.Notifications.DeleteDuration,
	} {
		if d.Duration < 0 {
			return fmt.Errorf("config: %s must not be negative", key)
		}
	}
	return nil
}

// Duration accepts "2s" style strings or a number of milliseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		return d.parse(text)
	}
	ms, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", raw)
	}
	d.Duration = time.Duration(ms * float64(time.Millisecond))
	return nil
}

func (d *Duration) parse(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		d.Duration = 0
		return nil
	}
	if ms, err := strconv.ParseFloat(text, 64); err == nil {
		d.Duration = time.Duration(ms * float64(time.Millisecond))
		return nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q", text)
	}
	d.Duration = parsed
	return nil
}
