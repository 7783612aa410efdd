package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/goliatone/go-inventory/internal/hydrate"
	"github.com/goliatone/go-inventory/layering"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "INVENTORY_"

type envKind int

const (
	envString envKind = iota
	envBool
)

type envBinding struct {
	name string
	path []string
	kind envKind
}

// envBindings lists the recognised variables. Log variables share names
// with pkg/logging so one export configures both.
var envBindings = []envBinding{
	{"STORAGE_DRIVER", []string{"storage", "driver"}, envString},
	{"STORAGE_DIR", []string{"storage", "dir"}, envString},
	{"STORAGE_NAMESPACE", []string{"storage", "namespace"}, envString},
	{"STORAGE_KEY", []string{"storage", "key"}, envString},
	{"NOTIFY_POSITION", []string{"notifications", "position"}, envString},
	{"NOTIFY_ADD_DURATION", []string{"notifications", "add_duration"}, envString},
	{"NOTIFY_SAVE_DURATION", []string{"notifications", "save_duration"}, envString},
	{"NOTIFY_DELETE_DURATION", []string{"notifications", "delete_duration"}, envString},
	{"ID_POLICY", []string{"ids", "policy"}, envString},
	{"RULES_ENGINE", []string{"rules", "engine"}, envString},
	{"LOG_LEVEL", []string{"log", "level"}, envString},
	{"LOG_NOCOLOR", []string{"log", "no_color"}, envBool},
	{"LOG_TIMESTAMP", []string{"log", "timestamp"}, envBool},
	{"LOG_JSON", []string{"log", "json"}, envBool},
	{"ACTIVITY_ENABLED", []string{"activity", "enabled"}, envBool},
	{"ACTIVITY_CHANNEL", []string{"activity", "channel"}, envString},
	{"ACTIVITY_ACTOR", []string{"activity", "actor"}, envString},
}

// Loader assembles a Config from its layers.
type Loader struct {
	// Path is an optional TOML file. A missing file is an error.
	Path string
	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
	// Overrides is the strongest layer, for flags set in code.
	Overrides map[string]any
}

// Load reads defaults, the TOML file at path (when not empty) and the
// environment.
func Load(path string) (Config, error) {
	return Loader{Path: path}.Load()
}

// Load merges the layers, decodes them and validates the result.
func (l Loader) Load() (Config, error) {
	defaults, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}
	layers := []layering.Layer{{Level: layering.SourceLevelDefaults, Values: defaults}}

	if l.Path != "" {
		values, err := readTOML(l.Path)
		if err != nil {
			return Config{}, err
		}
		layers = append(layers, layering.Layer{Level: layering.SourceLevelFile, Name: l.Path, Values: values})
	}

	env, err := readEnv(l.Lookup)
	if err != nil {
		return Config{}, err
	}
	if len(env) > 0 {
		layers = append(layers, layering.Layer{Level: layering.SourceLevelEnv, Values: env})
	}
	if len(l.Overrides) > 0 {
		overrides, err := hydrate.NormalizeKeys(hydrate.Context{}, l.Overrides)
		if err != nil {
			return Config{}, fmt.Errorf("config: overrides: %w", err)
		}
		layers = append(layers, layering.Layer{Level: layering.SourceLevelOverride, Values: overrides})
	}

	stack := layering.NewStack(layers...)
	sources := stack.Provenance()
	decoder := hydrate.NewDecoder(
		hydrate.WithBase(Default),
		hydrate.WithPreHook[Config](hydrate.NormalizeKeys),
		hydrate.WithDisallowUnknownFields[Config](),
		hydrate.WithPostHook[Config](func(_ hydrate.Context, cfg *Config) error {
			return cfg.Validate()
		}),
	)
	cfg, err := decoder.Decode(hydrate.Context{Source: "config", Sources: sources}, stack.Merge())
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.sources = sources
	return cfg, nil
}

func readTOML(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	values := map[string]any{}
	if _, err := toml.Decode(string(raw), &values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	normalized, err := hydrate.NormalizeKeys(hydrate.Context{}, values)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return normalized, nil
}

func readEnv(lookup func(string) (string, bool)) (map[string]any, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	out := map[string]any{}
	for _, binding := range envBindings {
		name := EnvPrefix + binding.name
		raw, ok := lookup(name)
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		var value any = raw
		if binding.kind == envBool {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("config: %s: invalid bool %q", name, raw)
			}
			value = b
		}
		setPath(out, binding.path, value)
	}
	return out, nil
}

func setPath(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func toMap(cfg Config) (map[string]any, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode defaults: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("config: encode defaults: %w", err)
	}
	return out, nil
}
