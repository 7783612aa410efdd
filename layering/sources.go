package layering

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SourceLevel identifies the precedence of a configuration layer. Higher
// levels override lower levels when layering.
type SourceLevel int

const (
	// SourceLevelUnknown marks a layer missing its level.
	SourceLevelUnknown SourceLevel = iota
	// SourceLevelDefaults is the weakest layer.
	SourceLevelDefaults
	// SourceLevelFile holds values read from a config file.
	SourceLevelFile
	// SourceLevelEnv holds values read from the environment.
	SourceLevelEnv
	// SourceLevelOverride holds values set in code, such as CLI flags.
	SourceLevelOverride
)

func (l SourceLevel) String() string {
	switch l {
	case SourceLevelDefaults:
		return "defaults"
	case SourceLevelFile:
		return "file"
	case SourceLevelEnv:
		return "env"
	case SourceLevelOverride:
		return "override"
	default:
		return "unknown"
	}
}

// ParseSourceLevel converts a string into a SourceLevel. Unrecognised values
// map to SourceLevelUnknown.
func ParseSourceLevel(value string) SourceLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "defaults":
		return SourceLevelDefaults
	case "file":
		return SourceLevelFile
	case "env":
		return SourceLevelEnv
	case "override":
		return SourceLevelOverride
	default:
		return SourceLevelUnknown
	}
}

// Layer is one nested key/value snapshot.
type Layer struct {
	// Name describes where the values came from, e.g. a file path.
	Name   string
	Level  SourceLevel
	Values map[string]any
}

// Label returns "level" or "level:name".
func (l Layer) Label() string {
	if l.Name == "" {
		return l.Level.String()
	}
	return fmt.Sprintf("%s:%s", l.Level, l.Name)
}

// Stack orders layers from strongest to weakest.
type Stack struct {
	ordered []Layer
}

// NewStack drops layers with an unknown level and sorts the rest so stronger
// levels come first. Peers keep their relative order.
func NewStack(layers ...Layer) Stack {
	filtered := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		if layer.Level == SourceLevelUnknown {
			continue
		}
		filtered = append(filtered, layer)
	}
	slices.SortStableFunc(filtered, func(a, b Layer) int {
		switch {
		case a.Level == b.Level:
			return 0
		case a.Level > b.Level:
			return -1
		default:
			return 1
		}
	})
	return Stack{ordered: filtered}
}

// Ordered returns the layers from strongest (index 0) to weakest.
func (s Stack) Ordered() []Layer {
	out := make([]Layer, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Merge combines every layer into one nested map.
func (s Stack) Merge() map[string]any {
	values := make([]map[string]any, 0, len(s.ordered))
	for _, layer := range s.ordered {
		values = append(values, layer.Values)
	}
	merged := MergeLayers(values...)
	if merged == nil {
		return map[string]any{}
	}
	return merged
}

// Provenance maps each dotted leaf key of the merged result to the label of
// the strongest layer that set it.
func (s Stack) Provenance() map[string]string {
	out := map[string]string{}
	for i := len(s.ordered) - 1; i >= 0; i-- {
		layer := s.ordered[i]
		for _, key := range FlattenKeys(layer.Values) {
			out[key] = layer.Label()
		}
	}
	return out
}

// FlattenKeys lists the dotted paths of every non-map leaf in values, sorted.
func FlattenKeys(values map[string]any) []string {
	var keys []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for key, value := range m {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if nested, ok := value.(map[string]any); ok {
				walk(path, nested)
				continue
			}
			keys = append(keys, path)
		}
	}
	walk("", values)
	sort.Strings(keys)
	return keys
}
